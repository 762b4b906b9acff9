package ioc

import (
	"reflect"
	"sync"
)

// typeInfo caches the expensive reflection walk over a constructor function
// type: its parameter list and its result split into values and errors.
type typeInfo struct {
	params     []reflect.Type
	results    []reflect.Type
	errorCount int
}

// Global type cache to avoid repeated reflection operations. Keyed by the
// function type, which is all the inspection depends on.
var globalTypeCache sync.Map // map[reflect.Type]*typeInfo

// getTypeInfo returns cached type information, computing it if necessary.
// The caller validates result counts; this only gathers them.
func getTypeInfo(t reflect.Type) *typeInfo {
	if cached, ok := globalTypeCache.Load(t); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{
		params: make([]reflect.Type, t.NumIn()),
	}
	for i := 0; i < t.NumIn(); i++ {
		info.params[i] = t.In(i)
	}
	for i := 0; i < t.NumOut(); i++ {
		out := t.Out(i)
		if out.AssignableTo(errorType) {
			info.errorCount++
		} else {
			info.results = append(info.results, out)
		}
	}

	actual, _ := globalTypeCache.LoadOrStore(t, info)
	return actual.(*typeInfo)
}
