package ioc

import (
	"context"
	"fmt"
	"reflect"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	contextType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	containerType = reflect.TypeOf((*Container)(nil))
)

// constructorInfo describes one usable constructor candidate: the function
// itself, its parameter types in declared order, and the concrete type it
// produces.
type constructorInfo struct {
	fn      reflect.Value
	params  []reflect.Type
	produce reflect.Type
}

// chooseConstructor validates the candidate constructors and picks the one
// the resolver will use. The policy is deterministic: the constructor with
// the most parameters wins, and ties are broken by argument order (earlier
// wins). Candidates that produce different concrete types cannot form a
// single binding and are rejected as ambiguous.
func chooseConstructor(ctors []any) (*constructorInfo, error) {
	if len(ctors) == 0 {
		return nil, fmt.Errorf("%w: no constructor supplied", ErrInvalidConstructor)
	}

	var best *constructorInfo
	for _, ctor := range ctors {
		info, err := inspectConstructor(ctor)
		if err != nil {
			return nil, err
		}
		if best == nil {
			best = info
			continue
		}
		if info.produce != best.produce {
			return nil, fmt.Errorf("%w: candidates produce %v and %v",
				ErrAmbiguousConstructor, best.produce, info.produce)
		}
		if len(info.params) > len(best.params) {
			best = info
		}
	}
	return best, nil
}

// inspectConstructor checks that ctor is a function with exactly one
// non-error result and at most one trailing error result.
func inspectConstructor(ctor any) (*constructorInfo, error) {
	t := reflect.TypeOf(ctor)
	if t == nil || t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %v, want a function", ErrInvalidConstructor, t)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic constructors not permitted", ErrInvalidConstructor)
	}

	info := getTypeInfo(t)
	if info.errorCount > 1 {
		return nil, fmt.Errorf("%w: multiple error results not permitted", ErrInvalidConstructor)
	}
	if len(info.results) != 1 {
		return nil, fmt.Errorf("%w: must have exactly one non-error result, got %d",
			ErrInvalidConstructor, len(info.results))
	}

	return &constructorInfo{
		fn:      reflect.ValueOf(ctor),
		params:  info.params,
		produce: info.results[0],
	}, nil
}

// splitResults separates a constructor's return values into the produced
// value and the error, if the constructor declared one.
func splitResults(results []reflect.Value) (reflect.Value, error) {
	var value reflect.Value
	for _, r := range results {
		if r.Type().AssignableTo(errorType) {
			if !r.IsNil() {
				return reflect.Value{}, r.Interface().(error)
			}
			continue
		}
		value = r
	}
	return value, nil
}
