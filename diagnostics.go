package ioc

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of
// the container. The result is each bound type, its lifetime, whether it
// has been materialized, and the signature of the constructor that can make
// it. It is embedded in resolution errors so a failure report shows what
// the registry actually held.
func (c *Container) Status() string {
	lines := map[string]string{}
	var keys []string

	for _, b := range c.snapshot() {
		key := fmt.Sprintf("%v", b.slotType)
		var line string
		switch {
		case b.isInstance():
			line = fmt.Sprintf("%v - instance value set", b.slotType)
		case b.lifetime == Singleton && b.built.Load():
			line = fmt.Sprintf("%v - singleton - materialized - constructor: %s", b.slotType, formatConstructorDebug(b.ctor))
		case b.lifetime == Singleton:
			line = fmt.Sprintf("%v - singleton - uninitialized - constructor: %s", b.slotType, formatConstructorDebug(b.ctor))
		default:
			line = fmt.Sprintf("%v - transient - constructor: %s", b.slotType, formatConstructorDebug(b.ctor))
		}
		lines[key] = line
		keys = append(keys, key)
	}

	sort.Strings(keys)

	result := strings.Builder{}
	for _, key := range keys {
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(lines[key])
	}
	return result.String()
}

// formatConstructorDebug simply returns a string representation of a
// constructor. This is used instead of the native `%#v` formatter to not
// return the raw address of the function as that's not important for this
// and simplifies testing.
func formatConstructorDebug(ctor reflect.Value) string {
	if !ctor.IsValid() {
		return "-"
	}
	ctorType := ctor.Type()
	if ctorType.Kind() != reflect.Func {
		// We should never get here
		return "non-function!"
	}
	builder := strings.Builder{}
	builder.WriteString("(")
	for i := 0; i < ctorType.NumIn(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(ctorType.In(i).String())
	}
	builder.WriteString(") ")
	for i := 0; i < ctorType.NumOut(); i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(ctorType.Out(i).String())
	}
	return builder.String()
}
