package ioc

import (
	"context"
	"reflect"
)

// TimingMode controls whether constructor invocations are timed.
type TimingMode int

const (
	// TimingDisable will disable timing for all containers.
	TimingDisable TimingMode = iota

	// TimingConstructors will start a timing context for each constructor
	// that is called. This is useful to see where the time of a resolution
	// pass is being spent, and gives the exact stack of the construction.
	TimingConstructors
)

var EnableTiming = TimingDisable

// Register binds the requested type T to a constructor with the given
// lifetime:
//
//	c := ioc.New()
//	err := ioc.Register[Logger](c, ioc.Transient, NewConsoleLogger)
//
// Each constructor must be a function with exactly one non-error result and
// at most one trailing error result; its parameters are resolved from the
// same container, in declared order, when T is resolved. Parameters of type
// context.Context and *Container are injected directly rather than looked
// up.
//
// More than one candidate constructor may be supplied. The one with the
// most parameters is used; ties go to the earlier argument. Candidates
// producing different concrete types are rejected as ambiguous.
//
// A later Register or RegisterInstance for the same T replaces the earlier
// binding, materialized singleton included. Use WithStrict to make that an
// error instead. Whether the constructed value actually satisfies T is not
// checked here; that surfaces as ErrTypeMismatch at resolution.
func Register[T any](c *Container, lifetime Lifetime, ctors ...any) error {
	return c.bindConstructor(typeFor[T](), lifetime, ctors)
}

// RegisterInstance binds the requested type T to an already-built value,
// which every resolution returns unchanged. The value is shared by all
// resolvers for as long as the container lives. A nil instance is rejected
// with ErrNilInstance.
func RegisterInstance[T any](c *Container, instance T) error {
	return c.bindInstance(typeFor[T](), instance)
}

// MustRegister behaves like Register except it panics on error. Intended
// for composition roots where a bad registration should abort startup.
func MustRegister[T any](c *Container, lifetime Lifetime, ctors ...any) {
	if err := Register[T](c, lifetime, ctors...); err != nil {
		panic(err)
	}
}

// MustRegisterInstance behaves like RegisterInstance except it panics on
// error.
func MustRegisterInstance[T any](c *Container, instance T) {
	if err := RegisterInstance[T](c, instance); err != nil {
		panic(err)
	}
}

// Resolve returns a fully constructed value of type T from the container.
// It fails with ErrUnregisteredType if T, or any type it transitively
// requires, has no binding; it never substitutes a nil value for a missing
// binding.
func Resolve[T any](ctx context.Context, c *Container) (T, error) {
	var zero T
	instance, err := c.resolveType(ctx, typeFor[T]())
	if err != nil {
		return zero, err
	}
	return instance.(T), nil
}

// MustResolve behaves like Resolve except it panics if the resolution
// fails.
func MustResolve[T any](ctx context.Context, c *Container) T {
	instance, err := Resolve[T](ctx, c)
	if err != nil {
		panic(err)
	}
	return instance
}

// TryResolve returns the value of type T along with a boolean indicating
// whether the resolution succeeded. Unlike Resolve it discards the error,
// for callers that treat the dependency as optional.
func TryResolve[T any](ctx context.Context, c *Container) (T, bool) {
	instance, err := Resolve[T](ctx, c)
	return instance, err == nil
}

// typeFor derives the requested-type identifier from the type parameter:
// the interface type for an interface T, the pointer type for a pointer T.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
