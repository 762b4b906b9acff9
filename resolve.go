package ioc

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gburgyan/go-timing"
)

// Resolve fills target, which must be a non-nil pointer, with a fully
// constructed value for the pointed-to type. A pointer to an interface
// resolves the interface type; a pointer to a pointer resolves the inner
// pointer type:
//
//	var logger Logger
//	err := c.Resolve(ctx, &logger)
//
// The ctx is handed to any constructor that declares a context.Context
// parameter; the container never blocks on I/O itself. The generic Resolve
// function is the more convenient form of this.
func (c *Container) Resolve(ctx context.Context, target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return &ResolutionError{
			Message:        "resolve target must be a non-nil pointer",
			ReferencedType: reflect.TypeOf(target),
			SourceError:    ErrInvalidTarget,
		}
	}
	t := val.Elem().Type()
	instance, err := c.resolveType(ctx, t)
	if err != nil {
		return err
	}
	val.Elem().Set(reflect.ValueOf(instance))
	return nil
}

// resolveType produces a value for t: look up the binding, guard against
// cycles, and construct depth-first. Every dependency argument is resolved
// before the parent constructor runs, so a successful return is always a
// fully initialized object graph.
func (c *Container) resolveType(ctx context.Context, t reflect.Type) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pass, ctx := passContext(ctx)

	release, err := pass.enter(t)
	if err != nil {
		return nil, &ResolutionError{
			Message:        "cyclic dependency error resolving type",
			ReferencedType: t,
			Status:         c.Status(),
			SourceError:    err,
		}
	}
	defer release()

	b, ok := c.lookup(t)
	if !ok {
		return nil, &ResolutionError{
			Message:        "no binding registered for type",
			ReferencedType: t,
			Status:         c.Status(),
			SourceError:    ErrUnregisteredType,
		}
	}
	return c.resolveBinding(ctx, b)
}

// resolveBinding returns the binding's value per its lifetime. Instance
// bindings and materialized singletons return the stored value unchanged;
// identity is preserved. Singleton construction runs without holding the
// binding lock, so a cyclic graph fails through the pass's cycle check
// rather than deadlocking two resolvers against each other's locks. Racing
// first resolutions may each construct a candidate; the lock is taken only
// to store, and losers discard theirs and return the winner's value.
// Transients construct unserialized.
func (c *Container) resolveBinding(ctx context.Context, b *binding) (any, error) {
	if b.isInstance() {
		return b.instance, nil
	}

	if b.lifetime == Singleton {
		if b.built.Load() {
			return b.instance, nil
		}
		instance, err := c.construct(ctx, b)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.built.Load() {
			return b.instance, nil
		}
		b.instance = instance
		b.built.Store(true)
		return instance, nil
	}

	return c.construct(ctx, b)
}

// construct resolves the constructor's parameters in declared order, then
// invokes it. Parameters of type context.Context receive the caller's ctx
// and parameters of type *Container receive the container itself; anything
// else goes through the registry.
func (c *Container) construct(ctx context.Context, b *binding) (any, error) {
	if EnableTiming == TimingConstructors {
		tCtx, complete := timing.Start(ctx, "construct:"+b.slotType.String())
		defer complete()
		ctx = tCtx
	}

	args := make([]reflect.Value, len(b.params))
	for i, paramType := range b.params {
		switch paramType {
		case contextType:
			args[i] = reflect.ValueOf(ctx)
		case containerType:
			args[i] = reflect.ValueOf(c)
		default:
			instance, err := c.resolveType(ctx, paramType)
			if err != nil {
				return nil, err
			}
			args[i] = reflect.ValueOf(instance)
		}
	}

	value, err := splitResults(b.ctor.Call(args))
	if err != nil {
		return nil, &ResolutionError{
			Message:        "constructor failed for type",
			ReferencedType: b.slotType,
			SourceError:    fmt.Errorf("%w: %w", ErrConstructorFailed, err),
		}
	}
	if !value.Type().AssignableTo(b.slotType) {
		return nil, &ResolutionError{
			Message:        "constructed value does not satisfy requested type",
			ReferencedType: b.slotType,
			Status:         c.Status(),
			SourceError:    ErrTypeMismatch,
		}
	}
	return value.Interface(), nil
}
