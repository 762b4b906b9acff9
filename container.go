package ioc

import (
	"reflect"
	"sync"
)

// ContainerOption is a functional option for configuring a Container.
type ContainerOption func(*Container)

// WithStrict makes re-registering an already-bound type an error instead of
// replacing the earlier binding. Useful when the composition root should be
// the only place a type is ever bound.
func WithStrict() ContainerOption {
	return func(c *Container) {
		c.strict = true
	}
}

// Container holds type bindings and produces fully-constructed object
// graphs on demand. It is the only mutable state in the package: there is
// no hidden global registry, so callers that need resolution receive the
// Container itself.
//
// A type is bound either to a constructor function (see Register) or to a
// pre-built value (see RegisterInstance). At most one binding exists per
// requested type; by default a later registration for the same type
// replaces the earlier one. Registration typically happens once at startup,
// while Resolve may be called concurrently from many goroutines; the
// registry lock is held only for the lookup step, so construction of
// unrelated types does not serialize.
type Container struct {
	mu       sync.RWMutex
	bindings map[reflect.Type]*binding
	strict   bool
}

// New creates an empty container.
func New(opts ...ContainerOption) *Container {
	c := &Container{
		bindings: make(map[reflect.Type]*binding),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterType binds the type named by prototype to a constructor with the
// given lifetime. The prototype is a typed nil pointer such as
// (*Logger)(nil): a pointer to an interface binds the interface type, a
// pointer to anything else binds the pointer type itself. The generic
// Register helper is the more convenient form of this.
//
// See Register for the constructor rules and the replacement semantics.
func (c *Container) RegisterType(prototype any, lifetime Lifetime, ctors ...any) error {
	t, err := prototypeType(prototype)
	if err != nil {
		return err
	}
	return c.bindConstructor(t, lifetime, ctors)
}

// RegisterValue binds the type named by prototype to an already-built
// value. The value is returned unchanged on every resolution. The generic
// RegisterInstance helper is the more convenient form of this.
func (c *Container) RegisterValue(prototype any, instance any) error {
	t, err := prototypeType(prototype)
	if err != nil {
		return err
	}
	return c.bindInstance(t, instance)
}

func (c *Container) bindConstructor(t reflect.Type, lifetime Lifetime, ctors []any) error {
	info, err := chooseConstructor(ctors)
	if err != nil {
		return &ResolutionError{
			Message:        "cannot bind constructor",
			ReferencedType: t,
			SourceError:    err,
		}
	}
	return c.put(&binding{
		slotType: t,
		lifetime: lifetime,
		ctor:     info.fn,
		params:   info.params,
	})
}

func (c *Container) bindInstance(t reflect.Type, instance any) error {
	if isNilValue(instance) {
		return &ResolutionError{
			Message:        "cannot bind instance",
			ReferencedType: t,
			SourceError:    ErrNilInstance,
		}
	}
	b := &binding{
		slotType: t,
		lifetime: Singleton,
		instance: instance,
	}
	b.built.Store(true)
	return c.put(b)
}

// put inserts or replaces the binding for its type. Replacement discards
// any previously materialized singleton along with the old binding.
func (c *Container) put(b *binding) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.bindings[b.slotType]; exists && c.strict {
		return &ResolutionError{
			Message:        "strict container rejects re-registration",
			ReferencedType: b.slotType,
			SourceError:    ErrDuplicateBinding,
		}
	}
	c.bindings[b.slotType] = b
	return nil
}

func (c *Container) lookup(t reflect.Type) (*binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[t]
	return b, ok
}

// snapshot returns the current bindings. Verify, Warmup and Status work on
// this stable view so a concurrent registration cannot trip them up.
func (c *Container) snapshot() []*binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*binding, 0, len(c.bindings))
	for _, b := range c.bindings {
		result = append(result, b)
	}
	return result
}

// prototypeType derives the requested-type identifier from a typed nil
// pointer. A pointer to an interface names the interface type; a pointer to
// a concrete type names the pointer type itself, e.g. (*SQLRepo)(nil)
// binds *SQLRepo.
func prototypeType(prototype any) (reflect.Type, error) {
	t := reflect.TypeOf(prototype)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, &ResolutionError{
			Message:        "registration prototype must be a typed nil pointer like (*Iface)(nil)",
			ReferencedType: t,
			SourceError:    ErrInvalidTarget,
		}
	}
	if t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

func isNilValue(instance any) bool {
	if instance == nil {
		return true
	}
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
