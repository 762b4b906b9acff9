package ioc

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Lifetime controls how often a constructor binding produces a new value.
type Lifetime int

const (
	// Transient constructs a new value on every resolution.
	Transient Lifetime = iota

	// Singleton constructs a value once, on first resolution, and returns
	// that same value for every later resolution.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// binding associates a requested type with either a constructor function or
// a pre-built value. A binding with no constructor is an instance binding
// and always behaves as a singleton.
type binding struct {
	slotType reflect.Type
	lifetime Lifetime

	// Constructor binding state. params is the constructor descriptor: the
	// parameter types that must be satisfied, in declared order.
	ctor   reflect.Value
	params []reflect.Type

	// Materialized value. For instance bindings this is set at registration.
	// For singleton constructor bindings mu guards the store of a newly
	// constructed value and built flips only after instance holds the final
	// one; readers that observe built may read instance without the lock.
	mu       sync.Mutex
	instance any
	built    atomic.Bool
}

func (b *binding) isInstance() bool {
	return !b.ctor.IsValid()
}
