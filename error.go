package ioc

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for the failure modes of registration and resolution.
// Every error returned by the container wraps one of these, so callers can
// classify failures with errors.Is. All of them signal composition-time
// mistakes; retrying without changing registrations reproduces the same
// result.
var (
	// ErrUnregisteredType is returned when a requested type, or any type it
	// transitively depends on, has no binding in the container.
	ErrUnregisteredType = errors.New("no binding registered for type")

	// ErrCyclicDependency is returned when resolving a type transitively
	// requires resolving that same type again before its own construction
	// has completed.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrAmbiguousConstructor is returned when the candidate constructors
	// supplied for one binding cannot be ordered into a single choice
	// because they produce different concrete types.
	ErrAmbiguousConstructor = errors.New("ambiguous constructors for binding")

	// ErrInvalidConstructor is returned when a constructor is not a function
	// or does not have exactly one non-error result and at most one error
	// result.
	ErrInvalidConstructor = errors.New("invalid constructor function")

	// ErrConstructorFailed is returned when a constructor's error result was
	// non-nil during resolution.
	ErrConstructorFailed = errors.New("constructor returned an error")

	// ErrTypeMismatch is returned at resolution time when the value a
	// binding produces does not satisfy the requested type. The check is
	// deliberately deferred from registration to resolution.
	ErrTypeMismatch = errors.New("bound value does not satisfy the requested type")

	// ErrNilInstance is returned when an instance binding is registered with
	// a nil value. A nil instance would defer the failure to an unrelated
	// call site, so it is rejected up front.
	ErrNilInstance = errors.New("instance binding must not be nil")

	// ErrInvalidTarget is returned when a resolve target is not a non-nil
	// pointer, or a registration prototype is not a typed nil pointer.
	ErrInvalidTarget = errors.New("target must be a non-nil pointer")

	// ErrDuplicateBinding is returned by a strict container when a type is
	// registered a second time.
	ErrDuplicateBinding = errors.New("type already bound")
)

// ResolutionError carries the context of a failed registration or
// resolution: what went wrong, the type it went wrong for, and a dump of
// the container's state at the time of the failure.
type ResolutionError struct {
	Message        string
	ReferencedType reflect.Type
	Status         string
	SourceError    error
}

func (e *ResolutionError) Error() string {
	if e.SourceError == nil {
		return fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
	}
	return fmt.Sprintf("%s: %v (%v)", e.Message, e.ReferencedType, e.SourceError.Error())
}

func (e *ResolutionError) Unwrap() error {
	return e.SourceError
}
