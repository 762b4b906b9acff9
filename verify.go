package ioc

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Verify statically checks every registered binding without constructing
// anything: each constructor parameter must be resolvable through the
// registry (or be an injected context.Context or *Container parameter), and
// the dependency graph must be acyclic. The first problem found is returned
// as a ResolutionError, so a composition root can fail at startup rather
// than on the first resolution that happens to need the broken type.
func (c *Container) Verify() error {
	c.mu.RLock()
	bindings := make(map[reflect.Type]*binding, len(c.bindings))
	for t, b := range c.bindings {
		bindings[t] = b
	}
	c.mu.RUnlock()

	const (
		unvisited = iota
		visiting
		verified
	)
	state := make(map[reflect.Type]int, len(bindings))

	var visit func(t reflect.Type, path []reflect.Type) error
	visit = func(t reflect.Type, path []reflect.Type) error {
		b, ok := bindings[t]
		if !ok {
			return &ResolutionError{
				Message:        fmt.Sprintf("unresolvable dependency (%s)", formatTypeChain(path, t)),
				ReferencedType: t,
				Status:         c.Status(),
				SourceError:    ErrUnregisteredType,
			}
		}
		switch state[t] {
		case verified:
			return nil
		case visiting:
			return &ResolutionError{
				Message:        fmt.Sprintf("dependency cycle (%s)", formatTypeChain(path, t)),
				ReferencedType: t,
				Status:         c.Status(),
				SourceError:    ErrCyclicDependency,
			}
		}
		state[t] = visiting
		if !b.isInstance() {
			for _, paramType := range b.params {
				if paramType == contextType || paramType == containerType {
					continue
				}
				if err := visit(paramType, append(path, t)); err != nil {
					return err
				}
			}
		}
		state[t] = verified
		return nil
	}

	// Walk roots in a stable order so repeated Verify calls report the
	// same first failure.
	roots := make([]reflect.Type, 0, len(bindings))
	for t := range bindings {
		roots = append(roots, t)
	}
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].String() < roots[j].String()
	})

	for _, t := range roots {
		if err := visit(t, nil); err != nil {
			return err
		}
	}
	return nil
}

func formatTypeChain(path []reflect.Type, t reflect.Type) string {
	builder := strings.Builder{}
	for _, p := range path {
		builder.WriteString(fmt.Sprintf("%v -> ", p))
	}
	builder.WriteString(fmt.Sprintf("%v", t))
	return builder.String()
}
