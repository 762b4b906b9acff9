package ioc

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type cycle int

const cycleKey cycle = 0

type releaser func()

// resolutionPass tracks the types whose construction is in progress on one
// resolution pass. It travels in the context handed to constructors, so a
// constructor that calls back into the container shares the same pass and
// cycles through callbacks are caught too.
type resolutionPass struct {
	lock  sync.Mutex
	stack []reflect.Type
}

// passContext returns the pass already carried by ctx, or starts a fresh
// one and attaches it.
func passContext(ctx context.Context) (*resolutionPass, context.Context) {
	if p, ok := ctx.Value(cycleKey).(*resolutionPass); ok {
		return p, ctx
	}
	p := &resolutionPass{}
	return p, context.WithValue(ctx, cycleKey, p)
}

// enter marks t as in progress and returns a releaser that unmarks it once
// construction completes. If t is already in progress on this pass the
// dependency graph has a cycle, and resolution must fail fast instead of
// recursing until the stack overflows.
func (p *resolutionPass) enter(t reflect.Type) (releaser, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, active := range p.stack {
		if active == t {
			return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, p.chain(t))
		}
	}
	p.stack = append(p.stack, t)

	return func() {
		p.lock.Lock()
		p.stack = p.stack[:len(p.stack)-1]
		p.lock.Unlock()
	}, nil
}

// chain renders the in-progress stack plus the repeated type, e.g.
// "*A -> *B -> *A". Callers must hold p.lock.
func (p *resolutionPass) chain(t reflect.Type) string {
	builder := strings.Builder{}
	for _, active := range p.stack {
		builder.WriteString(fmt.Sprintf("%v -> ", active))
	}
	builder.WriteString(fmt.Sprintf("%v", t))
	return builder.String()
}
