package ioc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gburgyan/go-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger interface {
	Log(msg string)
}

type consoleLogger struct {
	lines []string
}

func (l *consoleLogger) Log(msg string) {
	l.lines = append(l.lines, msg)
}

func newConsoleLogger() *consoleLogger {
	return &consoleLogger{}
}

type testRepo interface {
	Find(id string) string
}

type sqlRepo struct {
	logger testLogger
}

func (r *sqlRepo) Find(id string) string {
	return "row:" + id
}

func newSQLRepo(logger testLogger) *sqlRepo {
	return &sqlRepo{logger: logger}
}

type userService struct {
	repo   testRepo
	logger testLogger
}

func newUserService(repo testRepo, logger testLogger) *userService {
	return &userService{repo: repo, logger: logger}
}

func TestResolve_InterfaceBinding(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))

	logger, err := Resolve[testLogger](context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &consoleLogger{}, logger)
}

func TestResolve_DependencyChain(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))
	require.NoError(t, Register[testRepo](c, Transient, newSQLRepo))
	require.NoError(t, Register[*userService](c, Transient, newUserService))

	svc, err := Resolve[*userService](context.Background(), c)
	require.NoError(t, err)

	require.NotNil(t, svc.repo)
	require.NotNil(t, svc.logger)
	assert.IsType(t, &sqlRepo{}, svc.repo)
	assert.IsType(t, &consoleLogger{}, svc.logger)

	// Both loggers are transient, so the one inside the repo and the one
	// given directly to the service are distinct objects.
	repoLogger := svc.repo.(*sqlRepo).logger
	assert.NotSame(t, svc.logger, repoLogger)
}

func TestResolve_DependencyChain_SingletonLogger(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Singleton, newConsoleLogger))
	require.NoError(t, Register[testRepo](c, Transient, newSQLRepo))
	require.NoError(t, Register[*userService](c, Transient, newUserService))

	svc, err := Resolve[*userService](context.Background(), c)
	require.NoError(t, err)

	// With the logger registered as a singleton, both observations are the
	// same object instance.
	assert.Same(t, svc.logger, svc.repo.(*sqlRepo).logger)
}

func TestResolve_DepthFirstConstruction(t *testing.T) {
	type levelC struct{}
	type levelB struct{ c *levelC }
	type levelA struct{ b *levelB }

	var order []string
	c := New()
	require.NoError(t, Register[*levelC](c, Transient, func() *levelC {
		order = append(order, "C")
		return &levelC{}
	}))
	require.NoError(t, Register[*levelB](c, Transient, func(dep *levelC) *levelB {
		order = append(order, "B")
		return &levelB{c: dep}
	}))
	require.NoError(t, Register[*levelA](c, Transient, func(dep *levelB) *levelA {
		order = append(order, "A")
		return &levelA{b: dep}
	}))

	a, err := Resolve[*levelA](context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, a.b)
	require.NotNil(t, a.b.c)

	// Dependencies are constructed before their parents.
	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestResolve_TransientIdentity(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))

	first := MustResolve[testLogger](context.Background(), c)
	second := MustResolve[testLogger](context.Background(), c)
	assert.NotSame(t, first, second)
}

func TestResolve_SingletonIdentity(t *testing.T) {
	calls := 0
	c := New()
	require.NoError(t, Register[testLogger](c, Singleton, func() *consoleLogger {
		calls++
		return &consoleLogger{}
	}))

	first := MustResolve[testLogger](context.Background(), c)
	second := MustResolve[testLogger](context.Background(), c)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestResolve_InstanceBinding(t *testing.T) {
	logger := &consoleLogger{}
	c := New()
	require.NoError(t, RegisterInstance[testLogger](c, logger))

	resolved, err := Resolve[testLogger](context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, logger, resolved)
}

func TestResolve_UnregisteredType(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))

	_, err := Resolve[testRepo](context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnregisteredType))
	assert.Contains(t, err.Error(), "ioc.testRepo")

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Contains(t, resErr.Status, "ioc.testLogger")
}

func TestResolve_UnregisteredDependency(t *testing.T) {
	// The repo is registered but its logger dependency is not; the error
	// names the missing type, not the requested one.
	c := New()
	require.NoError(t, Register[testRepo](c, Transient, newSQLRepo))

	_, err := Resolve[testRepo](context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnregisteredType))
	assert.Contains(t, err.Error(), "ioc.testLogger")
}

func TestResolve_ConstructorError(t *testing.T) {
	boom := fmt.Errorf("connection refused")
	c := New()
	require.NoError(t, Register[testRepo](c, Transient, func() (*sqlRepo, error) {
		return nil, boom
	}))

	_, err := Resolve[testRepo](context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstructorFailed))
	assert.True(t, errors.Is(err, boom))
}

func TestResolve_ConstructorErrorInDependency(t *testing.T) {
	boom := fmt.Errorf("no logger today")
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, func() (*consoleLogger, error) {
		return nil, boom
	}))
	require.NoError(t, Register[testRepo](c, Transient, newSQLRepo))

	_, err := Resolve[testRepo](context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "ioc.testLogger")
}

func TestResolve_ContextParameter(t *testing.T) {
	type ctxKey string
	const key ctxKey = "tenant"

	type tenantRepo struct {
		tenant string
	}

	c := New()
	require.NoError(t, Register[*tenantRepo](c, Transient, func(ctx context.Context) *tenantRepo {
		return &tenantRepo{tenant: ctx.Value(key).(string)}
	}))

	ctx := context.WithValue(context.Background(), key, "acme")
	repo, err := Resolve[*tenantRepo](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "acme", repo.tenant)
}

func TestResolve_ContainerParameter(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Singleton, newConsoleLogger))
	require.NoError(t, Register[testRepo](c, Transient, func(ctx context.Context, inner *Container) *sqlRepo {
		return &sqlRepo{logger: MustResolve[testLogger](ctx, inner)}
	}))

	repo, err := Resolve[testRepo](context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, MustResolve[testLogger](context.Background(), c), repo.(*sqlRepo).logger)
}

func TestResolve_PointerFill(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))

	var logger testLogger
	require.NoError(t, c.Resolve(context.Background(), &logger))
	assert.IsType(t, &consoleLogger{}, logger)

	var repo *sqlRepo
	err := c.Resolve(context.Background(), &repo)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnregisteredType))
	assert.Nil(t, repo)
}

func TestResolve_InvalidTarget(t *testing.T) {
	c := New()

	err := c.Resolve(context.Background(), consoleLogger{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	var nilTarget *consoleLogger
	err = c.Resolve(context.Background(), nilTarget)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestMustResolve_Panics(t *testing.T) {
	c := New()
	assert.Panics(t, func() {
		MustResolve[testLogger](context.Background(), c)
	})
}

func TestTryResolve(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := New()
		if err := Register[testLogger](c, Transient, newConsoleLogger); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		logger, ok := TryResolve[testLogger](context.Background(), c)
		if !ok {
			t.Error("expected to resolve logger")
		}
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("missing", func(t *testing.T) {
		c := New()
		logger, ok := TryResolve[testLogger](context.Background(), c)
		if ok {
			t.Error("expected resolution to fail")
		}
		if logger != nil {
			t.Error("expected nil logger")
		}
	})
}

func TestResolve_ConcurrentSingletonIdentity(t *testing.T) {
	c := New()
	require.NoError(t, Register[testLogger](c, Singleton, func() *consoleLogger {
		// Slow construction widens the window for racing resolvers.
		time.Sleep(50 * time.Millisecond)
		return &consoleLogger{}
	}))

	const resolvers = 8
	results := make([]testLogger, resolvers)
	var wg sync.WaitGroup
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MustResolve[testLogger](context.Background(), c)
		}(i)
	}
	wg.Wait()

	// Whichever resolver won the race, everyone holds the stored winner.
	for i := 1; i < resolvers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Same(t, results[0], MustResolve[testLogger](context.Background(), c))
}

func TestResolve_WithTiming(t *testing.T) {
	EnableTiming = TimingConstructors
	defer func() { EnableTiming = TimingDisable }()

	c := New()
	require.NoError(t, Register[testLogger](c, Transient, newConsoleLogger))
	require.NoError(t, Register[testRepo](c, Transient, newSQLRepo))

	tCtx := timing.Root(context.Background())
	repo, err := Resolve[testRepo](tCtx, c)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}
