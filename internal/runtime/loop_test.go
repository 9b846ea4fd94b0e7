package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowline/internal/runtime"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An "inc" loop whose condition result is always a non-empty mapping never
// terminates on its own. The engine does not stop it; only a caller-imposed
// step budget does.
func registerEndlessIncrement(t *testing.T, f *fixture) {
	t.Helper()
	f.handlers.RegisterFunc("inc", func(ctx context.Context, s *domain.State) (any, error) {
		n, _ := s.Data["n"].(int)
		return map[string]any{"n": n + 1}, nil
	})
	require.NoError(t, f.workflows.Register(graph("endless", "a",
		task("a", "inc", map[string]string{"default": "b"}),
		condition("b", "inc", map[string]string{"true": "a", "false": ""}),
	)))
}

func TestEngine_EndlessLoopStoppedByStepBudget(t *testing.T) {
	f := newFixture()
	registerEndlessIncrement(t, f)

	state, err := f.engine(runtime.WithMaxSteps(50)).Execute(context.Background(), "endless", map[string]any{"n": 0})

	require.ErrorIs(t, err, domain.ErrStepLimitExceeded)
	var limitErr *domain.StepLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 50, limitErr.Limit)

	assert.Equal(t, 50, state.Steps)
	assert.Equal(t, 50, state.Data["n"], "every entered node incremented n")
	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Len(t, f.visited, 50)

	// 50 steps end on "b"; the budget stops the run before "a" is entered again.
	assert.Equal(t, "a", state.CurrentNode)
	assert.Equal(t, domain.LevelError, lastLog(state).Level)
	assert.Contains(t, lastLog(state).Message, "node 'a' failed")
	assert.Len(t, state.Path, 50)
}

func TestEngine_EndlessLoopStoppedByCallerHook(t *testing.T) {
	f := newFixture()
	registerEndlessIncrement(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const limit = 101
	entered := 0
	eng := f.engine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			entered++
			if entered == limit {
				cancel()
			}
		},
	}))

	state, err := eng.Execute(ctx, "endless", map[string]any{"n": 0})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, limit, entered)
	assert.Equal(t, limit, state.Data["n"])
}

func TestEngine_UnboundedByDefault(t *testing.T) {
	f := newFixture()
	f.handlers.RegisterFunc("count", func(ctx context.Context, s *domain.State) (any, error) {
		n, _ := s.Data["n"].(int)
		return map[string]any{"n": n + 1}, nil
	})
	f.handlers.RegisterFunc("more", func(ctx context.Context, s *domain.State) (any, error) {
		return s.Data["n"].(int) < 5000, nil
	})
	require.NoError(t, f.workflows.Register(graph("long", "a",
		task("a", "count", map[string]string{"default": "b"}),
		condition("b", "more", map[string]string{"true": "a"}),
	)))

	state, err := f.engine().Execute(context.Background(), "long", nil)
	require.NoError(t, err)
	assert.Equal(t, 5000, state.Data["n"])
	assert.Equal(t, 10000, state.Steps)
}
