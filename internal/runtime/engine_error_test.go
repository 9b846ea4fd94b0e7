package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/flowline/internal/runtime"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLog(s *domain.State) domain.LogEntry {
	return s.ExecutionLog[len(s.ExecutionLog)-1]
}

func TestEngine_UnknownWorkflowCreatesNoState(t *testing.T) {
	f := newFixture()
	started := false
	eng := f.engine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) { started = true },
	}))
	state, err := eng.Execute(context.Background(), "ghost", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	assert.Nil(t, state)
	assert.False(t, started)
}

func TestEngine_InvalidInputCreatesNoState(t *testing.T) {
	f := newFixture()
	f.returns("noop", nil)
	g := graph("typed", "a", task("a", "noop", nil))
	g.InputSchema = map[string]string{"code": "string", "limit": "int?"}
	require.NoError(t, f.workflows.Register(g))

	started := false
	eng := f.engine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) { started = true },
	}))

	state, err := eng.Execute(context.Background(), "typed", map[string]any{"limit": 3})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
	assert.Nil(t, state)
	assert.False(t, started)
	assert.Empty(t, f.visited)

	state, err = eng.Execute(context.Background(), "typed", map[string]any{"code": "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, state.Status)
}

func TestEngine_MissingEntryNode(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.workflows.Register(graph("wf", "ghost")))

	state, err := f.engine().Execute(context.Background(), "wf", nil)

	require.ErrorIs(t, err, domain.ErrNodeNotFound)
	var nf *domain.NodeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "ghost", nf.NodeID)

	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Equal(t, "ghost", state.CurrentNode)
	assert.Equal(t, domain.LevelError, lastLog(state).Level)
	assert.Contains(t, lastLog(state).Message, "node 'ghost' failed:")
}

func TestEngine_DanglingBranchKeepsPriorMerges(t *testing.T) {
	f := newFixture()
	f.returns("set", map[string]any{"first": true})
	require.NoError(t, f.workflows.Register(graph("wf", "a",
		task("a", "set", map[string]string{"default": "missing"}),
	)))

	state, err := f.engine().Execute(context.Background(), "wf", nil)

	require.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Equal(t, "missing", state.CurrentNode)
	assert.Equal(t, true, state.Data["first"], "merges of completed nodes are not rolled back")
	assert.Equal(t, domain.StatusFailed, state.Status)
}

func TestEngine_MissingHandler(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.workflows.Register(graph("wf", "a", task("a", "nope", nil))))

	state, err := f.engine().Execute(context.Background(), "wf", nil)

	require.ErrorIs(t, err, domain.ErrHandlerNotFound)
	assert.Equal(t, "a", state.CurrentNode, "failure context reflects the attempted node")
	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Equal(t, "node 'a' failed: function 'nope' not found in registry", lastLog(state).Message)
}

func TestEngine_HandlerErrorPassesThroughUnmodified(t *testing.T) {
	f := newFixture()
	boom := errors.New("boom")
	f.returns("ok", map[string]any{"step1": "done"})
	f.handlers.RegisterFunc("fail", func(ctx context.Context, s *domain.State) (any, error) {
		return map[string]any{"ignored": true}, boom
	})
	f.returns("never", nil)
	require.NoError(t, f.workflows.Register(graph("wf", "a",
		task("a", "ok", map[string]string{"default": "b"}),
		task("b", "fail", map[string]string{"default": "c"}),
		task("c", "never", nil),
	)))

	state, err := f.engine().Execute(context.Background(), "wf", nil)

	assert.Same(t, boom, err)
	assert.Equal(t, []string{"a", "b"}, f.visited, "traversal stops at the failing node")
	assert.Equal(t, "b", state.CurrentNode)
	assert.Equal(t, "done", state.Data["step1"])
	assert.NotContains(t, state.Data, "ignored")
	assert.Equal(t, "node 'b' failed: boom", lastLog(state).Message)
}

func TestEngine_HandlerPanicIsReported(t *testing.T) {
	f := newFixture()
	f.handlers.RegisterFunc("explode", func(ctx context.Context, s *domain.State) (any, error) {
		panic("kaboom")
	})
	require.NoError(t, f.workflows.Register(graph("wf", "a", task("a", "explode", nil))))

	state, err := f.engine().Execute(context.Background(), "wf", nil)

	require.ErrorIs(t, err, domain.ErrHandlerPanic)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, domain.StatusFailed, state.Status)
}

func TestEngine_CanceledContextStopsBeforeNextNode(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.handlers.RegisterFunc("cancel", func(ctx context.Context, s *domain.State) (any, error) {
		cancel()
		return nil, nil
	})
	f.returns("never", nil)
	require.NoError(t, f.workflows.Register(graph("wf", "a",
		task("a", "cancel", map[string]string{"default": "b"}),
		task("b", "never", nil),
	)))

	state, err := f.engine().Execute(ctx, "wf", nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, f.visited)
	assert.Equal(t, domain.StatusFailed, state.Status)
	assert.Equal(t, "b", state.CurrentNode)
	assert.Equal(t, "node 'b' failed: context canceled", lastLog(state).Message)
	assert.Equal(t, []string{"a"}, state.Path)
}
