package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract is a reusable test suite that verifies if an adapter complies with ports.RunStore.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000")

	newRun := func(id string) domain.Run {
		state := domain.NewState("wf", map[string]any{"foo": "bar", "count": 42})
		state.AddLog("node 'a' completed successfully")
		return domain.Run{
			ID:        id,
			Workflow:  "wf",
			Status:    domain.RunStarted,
			State:     state,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-save"
		run := newRun(id)
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, "wf", loaded.Workflow)
		assert.Equal(t, domain.RunStarted, loaded.Status)
		require.NotNil(t, loaded.State)
		assert.Equal(t, "bar", loaded.State.Data["foo"])
		// JSON-backed stores turn ints into float64; existence is enough here.
		assert.NotNil(t, loaded.State.Data["count"])
		require.Len(t, loaded.State.ExecutionLog, 1)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt), "created_at round-trips")
		assert.Nil(t, loaded.FinishedAt)
	})

	t.Run("Overwrite", func(t *testing.T) {
		id := prefix + "-overwrite"
		run := newRun(id)
		require.NoError(t, store.Save(ctx, run))

		finished := time.Now().UTC().Truncate(time.Millisecond)
		run.Status = domain.RunFailed
		run.Error = "boom"
		run.FinishedAt = &finished
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.RunFailed, loaded.Status)
		assert.Equal(t, "boom", loaded.Error)
		require.NotNil(t, loaded.FinishedAt)
		assert.True(t, finished.Equal(*loaded.FinishedAt))
	})

	t.Run("Isolation", func(t *testing.T) {
		id := prefix + "-isolation"
		run := newRun(id)
		require.NoError(t, store.Save(ctx, run))

		run.State.Data["foo"] = "mutated"
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "bar", loaded.State.Data["foo"], "store must copy on save")

		loaded.State.Data["foo"] = "mutated-again"
		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "bar", again.State.Data["foo"], "store must copy on load")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, ports.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, newRun(id)))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ports.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-list-1"
		id2 := prefix + "-list-2"
		r1 := newRun(id1)
		r2 := newRun(id2)
		r2.CreatedAt = r1.CreatedAt.Add(time.Second)
		require.NoError(t, store.Save(ctx, r1))
		require.NoError(t, store.Save(ctx, r2))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
