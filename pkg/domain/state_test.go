package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_CopiesInitialData(t *testing.T) {
	initial := map[string]any{"count": 5}
	s := NewState("wf", initial)

	s.Merge(map[string]any{"count": 6, "extra": true})

	assert.Equal(t, 5, initial["count"], "initial data must not be mutated by merges")
	assert.Equal(t, 6, s.Data["count"])
	assert.Equal(t, StatusPending, s.Status)
	assert.Empty(t, s.CurrentNode)
}

func TestState_MergeOverwritesWithoutDeepMerge(t *testing.T) {
	s := NewState("wf", map[string]any{
		"nested": map[string]any{"a": 1, "b": 2},
		"keep":   "me",
	})

	s.Merge(map[string]any{"nested": map[string]any{"c": 3}})

	assert.Equal(t, map[string]any{"c": 3}, s.Data["nested"])
	assert.Equal(t, "me", s.Data["keep"])
}

func TestState_AddLog(t *testing.T) {
	s := NewState("wf", nil)
	s.AddLog("hello")
	s.AddLogLevel(LevelError, "boom")

	require.Len(t, s.ExecutionLog, 2)
	assert.Equal(t, LevelInfo, s.ExecutionLog[0].Level)
	assert.Equal(t, "hello", s.ExecutionLog[0].Message)
	assert.Equal(t, LevelError, s.ExecutionLog[1].Level)
	assert.False(t, s.ExecutionLog[0].Timestamp.IsZero())
}

func TestState_JSONCurrentNode(t *testing.T) {
	s := NewState("wf", map[string]any{"a": "b"})

	bytes, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(bytes), `"current_node":null`)
	assert.Contains(t, string(bytes), `"status":"pending"`)

	s.CurrentNode = "decide"
	bytes, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(bytes), `"current_node":"decide"`)

	var decoded State
	require.NoError(t, json.Unmarshal(bytes, &decoded))
	assert.Equal(t, "decide", decoded.CurrentNode)
	assert.Equal(t, "b", decoded.Data["a"])
	assert.Equal(t, "wf", decoded.Workflow)
}

func TestState_SnapshotIsIsolated(t *testing.T) {
	s := NewState("wf", map[string]any{"a": 1})
	s.AddLog("first")

	snap := s.Snapshot()
	s.Merge(map[string]any{"a": 2})
	s.AddLog("second")

	assert.Equal(t, 1, snap.Data["a"])
	assert.Len(t, snap.ExecutionLog, 1)
}
