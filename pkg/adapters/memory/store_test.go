package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowline/pkg/adapters/memory"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	run := domain.Run{ID: "r1", Workflow: "wf", Status: domain.RunStarted, State: domain.NewState("wf", map[string]any{"n": 1})}
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	run.State.Data["n"] = 2
	loaded, err := store.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.State.Data["n"] != 1 {
		t.Errorf("Expected saved copy to be unaffected, got %v", loaded.State.Data["n"])
	}

	loaded.State.Data["n"] = 3
	again, _ := store.Load(ctx, "r1")
	if again.State.Data["n"] != 1 {
		t.Errorf("Expected stored record to be unaffected by reader mutation, got %v", again.State.Data["n"])
	}
}
