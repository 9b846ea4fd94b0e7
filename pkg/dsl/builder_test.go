package dsl

import (
	"testing"

	"github.com/aretw0/flowline/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	// 1. Build the graph using DSL
	g, err := New("greeting").Entry("start").
		Task("start", "say_hello").Go("ask").
		Condition("ask", "is_known").OnTrue("greet").OnFalse("end").
		Task("greet", "greet_user").Go("end").
		Task("end", "finish").Terminal().
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 2. Verify graph shape
	if g.Name != "greeting" {
		t.Errorf("Expected name 'greeting', got '%s'", g.Name)
	}
	if g.EntryPoint != "start" {
		t.Errorf("Expected entry 'start', got '%s'", g.EntryPoint)
	}
	if len(g.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(g.Nodes))
	}

	start := g.Nodes["start"]
	if start.Type != domain.NodeTypeTask {
		t.Errorf("Expected start node type 'task', got '%s'", start.Type)
	}
	if start.Branches[domain.BranchDefault] != "ask" {
		t.Errorf("Expected default branch to 'ask', got '%s'", start.Branches[domain.BranchDefault])
	}

	ask := g.Nodes["ask"]
	if ask.Type != domain.NodeTypeCondition {
		t.Errorf("Expected ask node type 'condition', got '%s'", ask.Type)
	}
	if ask.Branches[domain.BranchTrue] != "greet" || ask.Branches[domain.BranchFalse] != "end" {
		t.Errorf("Unexpected condition branches: %v", ask.Branches)
	}

	if !g.Nodes["end"].IsTerminal() {
		t.Error("Expected 'end' to be terminal")
	}
}

func TestBuilder_DefaultEntry(t *testing.T) {
	g, err := New("single").Task("only", "noop").Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if g.EntryPoint != "only" {
		t.Errorf("Expected entry to default to first node, got '%s'", g.EntryPoint)
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"no name", func() *Builder { b := New(""); b.Task("a", "h"); return b }()},
		{"no nodes", New("empty")},
		{"unknown entry", func() *Builder { b := New("x").Entry("ghost"); b.Task("a", "h"); return b }()},
		{"redefined node", func() *Builder { b := New("x"); b.Task("a", "h"); b.Loop("a", "h"); return b }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Build(); err == nil {
				t.Error("Expected Build() to fail")
			}
		})
	}
}

func TestBuilder_NullTargetAndLoop(t *testing.T) {
	g := New("counter").
		Loop("count", "inc").Go("count").Branch("done", "").
		MustBuild()

	n := g.Nodes["count"]
	if n.Type != domain.NodeTypeLoop {
		t.Errorf("Expected loop node, got '%s'", n.Type)
	}
	if target, ok := n.Branches["done"]; !ok || target != "" {
		t.Errorf("Expected null 'done' branch, got %q (present=%v)", target, ok)
	}
}

func TestBuilder_BuildIsIsolated(t *testing.T) {
	b := New("iso")
	b.Task("a", "h").Go("b")
	b.Task("b", "h")

	g1 := b.MustBuild()
	b.Task("a", "h").Go("c")
	g2 := b.MustBuild()

	if g1.Nodes["a"].Branches[domain.BranchDefault] != "b" {
		t.Errorf("Expected first build to be unaffected, got %v", g1.Nodes["a"].Branches)
	}
	if g2.Nodes["a"].Branches[domain.BranchDefault] != "c" {
		t.Errorf("Expected second build to see update, got %v", g2.Nodes["a"].Branches)
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected MustBuild to panic")
		}
	}()
	New("").MustBuild()
}

func TestBuilder_Input(t *testing.T) {
	g, err := New("typed").Input("code", "string").Input("limit", "int?").
		Task("a", "h").Terminal().
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if g.InputSchema["code"] != "string" || g.InputSchema["limit"] != "int?" {
		t.Errorf("unexpected input schema: %v", g.InputSchema)
	}

	if _, err := New("bad").Input("x", "text").Task("a", "h").Terminal().Build(); err == nil {
		t.Error("Expected Build() to reject an unknown input type")
	}
}
