package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Graph{
		Name:       "ok",
		EntryPoint: "a",
		Nodes: map[string]Node{
			"a": {ID: "a", Type: NodeTypeTask, Handler: "f", Branches: map[string]string{"default": "b"}},
			"b": {ID: "b", Type: NodeTypeCondition, Handler: "g", Branches: map[string]string{"true": "a", "false": ""}},
		},
	}

	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid graph, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(g *Graph)
		want   string
	}{
		{"missing entry", func(g *Graph) { g.EntryPoint = "zzz" }, "entry_point 'zzz'"},
		{"empty name", func(g *Graph) { g.Name = "" }, "name is empty"},
		{"dangling branch", func(g *Graph) {
			g.Nodes["a"] = Node{ID: "a", Type: NodeTypeTask, Handler: "f", Branches: map[string]string{"default": "ghost"}}
		}, "missing node 'ghost'"},
		{"key mismatch", func(g *Graph) {
			g.Nodes["c"] = Node{ID: "other", Type: NodeTypeTask, Handler: "f"}
		}, "does not match"},
		{"unknown type", func(g *Graph) {
			g.Nodes["c"] = Node{ID: "c", Type: "parallel", Handler: "f"}
		}, "unknown type"},
		{"condition label", func(g *Graph) {
			g.Nodes["b"] = Node{ID: "b", Type: NodeTypeCondition, Handler: "g", Branches: map[string]string{"maybe": "a"}}
		}, "unsupported branch 'maybe'"},
		{"no handler", func(g *Graph) {
			g.Nodes["c"] = Node{ID: "c", Type: NodeTypeTask}
		}, "has no function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid.Clone()
			tt.mutate(&g)

			err := Validate(g)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidGraph) {
				t.Errorf("expected ErrInvalidGraph, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestGraph_CloneIsDeep(t *testing.T) {
	g := Graph{
		Name:       "wf",
		EntryPoint: "a",
		Nodes: map[string]Node{
			"a": {ID: "a", Type: NodeTypeTask, Handler: "f", Branches: map[string]string{"default": "b"}},
		},
	}

	cp := g.Clone()
	g.Nodes["a"].Branches["default"] = "changed"
	g.Nodes["x"] = Node{ID: "x"}

	if cp.Nodes["a"].Branches["default"] != "b" {
		t.Errorf("clone shares branch map with original")
	}
	if _, ok := cp.Nodes["x"]; ok {
		t.Errorf("clone shares node map with original")
	}
}

func TestErrors_Is(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{&WorkflowNotFoundError{Name: "x"}, ErrWorkflowNotFound},
		{&NodeNotFoundError{NodeID: "x"}, ErrNodeNotFound},
		{&HandlerNotFoundError{Name: "x"}, ErrHandlerNotFound},
		{&StepLimitError{Limit: 3}, ErrStepLimitExceeded},
		{&HandlerPanicError{Handler: "x", Value: "boom"}, ErrHandlerPanic},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.target) {
			t.Errorf("errors.Is(%v, %v) = false", c.err, c.target)
		}
	}
}
