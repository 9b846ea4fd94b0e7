package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/flowline/pkg/dsl"
)

func TestUnreachable(t *testing.T) {
	// start -> a -> b (end)
	g := dsl.New("linear").
		Task("start", "h").Go("a").
		Task("a", "h").Go("b").
		Task("b", "h").Terminal().
		MustBuild()

	if orphans := Unreachable(g); len(orphans) != 0 {
		t.Errorf("Expected every node reachable, got %v", orphans)
	}
	if err := CheckReachability(g); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestUnreachable_Orphans(t *testing.T) {
	// start -> end, with island and lost only pointing at each other
	g := dsl.New("islands").Entry("start").
		Task("start", "h").Go("end").
		Task("end", "h").Terminal().
		Task("island", "h").Go("lost").
		Task("lost", "h").Go("island").
		MustBuild()

	orphans := Unreachable(g)
	if len(orphans) != 2 || orphans[0] != "island" || orphans[1] != "lost" {
		t.Fatalf("Expected [island lost], got %v", orphans)
	}

	err := CheckReachability(g)
	if err == nil {
		t.Fatal("Expected an error for unreachable nodes")
	}
	if !strings.Contains(err.Error(), "2 unreachable node(s): island, lost") {
		t.Errorf("Unexpected message: %v", err)
	}
}

func TestUnreachable_LoopAndCondition(t *testing.T) {
	g := dsl.New("looping").
		Loop("count", "inc").Branch("continue", "count").Branch("done", "check").
		Condition("check", "ok").OnTrue("").OnFalse("count").
		MustBuild()

	if orphans := Unreachable(g); len(orphans) != 0 {
		t.Errorf("Expected every node reachable, got %v", orphans)
	}
}
