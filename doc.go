/*
Package flowline is a small workflow engine that executes declaratively defined graphs
of named steps ("nodes") over a shared state bag.

Every node names a handler in the engine's registry. The engine walks the graph from
its entry point, invokes each handler, merges mapping results into the run's state and
picks the next node: condition nodes follow their "true" or "false" branch, task and
loop nodes follow "default" (or, lacking it, the lexicographically smallest label).
A run ends when no next node remains.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/flowline"
		"github.com/aretw0/flowline/pkg/domain"
		"github.com/aretw0/flowline/pkg/dsl"
	)

	func main() {
		eng := flowline.New(flowline.WithMaxSteps(1000))

		eng.RegisterFunc("greet", func(ctx context.Context, s *domain.State) (any, error) {
			return domain.Update{"greeting": "hello " + s.Data["name"].(string)}, nil
		})

		g, err := dsl.New("hello").Entry("greet").
			Task("greet", "greet").Terminal().
			Build()
		if err != nil {
			log.Fatal(err)
		}
		if err := eng.RegisterWorkflow(g); err != nil {
			log.Fatal(err)
		}

		state, err := eng.Execute(context.Background(), "hello", map[string]any{"name": "flowline"})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(state.Data["greeting"])
	}

Runs are synchronous: wrap Execute in a goroutine (or use pkg/runs) for background execution.
*/
package flowline
