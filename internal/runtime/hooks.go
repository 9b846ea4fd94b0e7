package runtime

import (
	"context"
	"time"

	"github.com/aretw0/flowline/pkg/domain"
)

func (e *Engine) emitRunStart(ctx context.Context, state *domain.State) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventRunStart,
			Workflow:  state.Workflow,
		},
		Status: state.Status,
	})
}

func (e *Engine) emitRunFinish(ctx context.Context, state *domain.State, d time.Duration, err error) {
	if e.hooks.OnRunFinish == nil {
		return
	}
	e.hooks.OnRunFinish(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventRunFinish,
			Workflow:  state.Workflow,
		},
		Status:   state.Status,
		Steps:    state.Steps,
		Duration: d,
		Err:      err,
	})
}

func (e *Engine) emitNodeEnter(ctx context.Context, workflow string, node domain.Node, step int) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventNodeEnter,
			Workflow:  workflow,
		},
		NodeID:   node.ID,
		NodeType: node.Type,
		Handler:  node.Handler,
		Step:     step,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, workflow string, node domain.Node, step int, d time.Duration, err error) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventNodeLeave,
			Workflow:  workflow,
		},
		NodeID:   node.ID,
		NodeType: node.Type,
		Handler:  node.Handler,
		Step:     step,
		Duration: d,
		Err:      err,
	})
}
