package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/flowline/pkg/domain"
)

// LoggingHooks returns hooks that log every lifecycle event at debug level,
// and failed nodes and runs at warn level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start", "workflow", e.Workflow)
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter",
				"workflow", e.Workflow,
				"node_id", e.NodeID,
				"type", e.NodeType,
				"step", e.Step,
			)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "node_leave",
					"workflow", e.Workflow,
					"node_id", e.NodeID,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "node_leave",
				"workflow", e.Workflow,
				"node_id", e.NodeID,
				"duration", e.Duration,
			)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			level := slog.LevelDebug
			if e.Err != nil {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "run_finish",
				"workflow", e.Workflow,
				"status", e.Status,
				"steps", e.Steps,
				"duration", e.Duration,
				"err", e.Err,
			)
		},
	}
}
