package observability

import (
	"context"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Node execution outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	NodeExecutions *prometheus.CounterVec
	NodeDuration   *prometheus.HistogramVec
	Runs           *prometheus.CounterVec
	ActiveRuns     *prometheus.GaugeVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		NodeExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowline_node_executions_total",
				Help: "Total number of node executions",
			},
			[]string{"workflow", "node", "outcome"},
		),
		NodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowline_node_duration_seconds",
				Help:    "Duration of node handler executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow", "node"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowline_runs_total",
				Help: "Total number of finished runs",
			},
			[]string{"workflow", "status"},
		),
		ActiveRuns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowline_active_runs",
				Help: "Number of runs currently executing",
			},
			[]string{"workflow"},
		),
	}
}

// MustRegister registers every collector with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.NodeExecutions, m.NodeDuration, m.Runs, m.ActiveRuns)
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.WithLabelValues(e.Workflow).Inc()
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			outcome := OutcomeSuccess
			if e.Err != nil {
				outcome = OutcomeError
			}
			m.NodeExecutions.WithLabelValues(e.Workflow, e.NodeID, outcome).Inc()
			m.NodeDuration.WithLabelValues(e.Workflow, e.NodeID).Observe(e.Duration.Seconds())
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			m.ActiveRuns.WithLabelValues(e.Workflow).Dec()
			m.Runs.WithLabelValues(e.Workflow, string(e.Status)).Inc()
		},
	}
}
