package http

import (
	"fmt"
	"time"

	"github.com/aretw0/flowline/pkg/domain"
)

func workflowFromDomain(g domain.Graph) Workflow {
	out := Workflow{
		Name:       g.Name,
		EntryPoint: g.EntryPoint,
		Nodes:      make(map[string]WorkflowNode, len(g.Nodes)),
	}
	for id, n := range g.Nodes {
		next := make(map[string]string, len(n.Branches))
		for label, target := range n.Branches {
			next[label] = target
		}
		out.Nodes[id] = WorkflowNode{
			NodeId:    n.ID,
			NodeType:  string(n.Type),
			Function:  n.Handler,
			NextNodes: &next,
		}
	}
	if len(g.InputSchema) > 0 {
		schema := make(map[string]string, len(g.InputSchema))
		for k, v := range g.InputSchema {
			schema[k] = v
		}
		out.InputSchema = &schema
	}
	return out
}

func stateFromDomain(s *domain.State) StateResponse {
	if s == nil {
		return StateResponse{
			Data:         map[string]any{},
			Status:       string(domain.StatusPending),
			ExecutionLog: []LogEntry{},
			Metadata:     map[string]any{},
		}
	}

	resp := StateResponse{
		Data:         orEmpty(s.Data),
		Status:       string(s.Status),
		ExecutionLog: make([]LogEntry, 0, len(s.ExecutionLog)),
		Metadata:     orEmpty(s.Metadata),
	}
	if s.CurrentNode != "" {
		current := s.CurrentNode
		resp.CurrentNode = &current
	}
	for _, e := range s.ExecutionLog {
		resp.ExecutionLog = append(resp.ExecutionLog, LogEntry{
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Level:     e.Level,
			Message:   e.Message,
		})
	}
	return resp
}

// runningState is the placeholder returned while a run has no final state.
func runningState() StateResponse {
	return StateResponse{
		Data:   map[string]any{},
		Status: "running",
		ExecutionLog: []LogEntry{
			{Level: domain.LevelInfo, Message: "Workflow is still running"},
		},
		Metadata: map[string]any{},
	}
}

// failedState keeps the partial data and replaces the log with the failure.
func failedState(run domain.Run) StateResponse {
	resp := StateResponse{
		Data:   map[string]any{},
		Status: "error",
		ExecutionLog: []LogEntry{
			{Level: domain.LevelError, Message: fmt.Sprintf("Workflow failed: %s", run.Error)},
		},
		Metadata: map[string]any{},
	}
	if run.State != nil {
		resp.Data = orEmpty(run.State.Data)
		if run.State.CurrentNode != "" {
			current := run.State.CurrentNode
			resp.CurrentNode = &current
		}
	}
	return resp
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
