package domain

import "time"

// RunStatus is the lifecycle of a tracked run, as seen by clients.
type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Done reports whether the run has reached a final status.
func (s RunStatus) Done() bool {
	return s == RunCompleted || s == RunFailed
}

// Run is the record kept for an asynchronous execution.
type Run struct {
	ID         string     `json:"run_id"`
	Workflow   string     `json:"workflow"`
	Status     RunStatus  `json:"status"`
	State      *State     `json:"state,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Clone returns a copy that shares nothing mutable with r.
func (r Run) Clone() Run {
	out := r
	if r.State != nil {
		out.State = r.State.Snapshot()
	}
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		out.FinishedAt = &t
	}
	return out
}
