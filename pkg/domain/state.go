package domain

import (
	"encoding/json"
	"time"
)

// ExecutionStatus defines the lifecycle position of a run.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusRunning   ExecutionStatus = "running"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

// Log levels used in the execution log.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// LogEntry is a single line of the execution log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// State is the mutable data bag threaded through a single run.
// It is owned by exactly one run and never shared.
type State struct {
	// Workflow is the name of the graph being executed.
	Workflow string `json:"workflow,omitempty"`

	// Data holds the user data, mutated by merging handler results.
	Data map[string]any `json:"data"`

	// CurrentNode is the node being (or last) processed.
	// Empty before start and after normal termination.
	CurrentNode string `json:"current_node"`

	Status ExecutionStatus `json:"status"`

	// ExecutionLog is append-only.
	ExecutionLog []LogEntry `json:"execution_log"`

	// Metadata is reserved for collaborators; the engine never reads it.
	Metadata map[string]any `json:"metadata"`

	// Steps counts the nodes entered during the run.
	Steps int `json:"steps"`

	// Path lists the IDs of entered nodes, in order.
	Path []string `json:"path,omitempty"`
}

// NewState creates a pending state seeded with a shallow copy of data.
func NewState(workflow string, data map[string]any) *State {
	s := &State{
		Workflow:     workflow,
		Data:         make(map[string]any, len(data)),
		Status:       StatusPending,
		ExecutionLog: []LogEntry{},
		Metadata:     make(map[string]any),
	}
	for k, v := range data {
		s.Data[k] = v
	}
	return s
}

// AddLog appends an INFO entry to the execution log.
func (s *State) AddLog(message string) {
	s.AddLogLevel(LevelInfo, message)
}

// AddLogLevel appends an entry with the given level to the execution log.
func (s *State) AddLogLevel(level, message string) {
	s.ExecutionLog = append(s.ExecutionLog, LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	})
}

// Merge applies an update by overwrite-per-key. Nested maps are replaced, not merged.
func (s *State) Merge(update map[string]any) {
	if s.Data == nil {
		s.Data = make(map[string]any, len(update))
	}
	for k, v := range update {
		s.Data[k] = v
	}
}

// Snapshot returns a copy that shares no maps or slices with s.
// Values inside Data and Metadata are copied shallowly.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		out.Data[k] = v
	}
	out.Metadata = make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		out.Metadata[k] = v
	}
	out.ExecutionLog = append([]LogEntry{}, s.ExecutionLog...)
	if s.Path != nil {
		out.Path = append([]string{}, s.Path...)
	}
	return &out
}

type stateJSON State

// MarshalJSON encodes an empty CurrentNode as null.
func (s State) MarshalJSON() ([]byte, error) {
	var current *string
	if s.CurrentNode != "" {
		current = &s.CurrentNode
	}
	return json.Marshal(struct {
		stateJSON
		CurrentNode *string `json:"current_node"`
	}{
		stateJSON:   stateJSON(s),
		CurrentNode: current,
	})
}

// UnmarshalJSON accepts null or a string for current_node.
func (s *State) UnmarshalJSON(data []byte) error {
	aux := struct {
		*stateJSON
		CurrentNode *string `json:"current_node"`
	}{
		stateJSON: (*stateJSON)(s),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.CurrentNode = ""
	if aux.CurrentNode != nil {
		s.CurrentNode = *aux.CurrentNode
	}
	return nil
}
