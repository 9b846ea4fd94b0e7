package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkflowNotFound is returned when a workflow name is not registered.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrNodeNotFound is returned when the entry point or a branch target is absent from the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrHandlerNotFound is returned when a node references an unregistered handler.
var ErrHandlerNotFound = errors.New("handler not found")

// ErrStepLimitExceeded is returned when a run exhausts its configured step budget.
var ErrStepLimitExceeded = errors.New("step limit exceeded")

// ErrInvalidGraph is returned by Validate when a graph is structurally unsound.
var ErrInvalidGraph = errors.New("invalid graph")

// ErrHandlerPanic is returned when a handler panics during invocation.
var ErrHandlerPanic = errors.New("handler panicked")

// WorkflowNotFoundError names the missing workflow.
type WorkflowNotFoundError struct {
	Name string
}

func (e *WorkflowNotFoundError) Error() string {
	return fmt.Sprintf("workflow '%s' not found", e.Name)
}

func (e *WorkflowNotFoundError) Is(target error) bool { return target == ErrWorkflowNotFound }

// NodeNotFoundError names the node ID that could not be resolved.
type NodeNotFoundError struct {
	Workflow string
	NodeID   string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node '%s' not found in workflow '%s'", e.NodeID, e.Workflow)
}

func (e *NodeNotFoundError) Is(target error) bool { return target == ErrNodeNotFound }

// HandlerNotFoundError names the missing handler.
type HandlerNotFoundError struct {
	Name string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("function '%s' not found in registry", e.Name)
}

func (e *HandlerNotFoundError) Is(target error) bool { return target == ErrHandlerNotFound }

// StepLimitError reports the budget a run exhausted.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d exceeded", e.Limit)
}

func (e *StepLimitError) Is(target error) bool { return target == ErrStepLimitExceeded }

// HandlerPanicError wraps a value recovered from a panicking handler.
type HandlerPanicError struct {
	Handler string
	Value   any
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("function '%s' panicked: %v", e.Handler, e.Value)
}

func (e *HandlerPanicError) Is(target error) bool { return target == ErrHandlerPanic }

// ValidationError lists every structural problem found in a graph.
type ValidationError struct {
	Workflow string
	Issues   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow '%s' is invalid: %s", e.Workflow, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidGraph }
