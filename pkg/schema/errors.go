package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput matches any data validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string
	Reason string
	Value  any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%v: %v", ErrInvalidInput, e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%v: %d errors: %s", ErrInvalidInput, len(e.Errors), strings.Join(msgs, "; "))
}

func (e *AggregateError) Is(target error) bool { return target == ErrInvalidInput }

// ValidationErrors returns the field failures of err, or nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
