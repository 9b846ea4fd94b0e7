package ports

import (
	"context"
	"errors"

	"github.com/aretw0/flowline/pkg/domain"
)

// ErrRunNotFound is returned by RunStore.Load when no record exists.
var ErrRunNotFound = errors.New("run not found")

// RunStore defines the interface for persisting run records.
// Implementations must not retain references to the Run passed to Save,
// nor hand out references to their internal copy from Load.
type RunStore interface {
	// Save creates or replaces the record for run.ID.
	Save(ctx context.Context, run domain.Run) error

	// Load retrieves the record for a run id.
	// Returns ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (domain.Run, error)

	// List returns the ids of all stored runs, oldest first.
	List(ctx context.Context) ([]string, error)

	// Delete removes the record for a run id. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error
}
