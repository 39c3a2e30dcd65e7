package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for layout operations.
var (
	// ErrInvalidViewport indicates a viewport with non-positive or non-finite size.
	ErrInvalidViewport = errors.New("dynamo: invalid viewport")

	// ErrNonFinite indicates a force or position computation produced NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite value in layout state")

	// ErrDetached indicates an operation on a view that has been torn down.
	ErrDetached = errors.New("dynamo: view detached")

	// ErrUnknownSurface indicates a render surface name that is not registered.
	ErrUnknownSurface = errors.New("dynamo: unknown render surface")

	// ErrInvalidParams indicates a physics parameter outside its valid range.
	ErrInvalidParams = errors.New("dynamo: parameter out of valid bounds")
)

// SimError wraps an error with the tick and node it was observed on.
type SimError struct {
	Tick    int
	NodeID  string
	Wrapped error
}

func (e *SimError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
	}
	return fmt.Sprintf("tick %d, node %q: %v", e.Tick, e.NodeID, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
