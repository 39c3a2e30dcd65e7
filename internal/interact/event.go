package interact

import (
	"fmt"

	"github.com/san-kum/kgforce/internal/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerLeave
	Search
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	case Search:
		return "search"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one captured input. At is in screen coordinates.
type Event struct {
	Kind EventKind
	At   r2.Vec
	Text string
}

// Callbacks are invoked on the tick goroutine while events are applied.
// Nil callbacks are skipped.
type Callbacks struct {
	OnNodeClick         func(id string)
	OnNodeExpandRequest func(id string)
	OnEdgeInspect       func(e *graph.Edge)
	OnSelectionChange   func(id string, selected bool)
}
