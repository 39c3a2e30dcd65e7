package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultScore is used for nodes that do not carry a score.
	DefaultScore = 0.5
	// DefaultWeight is used for edges with neither weight nor confidence.
	DefaultWeight = 0.5
	// DefaultEdgeKind labels edges that arrive without a kind.
	DefaultEdgeKind = "related_to"
	// UnknownKind labels nodes that arrive without a kind.
	UnknownKind = "unknown"
)

// NodeInput is a node as supplied by the data layer.
type NodeInput struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Degree   *float64 `json:"degree,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	LastSeen string   `json:"lastSeen,omitempty"`
}

// EdgeInput is an edge as supplied by the data layer.
type EdgeInput struct {
	ID         string          `json:"id,omitempty"`
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	Weight     *float64        `json:"weight,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Evidence   json.RawMessage `json:"evidence,omitempty"`
	LastSeen   string          `json:"lastSeen,omitempty"`
}

// Node is a validated graph node. Position and velocity are not stored
// here; they belong to the simulator that owns the view.
type Node struct {
	ID    string
	Label string
	Kind  string
	// Degree is the number of incident edges in the loaded edge set.
	Degree int
	// DegreeHint is the caller supplied degree. It is only consulted for
	// sizing while the node has no loaded edges.
	DegreeHint int
	Score      float64
	LastSeen   time.Time
}

// SizingDegree returns the degree used for visual sizing.
func (n *Node) SizingDegree() int {
	if n.Degree == 0 && n.DegreeHint > 0 {
		return n.DegreeHint
	}
	return n.Degree
}

// DisplayLabel falls back to the id when the label is empty.
func (n *Node) DisplayLabel() string {
	if n.Label == "" {
		return n.ID
	}
	return n.Label
}

// Edge is a validated edge whose endpoints exist in the graph.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Weight     float64
	Confidence float64
	Kind       string
	Evidence   json.RawMessage
	LastSeen   time.Time
}

// Other returns the endpoint opposite to id.
func (e *Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// WarningKind classifies a non-fatal load problem.
type WarningKind string

const (
	WarnDanglingSource WarningKind = "dangling_source"
	WarnDanglingTarget WarningKind = "dangling_target"
	WarnDuplicateNode  WarningKind = "duplicate_node"
	WarnDuplicateEdge  WarningKind = "duplicate_edge"
	WarnEmptyID        WarningKind = "empty_id"
	WarnBadTimestamp   WarningKind = "bad_timestamp"
)

// Warning reports something Load repaired or dropped.
type Warning struct {
	Kind WarningKind
	// ID is the node or edge the warning is about.
	ID string
	// Ref is the offending reference, e.g. the missing node id.
	Ref string
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnDanglingSource, WarnDanglingTarget:
		return fmt.Sprintf("%s: edge %q references missing node %q", w.Kind, w.ID, w.Ref)
	case WarnDuplicateNode, WarnDuplicateEdge:
		return fmt.Sprintf("%s: %q overwritten", w.Kind, w.ID)
	case WarnBadTimestamp:
		return fmt.Sprintf("%s: %q has unparseable lastSeen %q", w.Kind, w.ID, w.Ref)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Ref)
	}
}

// Subgraph is the 1-hop neighbourhood of a node: the node itself, its
// direct neighbours and its incident edges.
type Subgraph struct {
	Center string
	Nodes  map[string]bool
	Edges  map[string]bool
}
