package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Input is the node-link document exchanged with the data layer.
type Input struct {
	Nodes []NodeInput `json:"nodes"`
	Edges []EdgeInput `json:"edges"`
	Links []EdgeInput `json:"links,omitempty"`
}

// Load validates the document. Links are appended after edges.
func (in Input) Load(opts ...LoadOption) (*Graph, []Warning) {
	edges := in.Edges
	if len(in.Links) > 0 {
		edges = append(append([]EdgeInput(nil), in.Edges...), in.Links...)
	}
	return Load(in.Nodes, edges, opts...)
}

// Decode reads a JSON document from r.
func Decode(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Input{}, fmt.Errorf("decode graph: %w", err)
	}
	return in, nil
}

// ReadFile reads a JSON document from path.
func ReadFile(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
