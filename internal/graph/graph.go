package graph

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Graph is a validated node/edge set with an adjacency index.
type Graph struct {
	nodes     []*Node
	index     map[string]int
	edges     []*Edge
	edgeIndex map[string]int
	adj       map[string][]string
}

// LoadOption tunes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	edgeKinds map[string]bool
}

// WithEdgeKinds keeps only edges whose kind is in kinds. An empty list
// keeps everything.
func WithEdgeKinds(kinds ...string) LoadOption {
	return func(o *loadOptions) {
		if len(kinds) == 0 {
			return
		}
		o.edgeKinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			o.edgeKinds[strings.ToLower(k)] = true
		}
	}
}

// Load validates nodes and edges and builds the adjacency index.
func Load(nodes []NodeInput, edges []EdgeInput, opts ...LoadOption) (*Graph, []Warning) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	g := &Graph{
		nodes:     make([]*Node, 0, len(nodes)),
		index:     make(map[string]int, len(nodes)),
		edges:     make([]*Edge, 0, len(edges)),
		edgeIndex: make(map[string]int, len(edges)),
		adj:       make(map[string][]string, len(nodes)),
	}
	var warnings []Warning

	for _, in := range nodes {
		if in.ID == "" {
			warnings = append(warnings, Warning{Kind: WarnEmptyID, Ref: "node"})
			continue
		}
		n := &Node{
			ID:    in.ID,
			Label: in.Label,
			Kind:  in.Kind,
			Score: DefaultScore,
		}
		if n.Kind == "" {
			n.Kind = UnknownKind
		}
		if in.Score != nil {
			n.Score = clampUnit(*in.Score, DefaultScore)
		}
		if in.Degree != nil && *in.Degree > 0 && !math.IsInf(*in.Degree, 0) {
			n.DegreeHint = int(*in.Degree)
		}
		if in.LastSeen != "" {
			ts, ok := parseTime(in.LastSeen)
			if !ok {
				warnings = append(warnings, Warning{Kind: WarnBadTimestamp, ID: in.ID, Ref: in.LastSeen})
			}
			n.LastSeen = ts
		}

		if i, dup := g.index[in.ID]; dup {
			warnings = append(warnings, Warning{Kind: WarnDuplicateNode, ID: in.ID})
			g.nodes[i] = n
			continue
		}
		g.index[in.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	pairs := make(map[string]int)
	for _, in := range edges {
		kind := in.Kind
		if kind == "" {
			kind = DefaultEdgeKind
		}
		if o.edgeKinds != nil && !o.edgeKinds[strings.ToLower(kind)] {
			continue
		}

		id := in.ID
		if id == "" {
			key := in.Source + "->" + in.Target
			id = key + "#" + strconv.Itoa(pairs[key])
			pairs[key]++
		}
		if _, ok := g.index[in.Source]; !ok {
			warnings = append(warnings, Warning{Kind: WarnDanglingSource, ID: id, Ref: in.Source})
			continue
		}
		if _, ok := g.index[in.Target]; !ok {
			warnings = append(warnings, Warning{Kind: WarnDanglingTarget, ID: id, Ref: in.Target})
			continue
		}

		e := &Edge{
			ID:       id,
			Source:   in.Source,
			Target:   in.Target,
			Kind:     kind,
			Evidence: in.Evidence,
		}
		e.Weight, e.Confidence = edgeStrength(in.Weight, in.Confidence)
		if in.LastSeen != "" {
			ts, ok := parseTime(in.LastSeen)
			if !ok {
				warnings = append(warnings, Warning{Kind: WarnBadTimestamp, ID: id, Ref: in.LastSeen})
			}
			e.LastSeen = ts
		}

		if i, dup := g.edgeIndex[id]; dup {
			warnings = append(warnings, Warning{Kind: WarnDuplicateEdge, ID: id})
			g.edges[i] = e
			continue
		}
		g.edgeIndex[id] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	g.reindex()
	return g, warnings
}

// reindex rebuilds adjacency and degree from the edge set.
func (g *Graph) reindex() {
	g.adj = make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		n.Degree = 0
	}
	for _, e := range g.edges {
		g.adj[e.Source] = append(g.adj[e.Source], e.ID)
		g.nodes[g.index[e.Source]].Degree++
		if e.Target == e.Source {
			continue
		}
		g.adj[e.Target] = append(g.adj[e.Target], e.ID)
		g.nodes[g.index[e.Target]].Degree++
	}
}

func edgeStrength(weight, confidence *float64) (float64, float64) {
	w := DefaultWeight
	switch {
	case weight != nil:
		w = clampUnit(*weight, DefaultWeight)
	case confidence != nil:
		w = clampUnit(*confidence, DefaultWeight)
	}
	c := w
	if confidence != nil {
		c = clampUnit(*confidence, w)
	}
	return w, c
}

func clampUnit(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Min(1, math.Max(0, v))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Empty reports whether the graph has no nodes. A nil graph is empty.
func (g *Graph) Empty() bool { return g.Len() == 0 }

// Nodes returns nodes in z-order: later entries are drawn on top.
func (g *Graph) Nodes() []*Node {
	if g == nil {
		return nil
	}
	return g.nodes
}

// Edges returns the validated edge sequence.
func (g *Graph) Edges() []*Edge {
	if g == nil {
		return nil
	}
	return g.edges
}

func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

func (g *Graph) Edge(id string) (*Edge, bool) {
	if g == nil {
		return nil, false
	}
	i, ok := g.edgeIndex[id]
	if !ok {
		return nil, false
	}
	return g.edges[i], true
}

// Has reports whether id is a live node.
func (g *Graph) Has(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// IncidentEdges returns the ids of edges touching id.
func (g *Graph) IncidentEdges(id string) []string {
	if g == nil {
		return nil
	}
	return g.adj[id]
}

// Neighbors returns the distinct ids directly connected to id, in edge
// order. Runs in O(degree).
func (g *Graph) Neighbors(id string) []string {
	inc := g.IncidentEdges(id)
	if len(inc) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(inc))
	out := make([]string, 0, len(inc))
	for _, eid := range inc {
		e := g.edges[g.edgeIndex[eid]]
		other := e.Other(id)
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// Subgraph returns the 1-hop induced neighbourhood of id. Unknown ids
// yield an empty subgraph.
func (g *Graph) Subgraph(id string) Subgraph {
	sub := Subgraph{Center: id, Nodes: map[string]bool{}, Edges: map[string]bool{}}
	if !g.Has(id) {
		return sub
	}
	sub.Nodes[id] = true
	for _, nb := range g.Neighbors(id) {
		sub.Nodes[nb] = true
	}
	for _, eid := range g.IncidentEdges(id) {
		sub.Edges[eid] = true
	}
	return sub
}

// ByRecency returns node ids ordered by LastSeen, newest first. Nodes
// without a timestamp follow in z-order.
func (g *Graph) ByRecency() []string {
	nodes := append([]*Node(nil), g.Nodes()...)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].LastSeen, nodes[j].LastSeen
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
