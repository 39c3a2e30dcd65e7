package render

import "github.com/san-kum/kgforce/internal/graph"

// Highlight is the interaction state a frame is drawn with. The zero value
// draws everything at full opacity.
type Highlight struct {
	// Focus is the hovered node. When set, everything outside its 1-hop
	// neighbourhood is dimmed.
	Focus       string
	Nodes       map[string]bool
	Edges       map[string]bool
	Selected    string
	Matches     map[string]bool
	HoveredEdge string
}

// FocusOn returns a highlight for the neighbourhood of id, keeping the
// selection, search matches and hovered edge of h.
func (h Highlight) FocusOn(g *graph.Graph, id string) Highlight {
	out := h
	if id == "" || !g.Has(id) {
		out.Focus, out.Nodes, out.Edges = "", nil, nil
		return out
	}
	sub := g.Subgraph(id)
	out.Focus = id
	out.Nodes = sub.Nodes
	out.Edges = sub.Edges
	return out
}

func (h Highlight) Active() bool { return h.Focus != "" }

func (h Highlight) NodeDimmed(id string) bool {
	return h.Active() && !h.Nodes[id]
}

func (h Highlight) EdgeDimmed(id string) bool {
	return h.Active() && !h.Edges[id] && id != h.HoveredEdge
}
