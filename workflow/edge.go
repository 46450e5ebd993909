package workflow

// Edge is a directed transition between two nodes in a workflow graph.
//
// An edge is unconditional when On is empty: it is always eligible once its
// source node is reached. A conditional edge's On label is matched against
// the result a caller passes to Next; spec.md §4.3 calls these "matching"
// edges. Edges are evaluated in declaration order within each partition the
// Transition Engine builds, so the order edges appear in a workflow
// definition's Edges slice is itself a priority policy, not incidental.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	On    string `json:"on,omitempty"`
	Label string `json:"label,omitempty"`
}

// Unconditional reports whether this edge has no outcome predicate.
func (e Edge) Unconditional() bool {
	return e.On == ""
}

// EdgeView projects an Edge onto the fields the navigation response
// exposes (spec.md §4.4): enough for an orchestrator to predict valid
// outcomes without seeing the rest of the graph.
type EdgeView struct {
	To    string `json:"to"`
	On    string `json:"on,omitempty"`
	Label string `json:"label,omitempty"`
}
