package workflow

import "fmt"

// Validate checks a candidate Definition against every invariant spec.md
// §3/§4.2 requires before it may be admitted to a Store. It returns the
// first violation found; Load rejects and leaves the store unchanged on
// any non-nil result.
func Validate(def *Definition) error {
	if len(def.Nodes) == 0 {
		return &ValidationError{WorkflowID: def.ID, Reason: "nodes must be non-empty"}
	}

	if err := validateStartUnique(def); err != nil {
		return err
	}
	if err := validateNodeShapes(def); err != nil {
		return err
	}
	if err := validateEdgeEndpoints(def); err != nil {
		return err
	}
	if err := validateForkJoinPairing(def); err != nil {
		return err
	}
	if err := validateForkBranches(def); err != nil {
		return err
	}
	return nil
}

// validateStartUnique enforces invariant 1: exactly one start node.
func validateStartUnique(def *Definition) error {
	count := 0
	for _, n := range def.Nodes {
		if n.Type == NodeStart {
			count++
		}
	}
	switch {
	case count == 0:
		return &ValidationError{WorkflowID: def.ID, Reason: "no start node"}
	case count > 1:
		return &ValidationError{WorkflowID: def.ID, Reason: "multiple start nodes"}
	}
	return nil
}

// validateNodeShapes checks that every node's declared type is recognized
// and that the fields required for that variant are present (rule 3, plus
// rules 7/8 on maxConcurrency/maxRetries).
func validateNodeShapes(def *Definition) error {
	for id, n := range def.Nodes {
		if id == "" {
			return &ValidationError{WorkflowID: def.ID, Reason: "node has empty id"}
		}
		switch n.Type {
		case NodeStart, NodeTask, NodeGate, NodeEnd, NodeSubflow:
			// no variant-specific required fields beyond type.
		case NodeFork:
			if n.Join == "" {
				return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q missing join", id)}
			}
			if n.MaxConcurrency < 0 {
				return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q has negative maxConcurrency", id)}
			}
		case NodeJoin:
			if n.Fork == "" {
				return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("join %q missing fork", id)}
			}
		default:
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("node %q has unrecognized type %q", id, n.Type)}
		}
		if n.MaxRetries < 0 {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("node %q has negative maxRetries", id)}
		}
	}
	return nil
}

// validateEdgeEndpoints enforces invariant 4: every edge's From/To resolve
// to a node in Nodes.
func validateEdgeEndpoints(def *Definition) error {
	for _, e := range def.Edges {
		if _, ok := def.Nodes[e.From]; !ok {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("edge from unknown node %q", e.From)}
		}
		if _, ok := def.Nodes[e.To]; !ok {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("edge to unknown node %q", e.To)}
		}
	}
	return nil
}

// validateForkJoinPairing enforces invariant 2: fork/join pairing is
// bijective and reciprocal.
func validateForkJoinPairing(def *Definition) error {
	for id, n := range def.Nodes {
		if n.Type != NodeFork {
			continue
		}
		joinNode, ok := def.Nodes[n.Join]
		if !ok {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q pairs with missing node %q", id, n.Join)}
		}
		if joinNode.Type != NodeJoin {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q pairs with non-join node %q", id, n.Join)}
		}
		if joinNode.Fork != id {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q and join %q do not reciprocally pair", id, n.Join)}
		}
	}
	for id, n := range def.Nodes {
		if n.Type != NodeJoin {
			continue
		}
		forkNode, ok := def.Nodes[n.Fork]
		if !ok || forkNode.Type != NodeFork || forkNode.Join != id {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("join %q does not pair with a reciprocal fork", id)}
		}
	}
	return nil
}

// validateForkBranches enforces invariant 3: a fork has at least one
// outgoing edge, none of which target the paired join directly or target
// another fork.
//
// The "targets the paired join directly" rule applies only to the fork's
// own outgoing (branch-entry) edges, not to edges further inside a branch
// that eventually reach the join — see spec.md §9's context-gather
// resolution and DESIGN.md open-question 1.
func validateForkBranches(def *Definition) error {
	for id, n := range def.Nodes {
		if n.Type != NodeFork {
			continue
		}
		branches := def.outgoing(id)
		if len(branches) == 0 {
			return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q has no outgoing edges", id)}
		}
		for _, e := range branches {
			if e.To == n.Join {
				return &ValidationError{WorkflowID: def.ID, Reason: "branch targets join directly"}
			}
			if target, ok := def.Nodes[e.To]; ok && target.Type == NodeFork {
				return &ValidationError{WorkflowID: def.ID, Reason: fmt.Sprintf("fork %q branches directly into nested fork %q", id, e.To)}
			}
		}
	}
	return nil
}
