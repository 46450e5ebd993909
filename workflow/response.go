package workflow

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Terminal names the outcome a response's node represents, when that node
// is itself a terminal or starting point of the graph.
type Terminal string

const (
	TerminalStart   Terminal = "start"
	TerminalSuccess Terminal = "success"
	TerminalHITL    Terminal = "hitl"
	TerminalFailure Terminal = "failure"
)

// MarshalJSON encodes the empty Terminal as JSON null.
func (t Terminal) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// ResponseMetadata is the task-state projection a Response carries for
// persistence (spec.md §4.4 "metadata"): the exact fields the Navigator
// writes through to the task file.
type ResponseMetadata struct {
	WorkflowType    string `json:"workflowType"`
	CurrentStep     string `json:"currentStep"`
	RetryCount      int    `json:"retryCount"`
	UserDescription string `json:"userDescription,omitempty"`
}

// Response is the unified shape all three navigation operations return
// (spec.md §4.4). Terminal is the empty string for a non-terminal,
// non-start node, matching the spec's "null" value in JSON.
type Response struct {
	CurrentStep string           `json:"currentStep"`
	Node        NodeView         `json:"node"`
	Edges       []EdgeView       `json:"edges"`
	Terminal    Terminal         `json:"terminal"`
	Metadata    ResponseMetadata `json:"metadata"`
	Error       *NavigationError `json:"error,omitempty"`
}

// resolvePaths rewrites every "./"-prefixed token embedded in free text
// against sourceRoot, per spec.md §4.4 "Path resolution" / §9 "Dynamic
// prose with path refs". Raw unresolved tokens never escape the navigator.
func resolvePaths(text, sourceRoot string) string {
	if sourceRoot == "" || text == "" {
		return text
	}
	fields := strings.Fields(text)
	changed := false
	for i, f := range fields {
		if strings.HasPrefix(f, "./") {
			fields[i] = filepath.Join(sourceRoot, strings.TrimPrefix(f, "./"))
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(fields, " ")
}

// buildNodeView projects node onto the response shape, resolving any
// "./"-prefixed path references in its prose fields against sourceRoot.
func buildNodeView(node *Node, sourceRoot string) NodeView {
	files := make([]string, len(node.ContextFiles))
	for i, f := range node.ContextFiles {
		if strings.HasPrefix(f, "./") && sourceRoot != "" {
			files[i] = filepath.Join(sourceRoot, strings.TrimPrefix(f, "./"))
		} else {
			files[i] = f
		}
	}
	return NodeView{
		Type:         node.Type,
		Name:         node.Name,
		Description:  resolvePaths(node.Description, sourceRoot),
		Instructions: resolvePaths(node.Instructions, sourceRoot),
		Agent:        node.Agent,
		Stage:        node.Stage,
		MaxRetries:   node.MaxRetries,
		ContextFiles: files,
	}
}

// buildEdgeViews projects a node's outgoing edges onto the response shape.
func buildEdgeViews(edges []Edge) []EdgeView {
	out := make([]EdgeView, len(edges))
	for i, e := range edges {
		out[i] = EdgeView{To: e.To, On: e.On, Label: e.Label}
	}
	return out
}

// terminalFor computes the Terminal value for a node (spec.md §4.4
// "terminal"): start nodes report "start"; end nodes report "hitl" when
// Escalation is hitl, otherwise follow the end node's own declared Result
// (success maps to success; failure/blocked/cancelled all map to failure,
// since Terminal's wire vocabulary has no slot for blocked/cancelled);
// every other node reports the empty Terminal ("null" in the wire format).
// This depends only on the node reached, not on whichever passed/failed
// value the caller supplied to get there, so Current and Next agree on the
// terminal value for the same currentStep.
func terminalFor(node *Node) Terminal {
	switch node.Type {
	case NodeStart:
		return TerminalStart
	case NodeEnd:
		if node.Escalation == EscalationHITL {
			return TerminalHITL
		}
		if node.Result == ResultSuccess || node.Result == "" {
			return TerminalSuccess
		}
		return TerminalFailure
	default:
		return ""
	}
}
