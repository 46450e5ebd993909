package workflow

// Action names the kind of transition EvaluateTransition selected.
type Action string

const (
	ActionUnconditional Action = "unconditional"
	ActionConditional   Action = "conditional"
	ActionRetry         Action = "retry"
	ActionEscalate      Action = "escalate"
)

// Decision is the outcome of EvaluateTransition: either a selected edge
// with bookkeeping instructions, or an error naming why no transition
// applies. The Transition Engine is a pure function — it never touches
// disk and carries no state of its own; retryCount is supplied by the
// caller (the Navigator, which owns task-file I/O) and returned bookkeeping
// advice (ResetRetries / NewRetryCount) is likewise applied by the caller.
type Decision struct {
	Next          string
	Action        Action
	ResetRetries  bool
	NewRetryCount int
	Err           string // one of CodeNoOutgoingEdges, CodeNoMatchingEdge, or "".
}

// OutgoingEdges returns the edges whose From equals stepID, in the order
// they were declared in the workflow definition. Declaration order is the
// tie-break policy the Transition Engine uses when more than one edge in a
// partition could apply (spec.md §4.3 "Edge ordering").
func OutgoingEdges(def *Definition, stepID string) []Edge {
	return def.outgoing(stepID)
}

// EvaluateTransition computes the next step for a task currently at
// currentStep, given the outcome result of the work performed there and
// the retryCount accumulated at that step so far. It implements the
// eight-step algorithm in spec.md §4.3 exactly.
func EvaluateTransition(def *Definition, currentStep, result string, retryCount int) Decision {
	edges := OutgoingEdges(def, currentStep)
	if len(edges) == 0 {
		return Decision{Err: CodeNoOutgoingEdges}
	}

	var unconditional []Edge
	var matching []Edge
	for _, e := range edges {
		if e.Unconditional() {
			unconditional = append(unconditional, e)
		} else if e.On == result {
			matching = append(matching, e)
		}
	}

	// Step 3: an empty result with an unconditional edge present takes it
	// immediately — this is the "no outcome to route on" shortcut used by
	// fork/linear nodes that have exactly one way forward.
	if result == "" && len(unconditional) > 0 {
		return Decision{Next: unconditional[0].To, Action: ActionUnconditional, ResetRetries: true}
	}

	var retryEdges, escalateEdges []Edge
	for _, e := range matching {
		target := def.Nodes[e.To]
		if target.IsTerminal() {
			escalateEdges = append(escalateEdges, e)
		} else {
			retryEdges = append(retryEdges, e)
		}
	}

	if result == "failed" && len(retryEdges) > 0 && len(escalateEdges) > 0 {
		maxRetries := def.Nodes[currentStep].effectiveMaxRetries()
		if retryCount < maxRetries {
			return Decision{
				Next:          retryEdges[0].To,
				Action:        ActionRetry,
				NewRetryCount: retryCount + 1,
			}
		}
		return Decision{Next: escalateEdges[0].To, Action: ActionEscalate, ResetRetries: true}
	}

	if len(matching) > 0 {
		return Decision{Next: matching[0].To, Action: ActionConditional, ResetRetries: true}
	}

	if len(unconditional) > 0 {
		return Decision{Next: unconditional[0].To, Action: ActionUnconditional, ResetRetries: true}
	}

	return Decision{Err: CodeNoMatchingEdge}
}
