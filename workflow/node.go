// Package workflow implements the graph evaluator at the heart of the
// navigator: workflow definitions, the validator, the transition engine,
// and the task-file navigation protocol built on top of them.
package workflow

// NodeType discriminates the node variants a workflow graph can contain.
type NodeType string

const (
	NodeStart   NodeType = "start"
	NodeEnd     NodeType = "end"
	NodeTask    NodeType = "task"
	NodeGate    NodeType = "gate"
	NodeFork    NodeType = "fork"
	NodeJoin    NodeType = "join"
	NodeSubflow NodeType = "subflow"
)

// EndResult is the outcome carried by an end node.
type EndResult string

const (
	ResultSuccess   EndResult = "success"
	ResultFailure   EndResult = "failure"
	ResultBlocked   EndResult = "blocked"
	ResultCancelled EndResult = "cancelled"
)

// Escalation names the human-in-the-loop channel an end node escalates to.
type Escalation string

const (
	EscalationHITL   Escalation = "hitl"
	EscalationAlert  Escalation = "alert"
	EscalationTicket Escalation = "ticket"
)

// Stage names the lifecycle phase a task/gate node belongs to.
type Stage string

const (
	StagePlanning      Stage = "planning"
	StageDevelopment   Stage = "development"
	StageVerification  Stage = "verification"
	StageDelivery      Stage = "delivery"
	StageInvestigation Stage = "investigation"
)

// JoinStrategy names how a join node aggregates its paired fork's branches.
type JoinStrategy string

const (
	JoinAllPass JoinStrategy = "all-pass"
	JoinAnyPass JoinStrategy = "any-pass"
)

// Node is a vertex in a workflow graph. It is a closed tagged variant: Type
// selects which of the variant-specific fields are meaningful. Common
// fields (Name, Description, Instructions) are shared across variants that
// use them; variant-only fields (Join, Fork, Strategy, MaxConcurrency) are
// meaningful only for their corresponding Type.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`

	// Shared prose/display fields (task, gate, end all may set some of these).
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// task / gate fields.
	Instructions string   `json:"instructions,omitempty"`
	Agent        string   `json:"agent,omitempty"`
	Stage        Stage    `json:"stage,omitempty"`
	MaxRetries   int      `json:"maxRetries,omitempty"`
	ContextFiles []string `json:"contextFiles,omitempty"`

	// end fields.
	Result     EndResult  `json:"result,omitempty"`
	Escalation Escalation `json:"escalation,omitempty"`

	// fork fields.
	Join           string `json:"join,omitempty"`
	MaxConcurrency int    `json:"maxConcurrency,omitempty"`

	// join fields.
	Fork     string       `json:"fork,omitempty"`
	Strategy JoinStrategy `json:"strategy,omitempty"`

	// subflow fields (recognized, peripheral).
	Subflow string `json:"subflow,omitempty"`
}

// IsTerminal reports whether a node type is the end of a task's journey.
func (n *Node) IsTerminal() bool {
	return n.Type == NodeEnd
}

// effectiveMaxRetries returns MaxRetries with the spec's default of 0 when
// unset, so callers never need to special-case the zero value.
func (n *Node) effectiveMaxRetries() int {
	if n.MaxRetries < 0 {
		return 0
	}
	return n.MaxRetries
}

// effectiveJoinStrategy returns Strategy with the spec's default of
// all-pass applied.
func (n *Node) effectiveJoinStrategy() JoinStrategy {
	if n.Strategy == "" {
		return JoinAllPass
	}
	return n.Strategy
}

// NodeView projects a Node onto the subset of fields the navigation response
// exposes to callers (spec.md §4.4 "Response shape").
type NodeView struct {
	Type         NodeType `json:"type"`
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Agent        string   `json:"agent,omitempty"`
	Stage        Stage    `json:"stage,omitempty"`
	MaxRetries   int      `json:"maxRetries,omitempty"`
	ContextFiles []string `json:"contextFiles,omitempty"`
}
