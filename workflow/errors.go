package workflow

import "errors"

// Error codes, stable across releases so callers can match on them instead
// of parsing messages. These mirror the eight-item taxonomy in spec.md §7.
const (
	CodeWorkflowNotFound     = "workflow_not_found"
	CodeStepNotFound         = "step_not_found"
	CodeNoOutgoingEdges      = "no_outgoing_edges"
	CodeNoMatchingEdge       = "no_matching_edge"
	CodeTaskFileUnreadable   = "task_file_unreadable"
	CodeNoWorkflowMetadata   = "no_workflow_metadata"
	CodeValidationFailed     = "validation_failed"
	CodeMissingRequiredInput = "missing_required_input"
)

// ErrNotFound is returned by Store.Get when no definition is admitted under
// the requested id. It is a normal, expected outcome — callers surface it
// on their own error path rather than treating it as a bug.
var ErrNotFound = errors.New("workflow: not found")

// NavigationError is the structured error type returned (never panicked)
// across the Start/Current/Next boundary. Code is one of the Code*
// constants above; Op names the operation that failed; Err, when present,
// wraps the underlying cause (a file I/O error, a JSON decode error, ...).
type NavigationError struct {
	Code string
	Op   string
	Msg  string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.Op != "" {
		return e.Op + ": " + e.Msg
	}
	return e.Msg
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

func newErr(op, code, msg string) *NavigationError {
	return &NavigationError{Code: code, Op: op, Msg: msg}
}

func wrapErr(op, code, msg string, err error) *NavigationError {
	return &NavigationError{Code: code, Op: op, Msg: msg, Err: err}
}

// ValidationError reports why a candidate Definition was rejected by
// Validate. Reason is a stable, human-readable string (spec.md §8
// scenario 6 relies on exact reasons such as "branch targets join
// directly" being matchable by callers/tests).
type ValidationError struct {
	WorkflowID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.WorkflowID != "" {
		return "workflow " + e.WorkflowID + ": " + e.Reason
	}
	return e.Reason
}
