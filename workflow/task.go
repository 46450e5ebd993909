package workflow

import "github.com/google/uuid"

// Status is the lifecycle state of a Task record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// HistoryEntry records one transition a task made, for observability only
// (SPEC_FULL.md §3 supplemental field). The Transition Engine never reads
// task history; it exists purely so a Current/Next caller can show a human
// how a task arrived where it is.
type HistoryEntry struct {
	Step      string `json:"step"`
	Result    string `json:"result,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Metadata is the workflow-position bookkeeping persisted on a Task, exactly
// the fields spec.md §3/§6.4 require plus the additive History slice.
type Metadata struct {
	WorkflowType    string         `json:"workflowType"`
	CurrentStep     string         `json:"currentStep"`
	RetryCount      int            `json:"retryCount"`
	UserDescription string         `json:"userDescription,omitempty"`
	History         []HistoryEntry `json:"history,omitempty"`
}

// Task is the persistent record of one workflow execution, as stored in a
// task file (spec.md §3 "Task", §6.4 "Task file format"). Extra fields a
// caller's task file carries beyond this shape are preserved verbatim
// across writes by taskfile.go — Task itself only models the fields the
// navigator reads or writes.
type Task struct {
	ID         string                 `json:"id"`
	Subject    string                 `json:"subject"`
	ActiveForm string                 `json:"activeForm,omitempty"`
	Status     Status                 `json:"status"`
	Metadata   Metadata               `json:"metadata"`
	Extra      map[string]interface{} `json:"-"`
}

// newTaskID generates a default task id when a caller does not derive one
// from a task file's basename (spec.md §3 "typically derived from the task
// file basename", but Start may be called before a file exists).
func newTaskID() string {
	return uuid.NewString()
}
