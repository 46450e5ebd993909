package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentnav/navigator/emit"
	"github.com/agentnav/navigator/metrics"
)

// Navigator orchestrates the three navigation operations (spec.md §4.4):
// Start, Current, Next. It owns the task-file boundary — it is the only
// component in this system that performs I/O on task state; the Store it
// reads from is injected and shared read-only, and the Transition Engine
// it calls into is a pure function with no collaborators of its own.
type Navigator struct {
	store    *Store
	emitter  emit.Emitter
	recorder *metrics.Recorder
	tracer   trace.Tracer
}

// Option configures a Navigator at construction time.
type Option func(*Navigator)

// WithEmitter attaches an observability event sink. Omitted, events are
// discarded (emit.NullEmitter) — instrumentation is purely additive and
// never changes a returned Response.
func WithEmitter(e emit.Emitter) Option {
	return func(n *Navigator) { n.emitter = e }
}

// WithMetrics attaches a Prometheus recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(n *Navigator) { n.recorder = r }
}

// WithTracer attaches an OpenTelemetry tracer used to wrap each operation
// in a span. Omitted, no spans are created.
func WithTracer(t trace.Tracer) Option {
	return func(n *Navigator) { n.tracer = t }
}

// NewNavigator builds a Navigator reading from store.
func NewNavigator(store *Store, opts ...Option) *Navigator {
	n := &Navigator{store: store, emitter: emit.NewNullEmitter()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// StartInput is the set of inputs the Start operation accepts (spec.md
// §6.1).
type StartInput struct {
	WorkflowType string
	StepID       string // optional: mid-flow recovery or child-task entry.
	TaskFilePath string // optional: when set, the task file is written.
	Description  string // optional: seeds metadata.userDescription.
}

// Start seeds or re-seeds a task at a named step (spec.md §4.4 "Operation:
// Start").
func (n *Navigator) Start(ctx context.Context, in StartInput) (*Response, error) {
	return n.instrumented(ctx, "start", in.TaskFilePath, in.WorkflowType, func() (*Response, error) {
		def, err := n.store.Get(in.WorkflowType)
		if err != nil {
			return nil, newErr("Start", CodeWorkflowNotFound, fmt.Sprintf("workflow %q not found", in.WorkflowType))
		}

		stepID := in.StepID
		if stepID == "" {
			start, ok := def.startNode()
			if !ok {
				return nil, newErr("Start", CodeStepNotFound, "workflow has no start node")
			}
			stepID = start.ID
		}

		node, ok := def.Nodes[stepID]
		if !ok {
			return nil, newErr("Start", CodeStepNotFound, fmt.Sprintf("step %q not found", stepID))
		}

		resp := n.buildResponse(def, &node, stepID, 0, in.Description, "")

		if in.TaskFilePath != "" {
			task := &Task{
				ID:     strings.TrimSuffix(filepath.Base(in.TaskFilePath), filepath.Ext(in.TaskFilePath)),
				Status: StatusInProgress,
				Extra:  map[string]interface{}{},
				Metadata: Metadata{
					WorkflowType:    in.WorkflowType,
					CurrentStep:     stepID,
					RetryCount:      0,
					UserDescription: in.Description,
				},
			}
			if prior, err := readTaskFile(in.TaskFilePath); err == nil {
				// Re-seeding an existing task file keeps its id, status and
				// the fields the navigator does not model.
				task.ID = prior.ID
				task.Extra = prior.Extra
				if prior.Status != "" {
					task.Status = prior.Status
				}
			}
			applyWriteThrough(task, def, &node, stepID, resp.Terminal)
			if err := writeTaskFile(in.TaskFilePath, task); err != nil {
				return nil, err
			}
		}

		return resp, nil
	})
}

// Current reads a task file and returns its current position without
// mutating it (spec.md §4.4 "Operation: Current").
func (n *Navigator) Current(ctx context.Context, taskFilePath string) (*Response, error) {
	return n.instrumented(ctx, "current", taskFilePath, "", func() (*Response, error) {
		task, err := readTaskFile(taskFilePath)
		if err != nil {
			return nil, err
		}
		if task.Metadata.WorkflowType == "" || task.Metadata.CurrentStep == "" {
			return nil, newErr("Current", CodeNoWorkflowMetadata, "task has no workflow metadata")
		}

		def, err := n.store.Get(task.Metadata.WorkflowType)
		if err != nil {
			return nil, newErr("Current", CodeWorkflowNotFound, fmt.Sprintf("workflow %q not found", task.Metadata.WorkflowType))
		}

		node, ok := def.Nodes[task.Metadata.CurrentStep]
		if !ok {
			return nil, newErr("Current", CodeStepNotFound, fmt.Sprintf("step %q not found", task.Metadata.CurrentStep))
		}

		return n.buildResponse(def, &node, task.Metadata.CurrentStep, task.Metadata.RetryCount, task.Metadata.UserDescription, ""), nil
	})
}

// NextInput is the set of inputs the Next operation accepts (spec.md
// §6.1).
type NextInput struct {
	TaskFilePath string
	Result       string // required: "passed" or "failed".
}

// Next evaluates a transition from a task's current step and, when one
// applies, writes the task file forward (spec.md §4.4 "Operation: Next").
func (n *Navigator) Next(ctx context.Context, in NextInput) (*Response, error) {
	return n.instrumented(ctx, "next", in.TaskFilePath, "", func() (*Response, error) {
		if in.Result == "" {
			return nil, newErr("Next", CodeMissingRequiredInput, "result is required")
		}

		task, err := readTaskFile(in.TaskFilePath)
		if err != nil {
			return nil, err
		}
		if task.Metadata.WorkflowType == "" || task.Metadata.CurrentStep == "" {
			return nil, newErr("Next", CodeNoWorkflowMetadata, "task has no workflow metadata")
		}

		def, err := n.store.Get(task.Metadata.WorkflowType)
		if err != nil {
			return nil, newErr("Next", CodeWorkflowNotFound, fmt.Sprintf("workflow %q not found", task.Metadata.WorkflowType))
		}

		decision := EvaluateTransition(def, task.Metadata.CurrentStep, in.Result, task.Metadata.RetryCount)
		if decision.Err != "" {
			return nil, newErr("Next", decision.Err, fmt.Sprintf("no transition from %q on result %q", task.Metadata.CurrentStep, in.Result))
		}

		node, ok := def.Nodes[decision.Next]
		if !ok {
			return nil, newErr("Next", CodeStepNotFound, fmt.Sprintf("step %q not found", decision.Next))
		}

		newRetryCount := 0
		if decision.Action == ActionRetry {
			newRetryCount = decision.NewRetryCount
		}

		if n.recorder != nil {
			switch decision.Action {
			case ActionRetry:
				n.recorder.RecordRetry(task.Metadata.WorkflowType, task.Metadata.CurrentStep)
			case ActionEscalate:
				n.recorder.RecordEscalation(task.Metadata.WorkflowType, task.Metadata.CurrentStep)
			}
		}

		resp := n.buildResponse(def, &node, decision.Next, newRetryCount, task.Metadata.UserDescription, in.Result)

		applyWriteThrough(task, def, &node, decision.Next, resp.Terminal)
		task.Metadata.CurrentStep = decision.Next
		task.Metadata.RetryCount = newRetryCount
		if len(task.Metadata.History) < historyLimit {
			task.Metadata.History = append(task.Metadata.History, HistoryEntry{
				Step:      decision.Next,
				Result:    in.Result,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}

		if err := writeTaskFile(in.TaskFilePath, task); err != nil {
			return nil, err
		}
		return resp, nil
	})
}

// historyLimit bounds the additive History slice so a long-lived task file
// cannot grow without bound: once it holds historyLimit entries, later Next
// calls append nothing and the earliest entries are kept. The Transition
// Engine never reads History, so the cap changes no navigation semantics.
const historyLimit = 500

// buildResponse assembles the unified Response shape (spec.md §4.4),
// resolving path references and outgoing edges for the given node.
func (n *Navigator) buildResponse(def *Definition, node *Node, stepID string, retryCount int, userDescription, result string) *Response {
	return &Response{
		CurrentStep: stepID,
		Node:        buildNodeView(node, def.SourceRoot),
		Edges:       buildEdgeViews(OutgoingEdges(def, stepID)),
		Terminal:    terminalFor(node),
		Metadata: ResponseMetadata{
			WorkflowType:    def.ID,
			CurrentStep:     stepID,
			RetryCount:      retryCount,
			UserDescription: userDescription,
		},
	}
}

// instrumented wraps op with optional tracing, metrics, and event emission,
// without changing its returned Response or error.
func (n *Navigator) instrumented(ctx context.Context, op, taskFilePath, workflowType string, fn func() (*Response, error)) (*Response, error) {
	start := time.Now()

	var span trace.Span
	if n.tracer != nil {
		_, span = n.tracer.Start(ctx, "navigator."+op, trace.WithAttributes(
			attribute.String("workflow.id", workflowType),
		))
		defer span.End()
	}

	resp, err := fn()

	if span != nil && resp != nil {
		span.SetAttributes(
			attribute.String("workflow.id", resp.Metadata.WorkflowType),
			attribute.String("task.current_step", resp.CurrentStep),
		)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if n.recorder != nil {
		n.recorder.RecordNavigation(op, outcome, time.Since(start))
	}

	taskID := deriveTaskID(taskFilePath)
	if taskID == "" {
		// Start without a bound task file has no file basename to derive
		// an id from; fall back to a generated one so the emitted event is
		// still addressable for dedup/outbox purposes.
		taskID = newTaskID()
	}
	event := emit.Event{ID: newTaskID(), Op: op, TaskID: taskID, Msg: "nav." + op}
	if resp != nil {
		event.WorkflowType = resp.Metadata.WorkflowType
		event.CurrentStep = resp.CurrentStep
		event.Terminal = string(resp.Terminal)
	} else {
		event.WorkflowType = workflowType
	}
	if err != nil {
		event.Meta = map[string]interface{}{"error": err.Error()}
	}
	n.emitter.Emit(event)

	return resp, err
}

// deriveTaskID extracts a stable id from a task file path for
// observability purposes only (it is not the authoritative Task.ID, which
// taskfile.go computes from the file's own contents/basename).
func deriveTaskID(path string) string {
	if path == "" {
		return ""
	}
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	return base
}

// applyWriteThrough regenerates the Subject/ActiveForm/Status fields of
// task to reflect node and result, per spec.md §4.4 "Write-through
// protocol".
func applyWriteThrough(task *Task, def *Definition, node *Node, stepID string, terminal Terminal) {
	workflowEmoji := workflowEmojiFor(def.ID)

	subjectFirstLine := fmt.Sprintf("#%s %s", task.ID, task.Metadata.UserDescription)
	if workflowEmoji != "" {
		subjectFirstLine += " " + workflowEmoji
	}

	suffix := ""
	switch terminal {
	case TerminalSuccess:
		suffix = " completed ✓"
	case TerminalHITL, TerminalFailure:
		suffix = " HITL"
	}

	subjectSecondLine := fmt.Sprintf("→ %s · %s%s", def.ID, stepID, suffix)
	task.Subject = subjectFirstLine + "\n" + subjectSecondLine
	task.ActiveForm = node.Name

	switch terminal {
	case TerminalSuccess:
		task.Status = StatusCompleted
	case TerminalHITL, TerminalFailure:
		// status unchanged from prior.
	default:
		task.Status = StatusInProgress
	}
}

// workflowEmojiFor returns an optional display emoji for a workflow id.
// This is cosmetic only — a missing mapping simply omits the suffix.
func workflowEmojiFor(workflowID string) string {
	switch workflowID {
	case "bug-fix":
		return "\U0001FAB2"
	case "feature-development":
		return "✨"
	default:
		return ""
	}
}

// Tracer returns an OTel tracer named for the navigator package, a small
// convenience so callers wiring WithTracer don't need to import otel
// themselves just to get the default global tracer provider's tracer.
func Tracer() trace.Tracer {
	return otel.Tracer("navigator")
}
