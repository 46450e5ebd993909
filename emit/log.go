package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter implements Emitter by writing structured log output to a
// writer, in either a human-readable text format or JSONL.
//
// Example text output:
//
//	[nav.next] task=t-42 workflow=bug-fix step=write_fix
//
// Example JSON output:
//
//	{"taskID":"t-42","workflowType":"bug-fix","currentStep":"write_fix","msg":"nav.next","meta":{"action":"retry"}}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a LogEmitter. A nil writer defaults to os.Stdout.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{writer: writer, jsonMode: jsonMode}
}

func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		TaskID       string                 `json:"taskID"`
		WorkflowType string                 `json:"workflowType"`
		CurrentStep  string                 `json:"currentStep"`
		Terminal     string                 `json:"terminal,omitempty"`
		Msg          string                 `json:"msg"`
		Meta         map[string]interface{} `json:"meta,omitempty"`
	}{
		TaskID:       event.TaskID,
		WorkflowType: event.WorkflowType,
		CurrentStep:  event.CurrentStep,
		Terminal:     event.Terminal,
		Msg:          event.Msg,
		Meta:         event.Meta,
	})
	if err != nil {
		_, _ = fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	_, _ = fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	_, _ = fmt.Fprintf(l.writer, "[%s] task=%s workflow=%s step=%s",
		event.Msg, event.TaskID, event.WorkflowType, event.CurrentStep)
	if event.Terminal != "" {
		_, _ = fmt.Fprintf(l.writer, " terminal=%s", event.Terminal)
	}
	if len(event.Meta) > 0 {
		metaJSON, err := json.Marshal(event.Meta)
		if err == nil {
			_, _ = fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		}
	}
	_, _ = fmt.Fprint(l.writer, "\n")
}

// EmitBatch writes events in order, minimizing nothing in particular beyond
// what Emit already does — LogEmitter has no internal buffering to amortize.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.Emit(event)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes synchronously with no buffering of
// its own. Wrap writer in a bufio.Writer and flush that directly if needed.
func (l *LogEmitter) Flush(context.Context) error { return nil }
