package emit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEmitter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, false)

	e.Emit(Event{Msg: "nav.next", TaskID: "t-1", WorkflowType: "bug-fix", CurrentStep: "review", Terminal: "hitl"})

	out := buf.String()
	assert.Contains(t, out, "[nav.next]")
	assert.Contains(t, out, "task=t-1")
	assert.Contains(t, out, "workflow=bug-fix")
	assert.Contains(t, out, "terminal=hitl")
}

func TestLogEmitter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, true)

	e.Emit(Event{Msg: "nav.start", TaskID: "t-2", WorkflowType: "feature-development"})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"taskID":"t-2"`)
	assert.Contains(t, out, `"msg":"nav.start"`)
}

func TestNullEmitter_DiscardsEverything(t *testing.T) {
	e := NewNullEmitter()
	e.Emit(Event{Msg: "nav.current"})
	require.NoError(t, e.EmitBatch(context.Background(), []Event{{Msg: "nav.next"}}))
	require.NoError(t, e.Flush(context.Background()))
}

func TestBufferedEmitter_GetHistoryIsPerTask(t *testing.T) {
	e := NewBufferedEmitter()
	e.Emit(Event{TaskID: "t-1", Msg: "nav.start"})
	e.Emit(Event{TaskID: "t-1", Msg: "nav.next"})
	e.Emit(Event{TaskID: "t-2", Msg: "nav.start"})

	h1 := e.GetHistory("t-1")
	require.Len(t, h1, 2)
	assert.Equal(t, "nav.start", h1[0].Msg)
	assert.Equal(t, "nav.next", h1[1].Msg)

	h2 := e.GetHistory("t-2")
	require.Len(t, h2, 1)
}

func TestBufferedEmitter_GetHistoryWithFilter(t *testing.T) {
	e := NewBufferedEmitter()
	e.Emit(Event{TaskID: "t-1", Msg: "nav.next", Terminal: "hitl"})
	e.Emit(Event{TaskID: "t-1", Msg: "nav.next", Terminal: "success"})

	filtered := e.GetHistoryWithFilter("t-1", HistoryFilter{Terminal: "hitl"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "hitl", filtered[0].Terminal)
}

func TestBufferedEmitter_ClearRemovesOneOrAllTasks(t *testing.T) {
	e := NewBufferedEmitter()
	e.Emit(Event{TaskID: "t-1", Msg: "nav.start"})
	e.Emit(Event{TaskID: "t-2", Msg: "nav.start"})

	e.Clear("t-1")
	assert.Empty(t, e.GetHistory("t-1"))
	assert.NotEmpty(t, e.GetHistory("t-2"))

	e.Clear("")
	assert.Empty(t, e.GetHistory("t-2"))
}
