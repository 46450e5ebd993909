package workflow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentnav/navigator/emit"
)

func newTestNavigator(t *testing.T) (*Navigator, *emit.BufferedEmitter) {
	t.Helper()
	store := NewStore()
	require.NoError(t, store.Load(retryEscalateDef(1), SourceProject, ""))

	buffer := emit.NewBufferedEmitter()
	nav := NewNavigator(store, WithEmitter(buffer))
	return nav, buffer
}

func TestNavigator_StartWithoutTaskFileReturnsResponseOnly(t *testing.T) {
	nav, _ := newTestNavigator(t)

	resp, err := nav.Start(context.Background(), StartInput{WorkflowType: "retry-escalate"})
	require.NoError(t, err)
	assert.Equal(t, "start", resp.CurrentStep)
	assert.Equal(t, TerminalStart, resp.Terminal)
}

func TestNavigator_StartWritesTaskFile(t *testing.T) {
	nav, _ := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")

	resp, err := nav.Start(context.Background(), StartInput{
		WorkflowType: "retry-escalate",
		TaskFilePath: path,
		Description:  "fix the flaky test",
	})
	require.NoError(t, err)
	assert.Equal(t, "start", resp.CurrentStep)

	task, err := readTaskFile(path)
	require.NoError(t, err)
	assert.Equal(t, "retry-escalate", task.Metadata.WorkflowType)
	assert.Equal(t, "start", task.Metadata.CurrentStep)
	assert.Equal(t, StatusInProgress, task.Status)
}

func TestNavigator_CurrentReflectsTaskFileWithoutMutating(t *testing.T) {
	nav, _ := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")
	ctx := context.Background()

	_, err := nav.Start(ctx, StartInput{WorkflowType: "retry-escalate", TaskFilePath: path})
	require.NoError(t, err)

	before, err := readTaskFile(path)
	require.NoError(t, err)

	resp, err := nav.Current(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "start", resp.CurrentStep)

	after, err := readTaskFile(path)
	require.NoError(t, err)
	assert.Equal(t, before.Metadata, after.Metadata, "Current must not mutate the task file")
}

func TestNavigator_NextAdvancesStepAndWritesThrough(t *testing.T) {
	nav, _ := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")
	ctx := context.Background()

	_, err := nav.Start(ctx, StartInput{
		WorkflowType: "retry-escalate",
		StepID:       "review",
		TaskFilePath: path,
	})
	require.NoError(t, err)

	resp, err := nav.Next(ctx, NextInput{TaskFilePath: path, Result: "passed"})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.CurrentStep)
	assert.Equal(t, TerminalSuccess, resp.Terminal)

	task, err := readTaskFile(path)
	require.NoError(t, err)
	assert.Equal(t, "done", task.Metadata.CurrentStep)
	assert.Equal(t, StatusCompleted, task.Status)
}

func TestNavigator_NextRetriesThenEscalates(t *testing.T) {
	nav, _ := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")
	ctx := context.Background()

	_, err := nav.Start(ctx, StartInput{WorkflowType: "retry-escalate", StepID: "review", TaskFilePath: path})
	require.NoError(t, err)

	resp, err := nav.Next(ctx, NextInput{TaskFilePath: path, Result: "failed"})
	require.NoError(t, err)
	assert.Equal(t, "review", resp.CurrentStep, "first failure should retry, not escalate, given maxRetries=1")

	task, err := readTaskFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, task.Metadata.RetryCount)

	resp, err = nav.Next(ctx, NextInput{TaskFilePath: path, Result: "failed"})
	require.NoError(t, err)
	assert.Equal(t, "escalated", resp.CurrentStep)
	assert.Equal(t, TerminalHITL, resp.Terminal)
}

func TestNavigator_NextMissingResultIsRejected(t *testing.T) {
	nav, _ := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")
	ctx := context.Background()

	_, err := nav.Start(ctx, StartInput{WorkflowType: "retry-escalate", TaskFilePath: path})
	require.NoError(t, err)

	_, err = nav.Next(ctx, NextInput{TaskFilePath: path})
	require.Error(t, err)
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, CodeMissingRequiredInput, navErr.Code)
}

func TestNavigator_StartUnknownWorkflowReturnsWorkflowNotFound(t *testing.T) {
	nav, _ := newTestNavigator(t)

	_, err := nav.Start(context.Background(), StartInput{WorkflowType: "does-not-exist"})
	require.Error(t, err)
	var navErr *NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, CodeWorkflowNotFound, navErr.Code)
}

func TestNavigator_EmitsEventsPerOperation(t *testing.T) {
	nav, buffer := newTestNavigator(t)
	path := filepath.Join(t.TempDir(), "task.json")
	ctx := context.Background()

	_, err := nav.Start(ctx, StartInput{WorkflowType: "retry-escalate", TaskFilePath: path})
	require.NoError(t, err)

	taskID := filepath.Base(path)
	history := buffer.GetHistory(taskID)
	require.Len(t, history, 1)
	assert.Equal(t, "nav.start", history[0].Msg)
}
