package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentnav/navigator/workflow"
)

const sampleWorkflowJSON = `{
	"id": "bug-fix",
	"name": "Bug Fix",
	"nodes": {
		"start": {"id": "start", "type": "start"},
		"work":  {"id": "work", "type": "task"},
		"done":  {"id": "done", "type": "end", "result": "success"}
	},
	"edges": [
		{"from": "start", "to": "work"},
		{"from": "work", "to": "done", "on": "passed"}
	]
}`

func TestWatcher_RefreshOnceLoadsWorkflowsFromConfiguredRoots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bug-fix.json"), []byte(sampleWorkflowJSON), 0o644))

	manifest := Manifest{Roots: []RootConfig{{Path: dir, Source: "project"}}}
	store := workflow.NewStore()
	watcher := NewWatcher(manifest, store, nil)

	require.NoError(t, watcher.RefreshOnce(context.Background()))

	def, err := store.Get("bug-fix")
	require.NoError(t, err)
	assert.Equal(t, workflow.SourceProject, def.Source)
}

func TestWatcher_RunWithoutPollIntervalRefreshesOnceAndReturns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bug-fix.json"), []byte(sampleWorkflowJSON), 0o644))

	manifest := Manifest{Roots: []RootConfig{{Path: dir, Source: "catalog"}}}
	store := workflow.NewStore()
	watcher := NewWatcher(manifest, store, nil)

	err := watcher.Run(context.Background())
	require.NoError(t, err)

	_, err = store.Get("bug-fix")
	require.NoError(t, err)
}
