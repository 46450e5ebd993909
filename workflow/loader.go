package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LoadResult reports the outcome of loading a single workflow definition
// file as part of a directory load.
type LoadResult struct {
	Path  string
	ID    string
	Err   error
}

// maxConcurrentLoads bounds the worker pool LoadWorkflows uses to read and
// validate definition files, mirroring the teacher's bounded-concurrency
// scheduling without needing its frontier/backpressure machinery — a
// directory load has no cross-file dependencies to schedule around.
const maxConcurrentLoads = 8

// LoadWorkflows loads every *.json file directly under path into store,
// tagging each with source and sourceRoot (used later to resolve that
// workflow's relative context-file references). When workflowIds is
// non-empty, only files whose basename (without extension) is in the set
// are loaded. Files are read and validated concurrently, bounded by
// maxConcurrentLoads; admission into the Store is still serialized by the
// Store's own lock, so concurrent loads never race on the same id.
func LoadWorkflows(ctx context.Context, store *Store, path string, source Source, sourceRoot string, workflowIds []string) ([]LoadResult, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("workflow: read catalog dir %q: %w", path, err)
	}

	var wanted map[string]bool
	if len(workflowIds) > 0 {
		wanted = make(map[string]bool, len(workflowIds))
		for _, id := range workflowIds {
			wanted[id] = true
		}
	}

	var files []string
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(de.Name(), ".json")
		if wanted != nil && !wanted[base] {
			continue
		}
		files = append(files, filepath.Join(path, de.Name()))
	}

	results := make([]LoadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = loadOne(store, file, source, sourceRoot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func loadOne(store *Store, file string, source Source, sourceRoot string) LoadResult {
	raw, err := os.ReadFile(file)
	if err != nil {
		return LoadResult{Path: file, Err: fmt.Errorf("read %q: %w", file, err)}
	}

	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return LoadResult{Path: file, Err: fmt.Errorf("parse %q: %w", file, err)}
	}

	if err := store.Load(&def, source, sourceRoot); err != nil {
		return LoadResult{Path: file, ID: def.ID, Err: err}
	}
	return LoadResult{Path: file, ID: def.ID}
}
