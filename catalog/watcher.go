package catalog

import (
	"context"
	"log"
	"time"

	"github.com/agentnav/navigator/catalogindex"
	"github.com/agentnav/navigator/workflow"
)

// Watcher periodically re-walks a Manifest's configured roots and keeps a
// workflow.Store in sync with what it finds on disk. Workflow definitions
// are small, infrequently-edited JSON files, so a poll loop is sufficient
// — there is no latency requirement demanding an OS-level filesystem
// notification mechanism, and a poll loop has one fewer moving part to
// reason about during crash recovery.
type Watcher struct {
	manifest Manifest
	store    *workflow.Store
	index    *catalogindex.Index // optional; nil disables secondary indexing.
	logger   *log.Logger
}

// NewWatcher builds a Watcher over store. index may be nil.
func NewWatcher(manifest Manifest, store *workflow.Store, index *catalogindex.Index) *Watcher {
	return &Watcher{manifest: manifest, store: store, index: index, logger: log.Default()}
}

// RefreshOnce walks every configured root a single time, loading whatever
// workflow JSON files it finds. It is safe to call before starting Run,
// to populate the store synchronously before a process begins serving.
func (w *Watcher) RefreshOnce(ctx context.Context) error {
	results, err := loadRoots(ctx, w.store, w.manifest)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			w.logger.Printf("catalog: load %s: %v", r.Path, r.Err)
			continue
		}
		if w.index != nil {
			if def, getErr := w.store.Get(r.ID); getErr == nil {
				if err := w.index.Record(ctx, def); err != nil {
					w.logger.Printf("catalog: index %s: %v", r.ID, err)
				}
			}
		}
	}
	return nil
}

// Run polls on manifest.PollInterval until ctx is cancelled. A manifest
// with no PollInterval set makes Run a no-op after its first refresh —
// useful for a process that only wants the one-shot RefreshOnce behavior
// but shares the same construction path.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.RefreshOnce(ctx); err != nil {
		return err
	}

	interval, err := w.pollInterval()
	if err != nil || interval <= 0 {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshOnce(ctx); err != nil {
				w.logger.Printf("catalog: refresh: %v", err)
			}
		}
	}
}

func (w *Watcher) pollInterval() (time.Duration, error) {
	if w.manifest.PollInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(w.manifest.PollInterval)
}
