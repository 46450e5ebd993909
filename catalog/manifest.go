// Package catalog loads the set of workflow directories a navigator
// process should watch, and keeps a workflow.Store current as those
// directories change. Its manifest format follows the teacher pack's
// TOML convention for small operator-facing config files (see
// nevindra-oasis's internal/config package): defaults, then a TOML file,
// then environment overrides.
package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/agentnav/navigator/workflow"
)

// RootConfig names one directory of workflow JSON files to load, tagged
// with the provenance (spec.md §3) that every definition found there will
// be stamped with.
type RootConfig struct {
	Path   string `toml:"path"`
	Source string `toml:"source"` // "catalog", "project", or "external"
}

// Manifest is the top-level shape of a catalog manifest file.
type Manifest struct {
	Roots        []RootConfig `toml:"roots"`
	PollInterval string       `toml:"poll_interval"` // e.g. "5s"; "" disables polling.
}

// Default returns an empty manifest: no roots configured, polling off.
func Default() Manifest {
	return Manifest{}
}

// Load reads a manifest from path. A missing file is not an error — it
// returns Default(), mirroring the teacher convention that absent config
// degrades to safe defaults rather than failing startup.
func Load(path string) (Manifest, error) {
	m := Default()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("catalog: read manifest %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("catalog: parse manifest %s: %w", path, err)
	}
	return m, nil
}

// WithPollOverride returns a copy of m with PollInterval replaced by d,
// when d is positive. Intended to be called with
// config.CatalogConfig.PollInterval() so an operator's
// NAVIGATOR_CATALOG_POLL_SECONDS environment override can take precedence
// over whatever poll_interval is baked into the TOML manifest file.
func (m Manifest) WithPollOverride(d time.Duration) Manifest {
	if d <= 0 {
		return m
	}
	m.PollInterval = d.String()
	return m
}

// LoadManifest reads the TOML manifest at manifestPath and calls
// workflow.LoadWorkflows once per declared root, admitting every workflow
// it finds into store. It is sugar over Load + repeated LoadWorkflows
// calls — it introduces no new Store method and changes nothing about the
// Store's contract. A root whose directory cannot be read is reported as
// a single failing LoadResult rather than aborting the remaining roots, so
// one bad root never hides the others' results.
func LoadManifest(ctx context.Context, store *workflow.Store, manifestPath string) ([]workflow.LoadResult, error) {
	m, err := Load(manifestPath)
	if err != nil {
		return nil, err
	}
	return loadRoots(ctx, store, m)
}

// loadRoots is the shared per-root load loop behind LoadManifest and
// Watcher.RefreshOnce.
func loadRoots(ctx context.Context, store *workflow.Store, m Manifest) ([]workflow.LoadResult, error) {
	var all []workflow.LoadResult
	for _, root := range m.Roots {
		results, err := workflow.LoadWorkflows(ctx, store, root.Path, sourceOf(root.Source), root.Path, nil)
		if err != nil {
			all = append(all, workflow.LoadResult{Path: root.Path, Err: err})
			continue
		}
		all = append(all, results...)
	}
	return all, nil
}

// sourceOf maps a manifest root's string source to its workflow.Source,
// defaulting to external for anything unrecognized — an unrecognized
// provenance tag should never silently become "catalog" (which carries
// elevated trust in a host process's access-control decisions).
func sourceOf(raw string) workflow.Source {
	switch workflow.Source(raw) {
	case workflow.SourceCatalog:
		return workflow.SourceCatalog
	case workflow.SourceProject:
		return workflow.SourceProject
	default:
		return workflow.SourceExternal
	}
}
