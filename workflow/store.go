package workflow

import (
	"sync"

	"github.com/agentnav/navigator/metrics"
)

// Filter selects which provenance tiers List returns.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterProject  Filter = "project"
	FilterCatalog  Filter = "catalog"
	FilterExternal Filter = "external"
)

// entry is what a Store holds per workflow id: the definition plus the
// provenance fields spec.md §3 requires tracked alongside it.
type entry struct {
	def *Definition
}

// Store holds the loaded workflow catalog. It is process-wide and
// read-mostly (spec.md §5, §9 "Global catalog state"): a sync.RWMutex is
// sufficient because Load/Clear are administrative operations and Get/List
// reads are the hot path.
//
// Store exclusively owns loaded definitions; the Transition Engine never
// touches it directly and the Navigator only ever calls Get/GetSourceRoot
// through it.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	recorder *metrics.Recorder
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithStoreMetrics attaches a Prometheus recorder that Load consults on
// every validation rejection (metrics.Recorder.RecordValidationFailure).
// A nil recorder (the default) disables this instrumentation.
func WithStoreMetrics(r *metrics.Recorder) StoreOption {
	return func(s *Store) { s.recorder = r }
}

// NewStore creates an empty workflow Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load validates def and, on success, admits it — replacing any existing
// entry with the same id. On validation failure the store is left
// unchanged, the validation-failures metric is incremented (if a recorder
// is attached), and the ValidationError is returned.
func (s *Store) Load(def *Definition, source Source, sourceRoot string) error {
	def.Source = source
	def.SourceRoot = sourceRoot

	if err := Validate(def); err != nil {
		s.recorder.RecordValidationFailure(def.ID)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[def.ID] = entry{def: def}
	return nil
}

// Get returns the full definition for id, or ErrNotFound.
func (s *Store) Get(id string) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.def, nil
}

// List returns summaries for every admitted definition matching filter.
func (s *Store) List(filter Filter) []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.entries))
	for _, e := range s.entries {
		if filter != FilterAll && string(filter) != string(e.def.Source) {
			continue
		}
		out = append(out, summarize(e.def))
	}
	return out
}

// HasProject reports whether any admitted definition has project
// provenance.
func (s *Store) HasProject() bool {
	return s.hasSource(SourceProject)
}

// HasExternal reports whether any admitted definition has external
// provenance.
func (s *Store) HasExternal() bool {
	return s.hasSource(SourceExternal)
}

func (s *Store) hasSource(src Source) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.def.Source == src {
			return true
		}
	}
	return false
}

// GetSourceRoot returns the source root recorded for id, if any.
func (s *Store) GetSourceRoot(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || e.def.SourceRoot == "" {
		return "", false
	}
	return e.def.SourceRoot, true
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}
