package ruletable

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	dx "github.com/godental/diagnostics"
)

// Store is an explicit registry of the per-family rule tables. The
// application entry point constructs one, publishes tables into it, and
// passes it to the engine; there is no module-level singleton.
//
// Publication follows a single-assignment discipline: readers see an
// immutable snapshot through one atomic pointer load, so resolution
// calls need no locking. Publish, Reload and Clear are the only
// mutating operations and are serialized among themselves.
type Store struct {
	mu       sync.Mutex // serializes writers
	snapshot atomic.Pointer[map[dx.Family]*Table]
	logger   zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{logger: logger}
	empty := make(map[dx.Family]*Table)
	s.snapshot.Store(&empty)
	return s
}

// Publish installs tables, replacing any previously published table of
// the same family and keeping the rest. The swap is atomic: concurrent
// readers see either the old snapshot or the new one, never a mix
// under construction.
func (s *Store) Publish(tables ...*Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.snapshot.Load()
	next := make(map[dx.Family]*Table, len(old)+len(tables))
	for f, t := range old {
		next[f] = t
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		next[t.Family()] = t
		s.logger.Info().
			Str("family", t.Family().String()).
			Int("rows", t.Len()).
			Msg("rule table published")
	}
	s.snapshot.Store(&next)
}

// Reload replaces the entire store contents in one swap. Families not
// present in the new set disappear.
func (s *Store) Reload(tables ...*Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[dx.Family]*Table, len(tables))
	for _, t := range tables {
		if t != nil {
			next[t.Family()] = t
		}
	}
	s.snapshot.Store(&next)
	s.logger.Info().Int("families", len(next)).Msg("rule tables reloaded")
}

// Clear drops every table. The explicit cache-invalidation operation
// exposed to the caller.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	empty := make(map[dx.Family]*Table)
	s.snapshot.Store(&empty)
}

// Table returns the published table for a family.
func (s *Store) Table(family dx.Family) (*Table, bool) {
	t, ok := (*s.snapshot.Load())[family]
	return t, ok
}

// Families returns the families with published tables, in the standard
// family order.
func (s *Store) Families() []dx.Family {
	snap := *s.snapshot.Load()
	var out []dx.Family
	for _, f := range dx.Families() {
		if _, ok := snap[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of published tables.
func (s *Store) Len() int {
	return len(*s.snapshot.Load())
}

// Validate runs the curation pass over every published table and merges
// the findings.
func (s *Store) Validate(maxIssues int) *dx.Report {
	report := dx.NewReport()
	snap := *s.snapshot.Load()
	for _, f := range dx.Families() {
		if t, ok := snap[f]; ok {
			report.Merge(t.Validate(maxIssues))
		}
	}
	return report
}
