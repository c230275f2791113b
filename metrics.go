package dentaldx

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks resolution performance using lock-free atomic
// operations. All methods are safe for concurrent use.
type Metrics struct {
	resolutionsTotal atomic.Uint64
	matchesTotal     atomic.Uint64
	noMatchTotal     atomic.Uint64
	heuristicTotal   atomic.Uint64

	// Timing in nanoseconds
	resolutionTimeTotal atomic.Uint64
	resolutionTimeMin   atomic.Uint64
	resolutionTimeMax   atomic.Uint64

	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Per-family counters
	familyStats sync.Map // map[Family]*familyMetrics
}

type familyMetrics struct {
	resolutions atomic.Uint64
	matches     atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Min starts at max uint64 so the first sample becomes the minimum
	m.resolutionTimeMin.Store(^uint64(0))
	return m
}

// RecordResolution records one completed resolver call.
func (m *Metrics) RecordResolution(family Family, duration time.Duration, matched bool) {
	m.resolutionsTotal.Add(1)
	if matched {
		m.matchesTotal.Add(1)
	} else {
		m.noMatchTotal.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.resolutionTimeTotal.Add(ns)

	for {
		old := m.resolutionTimeMin.Load()
		if ns >= old {
			break
		}
		if m.resolutionTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.resolutionTimeMax.Load()
		if ns <= old {
			break
		}
		if m.resolutionTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}

	fm := m.family(family)
	fm.resolutions.Add(1)
	if matched {
		fm.matches.Add(1)
	}
	fm.totalTime.Add(ns)
}

// RecordHeuristic records a resolution answered by the single-signal
// heuristic tier rather than the combined table.
func (m *Metrics) RecordHeuristic() {
	m.heuristicTotal.Add(1)
}

// RecordCacheStats folds compiled-expression cache counters into the
// metrics, e.g. after a table load.
func (m *Metrics) RecordCacheStats(hits, misses uint64) {
	m.cacheHits.Add(hits)
	m.cacheMisses.Add(misses)
}

func (m *Metrics) family(f Family) *familyMetrics {
	if v, ok := m.familyStats.Load(f); ok {
		return v.(*familyMetrics)
	}
	v, _ := m.familyStats.LoadOrStore(f, &familyMetrics{})
	return v.(*familyMetrics)
}

// Snapshot is a point-in-time view of the collected metrics.
type Snapshot struct {
	Resolutions     uint64
	Matches         uint64
	NoMatches       uint64
	HeuristicFires  uint64
	CacheHits       uint64
	CacheMisses     uint64
	AvgResolution   time.Duration
	MinResolution   time.Duration
	MaxResolution   time.Duration
	FamilySnapshots map[Family]FamilySnapshot
}

// FamilySnapshot is the per-family slice of a Snapshot.
type FamilySnapshot struct {
	Resolutions uint64
	Matches     uint64
	AvgTime     time.Duration
}

// MatchRate returns the fraction of resolutions that produced a
// diagnosis, or 0 when nothing has been recorded.
func (s Snapshot) MatchRate() float64 {
	if s.Resolutions == 0 {
		return 0
	}
	return float64(s.Matches) / float64(s.Resolutions)
}

// Snapshot returns a consistent-enough view of the counters. Individual
// counters are read atomically; the set as a whole is not a transaction.
func (m *Metrics) Snapshot() Snapshot {
	total := m.resolutionsTotal.Load()
	s := Snapshot{
		Resolutions:     total,
		Matches:         m.matchesTotal.Load(),
		NoMatches:       m.noMatchTotal.Load(),
		HeuristicFires:  m.heuristicTotal.Load(),
		CacheHits:       m.cacheHits.Load(),
		CacheMisses:     m.cacheMisses.Load(),
		FamilySnapshots: make(map[Family]FamilySnapshot),
	}

	if total > 0 {
		s.AvgResolution = time.Duration(m.resolutionTimeTotal.Load() / total)
		s.MaxResolution = time.Duration(m.resolutionTimeMax.Load())
		if min := m.resolutionTimeMin.Load(); min != ^uint64(0) {
			s.MinResolution = time.Duration(min)
		}
	}

	m.familyStats.Range(func(k, v any) bool {
		fm := v.(*familyMetrics)
		fs := FamilySnapshot{
			Resolutions: fm.resolutions.Load(),
			Matches:     fm.matches.Load(),
		}
		if fs.Resolutions > 0 {
			fs.AvgTime = time.Duration(fm.totalTime.Load() / fs.Resolutions)
		}
		s.FamilySnapshots[k.(Family)] = fs
		return true
	})
	return s
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.resolutionsTotal.Store(0)
	m.matchesTotal.Store(0)
	m.noMatchTotal.Store(0)
	m.heuristicTotal.Store(0)
	m.resolutionTimeTotal.Store(0)
	m.resolutionTimeMin.Store(^uint64(0))
	m.resolutionTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.familyStats.Range(func(k, _ any) bool {
		m.familyStats.Delete(k)
		return true
	})
}
