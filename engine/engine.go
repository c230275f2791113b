// Package engine provides the diagnosis resolution engine: a thin,
// concurrency-safe orchestrator over the pure resolvers, an explicit
// rule-table store, metrics and logging.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/resolver"
	"github.com/godental/diagnostics/ruletable"
)

// Engine coordinates resolution calls against the published rule
// tables. It holds no per-call state; a single Engine is safe for
// concurrent use.
type Engine struct {
	store   *ruletable.Store
	options *dx.Options
	metrics *dx.Metrics
	logger  zerolog.Logger
}

// New creates an Engine over an already-populated store.
func New(store *ruletable.Store, opts ...dx.Option) *Engine {
	options := dx.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Engine{
		store:   store,
		options: options,
		metrics: dx.NewMetrics(),
		logger:  options.Logger,
	}
}

// Store returns the engine's rule-table store.
func (e *Engine) Store() *ruletable.Store {
	return e.store
}

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *dx.Metrics {
	return e.metrics
}

// Options returns the effective configuration.
func (e *Engine) Options() dx.Options {
	return *e.options
}

func (e *Engine) table(family dx.Family) (*ruletable.Table, error) {
	t, ok := e.store.Table(family)
	if !ok {
		return nil, fmt.Errorf("no %s rule table published", family)
	}
	return t, nil
}

// ResolveCaries resolves a decay diagnosis.
func (e *Engine) ResolveCaries(ctx context.Context, obs dx.CariesObservation) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := e.table(dx.FamilyCaries)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	diag, err := resolver.ResolveCaries(table, obs)
	e.record(dx.FamilyCaries, start, diag, err)
	return diag, err
}

// ResolveEndodontic resolves the combined pulp/periapical diagnosis
// from the observation's current cold, percussion and palpation
// results. With the heuristic tier enabled, a combined no-match falls
// back to the cold test alone (the richest single signal).
func (e *Engine) ResolveEndodontic(ctx context.Context, obs dx.EndodonticObservation) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := e.table(dx.FamilyEndodontic)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cold := obs.Test(dx.TestCold)
	diag, err := resolver.ResolveEndodontic(table, cold, obs.Test(dx.TestPercussion), obs.Test(dx.TestPalpation))
	if err == nil && diag == nil && e.options.HeuristicFallback && cold.Performed() {
		if diag = resolver.HeuristicDiagnosis(dx.TestCold, cold); diag != nil {
			e.metrics.RecordHeuristic()
		}
	}
	e.record(dx.FamilyEndodontic, start, diag, err)
	return diag, err
}

// ResolveHeat resolves the independent heat test.
func (e *Engine) ResolveHeat(ctx context.Context, heat dx.EndodonticTest) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := e.table(dx.FamilyHeat)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	diag, err := resolver.ResolveHeat(table, heat)
	e.record(dx.FamilyHeat, start, diag, err)
	return diag, err
}

// ResolveElectricity maps an electrical pulp test reading to a
// diagnosis.
func (e *Engine) ResolveElectricity(ctx context.Context, reading int) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resolver.ResolveElectricity(reading)
}

// ResolvePeriodontal derives the tooth's aggregates and resolves the
// periodontal diagnosis.
func (e *Engine) ResolvePeriodontal(ctx context.Context, obs dx.PeriodontalObservation) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := e.table(dx.FamilyPeriodontal)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	diag, err := resolver.ResolvePeriodontal(table, obs, e.options.DefaultPercentTeeth)
	e.record(dx.FamilyPeriodontal, start, diag, err)
	return diag, err
}

// Aggregates derives the periodontal aggregate measures without
// resolving, for callers that display them.
func (e *Engine) Aggregates(obs dx.PeriodontalObservation) (dx.Aggregates, error) {
	return resolver.ComputeAggregates(obs, e.options.DefaultPercentTeeth)
}

// RecalculationPolicy builds a policy bound to the currently published
// endodontic tables. The policy captures the tables it was built with;
// build a fresh one after a store reload.
func (e *Engine) RecalculationPolicy() (*resolver.RecalculationPolicy, error) {
	combined, err := e.table(dx.FamilyEndodontic)
	if err != nil {
		return nil, err
	}
	heat, err := e.table(dx.FamilyHeat)
	if err != nil {
		return nil, err
	}
	return resolver.NewRecalculationPolicy(combined, heat, e.options.HeuristicFallback), nil
}

// Update records a test result on a tooth chart and recomputes stored
// diagnoses per the recalculation policy.
func (e *Engine) Update(ctx context.Context, chart resolver.ToothChart, kind dx.TestKind, test dx.EndodonticTest) (*dx.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	policy, err := e.RecalculationPolicy()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	diag, err := policy.Update(chart, kind, test)
	e.record(dx.FamilyEndodontic, start, diag, err)
	e.logger.Debug().
		Str("test", string(kind)).
		Str("diagnosis", diag.String()).
		Msg("endodontic chart updated")
	return diag, err
}

// LoadTables parses rule table documents and publishes them into the
// engine's store, replacing the previously published set. The loader's
// expression cache is sized from RangeCacheSize; with StrictTables set,
// loading fails when the curation pass reports errors and nothing is
// published. The returned report carries the findings either way.
func (e *Engine) LoadTables(docs ...[]byte) (*dx.Report, error) {
	loader := ruletable.NewLoader(e.options.RangeCacheSize, e.logger)
	loaded, report, err := loader.LoadAll(docs, e.options.StrictTables, e.options.MaxIssues)

	stats := loader.Compiler().Stats()
	e.metrics.RecordCacheStats(stats.Hits, stats.Misses)

	if err != nil {
		return report, err
	}
	e.store.Reload(loaded...)
	return report, nil
}

// ValidateTables runs the curation pass over every published table.
func (e *Engine) ValidateTables() *dx.Report {
	report := e.store.Validate(e.options.MaxIssues)
	if report.HasErrors() {
		e.logger.Warn().
			Int("errors", report.ErrorCount()).
			Int("rows", report.RowsChecked).
			Msg("rule table validation found errors")
	}
	return report
}

func (e *Engine) record(family dx.Family, start time.Time, diag *dx.Diagnosis, err error) {
	if err != nil {
		return
	}
	e.metrics.RecordResolution(family, time.Since(start), diag != nil)
}
