package resolver

import (
	"fmt"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

// ComputeAggregates validates the observation and derives the
// whole-tooth measures the periodontal table is evaluated against.
// defaultPct replaces an unknown extent of disease (signalled by a
// negative PercentTeethAffected).
func ComputeAggregates(obs dx.PeriodontalObservation, defaultPct float64) (dx.Aggregates, error) {
	if len(obs.Sites) == 0 {
		return dx.Aggregates{}, &dx.FieldError{Field: "sites", Reason: "no site measurements"}
	}
	if err := obs.Validate(); err != nil {
		return dx.Aggregates{}, err
	}

	agg := dx.Aggregates{
		MaxProbingDepth:   0,
		MinGingivalMargin: dx.MaxGingivalMargin,
		PatientAge:        obs.PatientAge,
		PercentTeeth:      obs.PercentTeethAffected,
	}
	if agg.PercentTeeth < 0 {
		agg.PercentTeeth = defaultPct
	}

	for _, site := range dx.Sites() {
		m, ok := obs.Sites[site]
		if !ok {
			continue
		}
		if m.ProbingDepth > agg.MaxProbingDepth {
			agg.MaxProbingDepth = m.ProbingDepth
		}
		if m.GingivalMargin < agg.MinGingivalMargin {
			agg.MinGingivalMargin = m.GingivalMargin
		}
		if cal := m.CAL(); cal > agg.MaxCAL {
			agg.MaxCAL = cal
		}
		agg.AnyBleeding = agg.AnyBleeding || m.Bleeding
		agg.AnyPlaque = agg.AnyPlaque || m.Plaque
		agg.AnyPus = agg.AnyPus || m.Pus
	}
	return agg, nil
}

// ResolvePeriodontal derives the tooth's aggregate measures and scans
// the periodontal table for the first satisfying row. The healthy case
// is simply not in the table: (nil, nil) means no periodontal disease
// code applies, and the caller decides whether that surfaces as a
// "healthy" default.
func ResolvePeriodontal(table *ruletable.Table, obs dx.PeriodontalObservation, defaultPct float64) (*dx.Diagnosis, error) {
	agg, err := ComputeAggregates(obs, defaultPct)
	if err != nil {
		return nil, err
	}
	return ResolveAggregates(table, agg)
}

// ResolveAggregates matches already-derived aggregates against the
// table. Split out so reporting code that displays the aggregates does
// not compute them twice.
func ResolveAggregates(table *ruletable.Table, agg dx.Aggregates) (*dx.Diagnosis, error) {
	if table == nil {
		return nil, fmt.Errorf("periodontal resolution: nil rule table")
	}
	if table.Family() != dx.FamilyPeriodontal {
		return nil, fmt.Errorf("periodontal resolution: table holds family %s", table.Family())
	}

	values := ruletable.Values{
		dx.CriterionProbingDepth: ruletable.NumberValue(float64(agg.MaxProbingDepth)),
		dx.CriterionCAL:          ruletable.NumberValue(float64(agg.MaxCAL)),
		dx.CriterionBOP:          ruletable.StringValue(yesNo(agg.AnyBleeding)),
		dx.CriterionPlaque:       ruletable.StringValue(yesNo(agg.AnyPlaque)),
		dx.CriterionAge:          ruletable.NumberValue(float64(agg.PatientAge)),
		dx.CriterionTeethPercent: ruletable.NumberValue(agg.PercentTeeth),
	}
	if row, ok := table.Match(values); ok {
		return row.Diagnosis(), nil
	}
	return nil, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
