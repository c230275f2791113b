package resolver

import (
	"fmt"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

// TestEntry is one stored test result for a tooth together with the
// diagnosis currently recorded against it.
type TestEntry struct {
	Test      dx.EndodonticTest `json:"test"`
	Diagnosis *dx.Diagnosis     `json:"diagnosis,omitempty"`
}

// ToothChart is the accumulated endodontic record for one tooth: one
// entry per performed test kind.
type ToothChart map[dx.TestKind]*TestEntry

// Observation extracts the current test results from the chart.
func (c ToothChart) Observation() dx.EndodonticObservation {
	obs := make(dx.EndodonticObservation, len(c))
	for kind, entry := range c {
		if entry != nil {
			obs[kind] = entry.Test
		}
	}
	return obs
}

func (c ToothChart) test(kind dx.TestKind) dx.EndodonticTest {
	if entry := c[kind]; entry != nil {
		return entry.Test
	}
	return dx.EndodonticTest{}
}

// RecalculationPolicy governs when and how the stored endodontic
// diagnosis is recomputed. Every mutating update to a contributing test
// re-runs the combined lookup with the current values of all three
// combined signals, not just the one that changed; a combined match is
// written back to every combined-test entry of the tooth. When the
// combined table has no row (it is incomplete by design), the
// single-signal heuristic keyed on the just-updated test answers
// instead, and only that entry is rewritten.
//
// The table always takes precedence over the heuristic: the heuristic
// fires only on a combined no-match.
type RecalculationPolicy struct {
	combined  *ruletable.Table
	heat      *ruletable.Table
	heuristic bool
}

// NewRecalculationPolicy builds a policy over the endodontic combined
// table and the independent heat table. heuristicFallback enables the
// single-signal tier.
func NewRecalculationPolicy(combined, heat *ruletable.Table, heuristicFallback bool) *RecalculationPolicy {
	return &RecalculationPolicy{combined: combined, heat: heat, heuristic: heuristicFallback}
}

// Update records a new result for one test and recomputes the stored
// diagnoses per the policy. It returns the diagnosis written to the
// updated entry, which is nil when nothing is derivable.
func (p *RecalculationPolicy) Update(chart ToothChart, kind dx.TestKind, test dx.EndodonticTest) (*dx.Diagnosis, error) {
	if chart == nil {
		return nil, fmt.Errorf("recalculation: nil tooth chart")
	}
	if kind == dx.TestElectricity {
		return nil, fmt.Errorf("recalculation: electrical readings go through UpdateElectricity")
	}

	entry, ok := chart[kind]
	if !ok {
		entry = &TestEntry{}
		chart[kind] = entry
	}
	entry.Test = test

	if kind == dx.TestHeat {
		// Heat never participates in the combined group.
		diag, err := ResolveHeat(p.heat, test)
		if err != nil {
			return nil, err
		}
		entry.Diagnosis = diag
		return diag, nil
	}

	diag, err := ResolveEndodontic(
		p.combined,
		chart.test(dx.TestCold),
		chart.test(dx.TestPercussion),
		chart.test(dx.TestPalpation),
	)
	if err != nil {
		return nil, err
	}
	if diag != nil {
		// Combined match: overwrite every combined-test entry so the
		// tooth's group reads consistently.
		for _, k := range []dx.TestKind{dx.TestCold, dx.TestPercussion, dx.TestPalpation} {
			if e, ok := chart[k]; ok && e != nil {
				e.Diagnosis = diag.Clone()
			}
		}
		return diag, nil
	}

	if !p.heuristic {
		entry.Diagnosis = nil
		return nil, nil
	}
	heuristic := HeuristicDiagnosis(kind, test)
	entry.Diagnosis = heuristic
	return heuristic, nil
}

// UpdateElectricity records an electrical reading and resolves it
// independently; it never triggers group recalculation.
func (p *RecalculationPolicy) UpdateElectricity(chart ToothChart, reading int) (*dx.Diagnosis, error) {
	if chart == nil {
		return nil, fmt.Errorf("recalculation: nil tooth chart")
	}
	diag, err := ResolveElectricity(reading)
	if err != nil {
		return nil, err
	}
	entry, ok := chart[dx.TestElectricity]
	if !ok {
		entry = &TestEntry{}
		chart[dx.TestElectricity] = entry
	}
	entry.Test = dx.EndodonticTest{Result: fmt.Sprintf("%d", reading)}
	entry.Diagnosis = diag
	return diag, nil
}
