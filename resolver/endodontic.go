package resolver

import (
	"fmt"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

// Diagnosis codes used by the heuristic tier and the electrical bucket
// function. The table rows carry their own codes; these exist for the
// signals the tables do not cover.
var (
	codeReversiblePulpitis   = dx.Code{Code: "K04.01", Description: "Reversible pulpitis"}
	codeIrreversiblePulpitis = dx.Code{Code: "K04.02", Description: "Irreversible pulpitis"}
	codeNecrosis             = dx.Code{Code: "K04.1", Description: "Necrosis of pulp"}
	codeAcuteApical          = dx.Code{Code: "K04.4", Description: "Acute apical periodontitis of pulpal origin"}
)

// ResolveEndodontic resolves the combined pulp/periapical diagnosis
// from the current cold, percussion and palpation results. The lookup
// key is the four-tuple (cold result, cold detail, percussion result,
// palpation result); rows may use the wildcard for percussion and
// palpation but bind cold and its detail exactly.
//
// A positive cold result without its qualifying detail is a valid but
// under-specified observation: the function returns (nil, nil) rather
// than guessing, preserving the clinical rule that a positive cold test
// is inconclusive on its own.
func ResolveEndodontic(table *ruletable.Table, cold, percussion, palpation dx.EndodonticTest) (*dx.Diagnosis, error) {
	if table == nil {
		return nil, fmt.Errorf("endodontic resolution: nil rule table")
	}
	if table.Family() != dx.FamilyEndodontic {
		return nil, fmt.Errorf("endodontic resolution: table holds family %s", table.Family())
	}
	if incompleteThermal(cold) {
		return nil, nil
	}

	values := ruletable.Values{
		dx.CriterionCold:       ruletable.StringValue(cold.Result),
		dx.CriterionColdDetail: ruletable.StringValue(cold.Detail),
		dx.CriterionPercussion: ruletable.StringValue(percussion.Result),
		dx.CriterionPalpation:  ruletable.StringValue(palpation.Result),
	}
	if row, ok := table.Match(values); ok {
		return row.Diagnosis(), nil
	}
	return nil, nil
}

// ResolveHeat resolves the independent heat test. It mirrors the cold
// test's two-level (result, positive-detail) structure with its own,
// smaller table.
func ResolveHeat(table *ruletable.Table, heat dx.EndodonticTest) (*dx.Diagnosis, error) {
	if table == nil {
		return nil, fmt.Errorf("heat resolution: nil rule table")
	}
	if table.Family() != dx.FamilyHeat {
		return nil, fmt.Errorf("heat resolution: table holds family %s", table.Family())
	}
	if incompleteThermal(heat) {
		return nil, nil
	}

	values := ruletable.Values{
		dx.CriterionHeatResult: ruletable.StringValue(heat.Result),
		dx.CriterionHeatDetail: ruletable.StringValue(heat.Detail),
	}
	if row, ok := table.Match(values); ok {
		return row.Diagnosis(), nil
	}
	return nil, nil
}

// ResolveElectricity maps a 1-10 electrical pulp test reading directly
// to a diagnosis:
//
//	1-3   hyperresponsive, irreversible pulpitis
//	4-6   normal response, no code
//	7-9   hyporesponsive, reversible pulpitis
//	10    no response, pulp necrosis
//
// The bucketing is fixed clinical semantics, so it is a function rather
// than a table scan. Readings outside 1..10 are invalid input.
func ResolveElectricity(reading int) (*dx.Diagnosis, error) {
	if reading < 1 || reading > 10 {
		return nil, &dx.FieldError{
			Field:  "electricity.reading",
			Reason: fmt.Sprintf("value %d outside 1..10", reading),
		}
	}
	switch {
	case reading <= 3:
		return dx.NewDiagnosis(codeIrreversiblePulpitis), nil
	case reading <= 6:
		return nil, nil
	case reading <= 9:
		return dx.NewDiagnosis(codeReversiblePulpitis), nil
	default:
		return dx.NewDiagnosis(codeNecrosis), nil
	}
}

// HeuristicDiagnosis derives a single-signal diagnosis from one test in
// isolation. The combined table is incomplete by design, so this tier
// answers updates the table has no row for:
//
//	cold positive, lingering pain     → irreversible pulpitis
//	cold positive, pain on stimulus   → reversible pulpitis
//	cold negative                     → pulp necrosis
//	percussion or palpation painful   → acute apical periodontitis
//
// Everything else yields nil.
func HeuristicDiagnosis(kind dx.TestKind, test dx.EndodonticTest) *dx.Diagnosis {
	switch kind {
	case dx.TestCold:
		if test.Result == dx.ResultNegative {
			return dx.NewDiagnosis(codeNecrosis)
		}
		if test.Result == dx.ResultPositive {
			switch test.Detail {
			case dx.DetailPainLingering, dx.DetailPainSpontaneous:
				return dx.NewDiagnosis(codeIrreversiblePulpitis)
			case dx.DetailPainStimulus:
				return dx.NewDiagnosis(codeReversiblePulpitis)
			}
		}
	case dx.TestPercussion, dx.TestPalpation:
		if test.Result == dx.ResultPainful {
			return dx.NewDiagnosis(codeAcuteApical)
		}
	}
	return nil
}

// incompleteThermal reports the positive-without-detail state.
func incompleteThermal(test dx.EndodonticTest) bool {
	return test.Result == dx.ResultPositive && test.Detail == ""
}
