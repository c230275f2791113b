// Package resolver implements the pure resolution functions: caries,
// endodontic (combined, heat, electrical) and periodontal, plus the
// recalculation policy that keeps a tooth's stored endodontic
// diagnoses consistent as test results accumulate.
//
// All functions are synchronous, reentrant and side-effect free apart
// from the recalculation policy's explicit write-back; the only shared
// state they read is the immutable rule table they are handed.
package resolver

import (
	"fmt"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

// ResolveCaries resolves a decay diagnosis from a structured caries
// observation in two passes: an exact match on the full tuple, then a
// degraded pass with the aspect forced to the wildcard. Depth,
// cavitation and classification primarily determine the diagnosis;
// aspect refines it when the table bothers to distinguish surfaces.
//
// (nil, nil) is the expected no-match outcome. Applying a domain
// default such as "caries, unspecified" is the caller's decision.
func ResolveCaries(table *ruletable.Table, obs dx.CariesObservation) (*dx.Diagnosis, error) {
	if table == nil {
		return nil, fmt.Errorf("caries resolution: nil rule table")
	}
	if table.Family() != dx.FamilyCaries {
		return nil, fmt.Errorf("caries resolution: table holds family %s", table.Family())
	}

	values := ruletable.Values{
		dx.CriterionAspect:         ruletable.StringValue(obs.Aspect),
		dx.CriterionDepth:          ruletable.StringValue(string(obs.Depth)),
		dx.CriterionCavitation:     ruletable.StringValue(string(obs.Cavitation)),
		dx.CriterionClassification: ruletable.StringValue(string(obs.Classification)),
	}

	if row, ok := table.Match(values); ok {
		return row.Diagnosis(), nil
	}

	// Degraded pass: surface-agnostic rows keep the table compact.
	values[dx.CriterionAspect] = ruletable.StringValue(dx.AspectAny)
	if row, ok := table.Match(values); ok {
		return row.Diagnosis(), nil
	}
	return nil, nil
}
