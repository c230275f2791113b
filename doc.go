// Package dentaldx provides deterministic resolution of standardized
// dental diagnosis codes from structured clinical observations.
//
// A clinician records decay characteristics, pulp-test results, or
// periodontal pocket measurements for a tooth; the engine matches the
// normalized observation against a table of candidate rules and returns
// the single best-matching diagnosis code, or no match at all. No match
// is a normal clinical outcome (healthy tissue), not an error.
//
// # Quick Start
//
//	import (
//	    dx "github.com/godental/diagnostics"
//	    "github.com/godental/diagnostics/engine"
//	    "github.com/godental/diagnostics/tables"
//	)
//
//	store, err := tables.DefaultStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng := engine.New(store)
//
//	diag, err := eng.ResolveCaries(ctx, dx.CariesObservation{
//	    Aspect:         "Occlusal",
//	    Depth:          dx.DepthEnamel,
//	    Cavitation:     dx.Cavitated,
//	    Classification: dx.ClassC1,
//	})
//	if diag != nil {
//	    fmt.Println(diag.Primary().Code)
//	}
//
// # Architecture
//
// The engine is a thin orchestrator over three pure resolvers:
//
//   - Caries: exact match on (aspect, depth, cavitation, classification)
//     with a degraded any-aspect fallback pass
//   - Endodontic: combined lookup over (cold, percussion, palpation) with
//     a single-signal heuristic fallback, plus independent heat and
//     electrical evaluation
//   - Periodontal: per-site aggregation (max probing depth, extremal
//     gingival margin, max clinical attachment level) followed by a
//     multi-criteria table scan
//
// Rule tables are immutable once built. An explicit ruletable.Store
// publishes them once and may be shared across concurrent resolution
// calls without locking. Numeric criteria use a small range grammar
// ("4-5", ">6", "≥30%", "-1 to -2", "5+", "Any") parsed by the rangeexpr
// package; malformed criteria fail closed and are surfaced by a
// load-time validation pass so table curators can fix them.
//
// Resolved codes can be surfaced to FHIR consumers as R4
// CodeableConcepts via ToCodeableConcept.
package dentaldx
