package resolver

import (
	"testing"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

func buildCariesTable(t *testing.T) *ruletable.Table {
	t.Helper()
	table, err := ruletable.New(dx.FamilyCaries, []ruletable.RowSpec{
		{
			Criteria: map[string]string{
				dx.CriterionAspect:         "Occlusal",
				dx.CriterionDepth:          "Enamel",
				dx.CriterionCavitation:     "Cavitated",
				dx.CriterionClassification: "C1",
			},
			Code: "K02.61",
		},
		{
			Criteria: map[string]string{
				dx.CriterionAspect:         "Any",
				dx.CriterionDepth:          "Dentin",
				dx.CriterionCavitation:     "Cavitated",
				dx.CriterionClassification: "C2",
			},
			Code: "K02.62",
		},
		{
			Criteria: map[string]string{dx.CriterionClassification: "C4"},
			Code:     "K02.5",
		},
	}, nil)
	if err != nil {
		t.Fatalf("build caries table: %v", err)
	}
	return table
}

func TestResolveCaries_ExactMatch(t *testing.T) {
	table := buildCariesTable(t)

	diag, err := ResolveCaries(table, dx.CariesObservation{
		Aspect:         "Occlusal",
		Depth:          dx.DepthEnamel,
		Cavitation:     dx.Cavitated,
		Classification: dx.ClassC1,
	})
	if err != nil {
		t.Fatalf("ResolveCaries: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K02.61" {
		t.Errorf("diagnosis = %s; want K02.61", diag)
	}
}

func TestResolveCaries_SurfaceAgnosticRow(t *testing.T) {
	table := buildCariesTable(t)

	// The C2 row leaves the aspect open; any observed surface matches.
	for _, aspect := range []string{"Buccal", "Mesial", "Occlusal"} {
		diag, err := ResolveCaries(table, dx.CariesObservation{
			Aspect:         aspect,
			Depth:          dx.DepthDentin,
			Cavitation:     dx.Cavitated,
			Classification: dx.ClassC2,
		})
		if err != nil {
			t.Fatalf("ResolveCaries(%s): %v", aspect, err)
		}
		if diag == nil || diag.Primary().Code != "K02.62" {
			t.Errorf("aspect %s: diagnosis = %s; want K02.62", aspect, diag)
		}
	}
}

func TestResolveCaries_PulpExposureShortCircuit(t *testing.T) {
	table := buildCariesTable(t)

	// A C4 observation reaches the classification-only row regardless of
	// the remaining tuple.
	diag, err := ResolveCaries(table, dx.CariesObservation{
		Aspect:         "Lingual",
		Depth:          dx.DepthRoot,
		Cavitation:     dx.NotCavitated,
		Classification: dx.ClassC4,
	})
	if err != nil {
		t.Fatalf("ResolveCaries: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K02.5" {
		t.Errorf("diagnosis = %s; want K02.5", diag)
	}
}

func TestResolveCaries_NoMatch(t *testing.T) {
	table := buildCariesTable(t)

	diag, err := ResolveCaries(table, dx.CariesObservation{
		Aspect:         "Occlusal",
		Depth:          dx.DepthRoot,
		Cavitation:     dx.NotCavitated,
		Classification: dx.ClassC3,
	})
	if err != nil {
		t.Fatalf("ResolveCaries: %v", err)
	}
	if diag != nil {
		t.Errorf("diagnosis = %s; want no match (nil)", diag)
	}
}

func TestResolveCaries_TableErrors(t *testing.T) {
	if _, err := ResolveCaries(nil, dx.CariesObservation{}); err == nil {
		t.Error("nil table = nil error; want error")
	}

	endo, err := ruletable.New(dx.FamilyEndodontic, []ruletable.RowSpec{
		{Criteria: map[string]string{dx.CriterionCold: "negative"}, Code: "K04.1"},
	}, nil)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	if _, err := ResolveCaries(endo, dx.CariesObservation{}); err == nil {
		t.Error("wrong-family table = nil error; want error")
	}
}
