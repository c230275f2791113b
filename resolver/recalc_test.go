package resolver

import (
	"testing"

	dx "github.com/godental/diagnostics"
)

func TestRecalculation_CombinedMatchOverwritesGroup(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)
	chart := ToothChart{}

	// Record percussion and palpation first; neither alone matches the
	// combined table, so each gets its heuristic (here nil).
	if _, err := policy.Update(chart, dx.TestPercussion, dx.EndodonticTest{Result: dx.ResultNotPainful}); err != nil {
		t.Fatalf("Update percussion: %v", err)
	}
	if _, err := policy.Update(chart, dx.TestPalpation, dx.EndodonticTest{Result: dx.ResultNotPainful}); err != nil {
		t.Fatalf("Update palpation: %v", err)
	}

	// The cold result completes the tuple; the combined match is written
	// to all three entries.
	diag, err := policy.Update(chart, dx.TestCold, dx.EndodonticTest{
		Result: dx.ResultPositive,
		Detail: dx.DetailPainLingering,
	})
	if err != nil {
		t.Fatalf("Update cold: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K04.02" {
		t.Fatalf("diagnosis = %s; want K04.02", diag)
	}

	for _, kind := range []dx.TestKind{dx.TestCold, dx.TestPercussion, dx.TestPalpation} {
		entry := chart[kind]
		if entry == nil || entry.Diagnosis == nil {
			t.Fatalf("%s entry missing diagnosis after combined match", kind)
		}
		if entry.Diagnosis.Primary().Code != "K04.02" {
			t.Errorf("%s diagnosis = %s; want K04.02", kind, entry.Diagnosis)
		}
	}

	// Write-back stores copies, not shared pointers.
	if chart[dx.TestCold].Diagnosis == chart[dx.TestPercussion].Diagnosis {
		t.Error("group entries share one Diagnosis pointer")
	}
}

func TestRecalculation_HeuristicOnNoMatch(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)
	chart := ToothChart{}

	// (negative, not_painful absent, absent) has no combined row; the
	// cold-only heuristic answers.
	diag, err := policy.Update(chart, dx.TestCold, dx.EndodonticTest{Result: dx.ResultNegative})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K04.1" {
		t.Fatalf("diagnosis = %s; want heuristic K04.1", diag)
	}

	// Only the updated entry is rewritten.
	if chart[dx.TestCold].Diagnosis == nil {
		t.Error("cold entry missing heuristic diagnosis")
	}
	if _, ok := chart[dx.TestPercussion]; ok {
		t.Error("heuristic update created an unrelated entry")
	}
}

func TestRecalculation_HeuristicDisabled(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), false)
	chart := ToothChart{}

	diag, err := policy.Update(chart, dx.TestCold, dx.EndodonticTest{Result: dx.ResultNegative})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diag != nil {
		t.Errorf("diagnosis = %s; want nil with heuristic disabled", diag)
	}
	if chart[dx.TestCold].Diagnosis != nil {
		t.Error("entry carries a diagnosis with heuristic disabled")
	}
}

func TestRecalculation_TableBeatsHeuristic(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)
	chart := ToothChart{
		dx.TestPercussion: {Test: dx.EndodonticTest{Result: dx.ResultPainful}},
		dx.TestPalpation:  {Test: dx.EndodonticTest{Result: dx.ResultNotPainful}},
	}

	// The combined row (negative, painful, not_painful) exists, so the
	// table answer wins over the cold-negative heuristic.
	diag, err := policy.Update(chart, dx.TestCold, dx.EndodonticTest{Result: dx.ResultNegative})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diag == nil || !diag.HasCode("K04.5") {
		t.Errorf("diagnosis = %s; want the combined-table row with K04.5", diag)
	}
}

func TestRecalculation_HeatIsIndependent(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)
	chart := ToothChart{
		dx.TestCold: {
			Test:      dx.EndodonticTest{Result: dx.ResultNegative},
			Diagnosis: dx.NewDiagnosis(dx.Code{Code: "K04.1"}),
		},
	}

	diag, err := policy.Update(chart, dx.TestHeat, dx.EndodonticTest{
		Result: dx.ResultPositive,
		Detail: dx.DetailPainStimulus,
	})
	if err != nil {
		t.Fatalf("Update heat: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K04.01" {
		t.Errorf("heat diagnosis = %s; want K04.01", diag)
	}

	// The cold entry is untouched by a heat update.
	if got := chart[dx.TestCold].Diagnosis.Primary().Code; got != "K04.1" {
		t.Errorf("cold diagnosis after heat update = %s; want K04.1", got)
	}
}

func TestRecalculation_Electricity(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)
	chart := ToothChart{}

	diag, err := policy.UpdateElectricity(chart, 10)
	if err != nil {
		t.Fatalf("UpdateElectricity: %v", err)
	}
	if diag == nil || diag.Primary().Code != "K04.1" {
		t.Errorf("diagnosis = %s; want K04.1", diag)
	}
	if chart[dx.TestElectricity] == nil {
		t.Error("electricity entry not recorded")
	}

	// Normal-range readings record the entry with no diagnosis.
	diag, err = policy.UpdateElectricity(chart, 5)
	if err != nil {
		t.Fatalf("UpdateElectricity(5): %v", err)
	}
	if diag != nil {
		t.Errorf("diagnosis = %s; want nil for normal reading", diag)
	}
	if chart[dx.TestElectricity].Diagnosis != nil {
		t.Error("normal reading left a stale diagnosis")
	}

	if _, err := policy.UpdateElectricity(chart, 0); err == nil {
		t.Error("reading 0 = nil error; want error")
	}
}

func TestRecalculation_ElectricityRejectedByUpdate(t *testing.T) {
	policy := NewRecalculationPolicy(buildEndodonticTable(t), buildHeatTable(t), true)

	if _, err := policy.Update(ToothChart{}, dx.TestElectricity, dx.EndodonticTest{Result: "7"}); err == nil {
		t.Error("Update with electricity kind = nil error; want error")
	}
	if _, err := policy.Update(nil, dx.TestCold, dx.EndodonticTest{}); err == nil {
		t.Error("nil chart = nil error; want error")
	}
}

func TestToothChart_Observation(t *testing.T) {
	chart := ToothChart{
		dx.TestCold:       {Test: dx.EndodonticTest{Result: dx.ResultNegative}},
		dx.TestPercussion: nil,
	}

	obs := chart.Observation()
	if obs.Test(dx.TestCold).Result != dx.ResultNegative {
		t.Error("Observation dropped the cold result")
	}
	if _, ok := obs[dx.TestPercussion]; ok {
		t.Error("Observation included a nil entry")
	}
}
