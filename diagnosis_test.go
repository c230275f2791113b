package dentaldx

import "testing"

func TestNewDiagnosis(t *testing.T) {
	if d := NewDiagnosis(); d != nil {
		t.Errorf("NewDiagnosis() = %v; want nil", d)
	}

	d := NewDiagnosis(Code{Code: "K04.1", Description: "Necrosis of pulp"})
	if d == nil || len(d.Codes) != 1 {
		t.Fatalf("NewDiagnosis(one code) = %v; want one code", d)
	}
}

func TestDiagnosis_Primary(t *testing.T) {
	d := NewDiagnosis(
		Code{Code: "K04.1", Description: "Necrosis of pulp"},
		Code{Code: "K04.5", Description: "Chronic apical periodontitis"},
	)
	if got := d.Primary().Code; got != "K04.1" {
		t.Errorf("Primary().Code = %q; want K04.1", got)
	}

	var nilDiag *Diagnosis
	if got := nilDiag.Primary(); got != (Code{}) {
		t.Errorf("nil Primary() = %v; want zero Code", got)
	}
	if got := (&Diagnosis{}).Primary(); got != (Code{}) {
		t.Errorf("empty Primary() = %v; want zero Code", got)
	}
}

func TestDiagnosis_HasCode(t *testing.T) {
	d := NewDiagnosis(Code{Code: "K02.61"})

	if !d.HasCode("K02.61") {
		t.Error("HasCode(K02.61) = false; want true")
	}
	if !d.HasCode("k02.61") {
		t.Error("HasCode is case-sensitive; want case-insensitive match")
	}
	if d.HasCode("K02.62") {
		t.Error("HasCode(K02.62) = true; want false")
	}

	var nilDiag *Diagnosis
	if nilDiag.HasCode("K02.61") {
		t.Error("nil HasCode = true; want false")
	}
}

func TestDiagnosis_Equal(t *testing.T) {
	a := NewDiagnosis(Code{Code: "K04.1"}, Code{Code: "K04.5"})
	b := NewDiagnosis(Code{Code: "K04.1"}, Code{Code: "K04.5"})
	c := NewDiagnosis(Code{Code: "K04.5"}, Code{Code: "K04.1"})
	var nilDiag *Diagnosis

	if !a.Equal(b) {
		t.Error("identical diagnoses not Equal")
	}
	if a.Equal(c) {
		t.Error("code order ignored; want order-sensitive Equal")
	}
	if a.Equal(nilDiag) || nilDiag.Equal(a) {
		t.Error("nil compared equal to non-nil")
	}
	if !nilDiag.Equal(nil) {
		t.Error("nil.Equal(nil) = false; want true")
	}
}

func TestDiagnosis_String(t *testing.T) {
	var nilDiag *Diagnosis
	if got := nilDiag.String(); got != "no match" {
		t.Errorf("nil String() = %q; want \"no match\"", got)
	}

	d := NewDiagnosis(Code{Code: "K04.1"}, Code{Code: "K04.5"})
	if got := d.String(); got != "K04.1, K04.5" {
		t.Errorf("String() = %q; want \"K04.1, K04.5\"", got)
	}
}

func TestDiagnosis_Clone(t *testing.T) {
	var nilDiag *Diagnosis
	if nilDiag.Clone() != nil {
		t.Error("nil Clone() != nil")
	}

	d := NewDiagnosis(Code{Code: "K04.1"}, Code{Code: "K04.5"})
	clone := d.Clone()
	if !d.Equal(clone) {
		t.Fatal("clone differs from original")
	}
	clone.Codes[0].Code = "K04.01"
	if d.Codes[0].Code != "K04.1" {
		t.Error("mutating the clone changed the original")
	}
}
