package dentaldx

import "strings"

// Code is a single standardized diagnosis code with its human-readable
// description (e.g. ICD-10-CM "K02.61", "Dental caries on smooth surface
// limited to enamel").
type Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Diagnosis is the outcome of a successful rule resolution. Most rules
// yield a single code; a few combination rules (e.g. pulp necrosis with
// chronic apical periodontitis) yield more than one.
//
// A nil *Diagnosis is the NoMatch outcome: no rule row's criteria were
// fully satisfied. NoMatch is expected and non-exceptional; callers that
// want a domain default (e.g. "caries, unspecified") apply it themselves.
type Diagnosis struct {
	Codes []Code `json:"codes"`
}

// NewDiagnosis builds a Diagnosis from one or more codes.
func NewDiagnosis(codes ...Code) *Diagnosis {
	if len(codes) == 0 {
		return nil
	}
	return &Diagnosis{Codes: codes}
}

// Primary returns the first (primary) code. A Diagnosis always carries
// at least one code; a zero Diagnosis returns a zero Code.
func (d *Diagnosis) Primary() Code {
	if d == nil || len(d.Codes) == 0 {
		return Code{}
	}
	return d.Codes[0]
}

// CodeStrings returns the bare code values in order.
func (d *Diagnosis) CodeStrings() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.Codes))
	for i, c := range d.Codes {
		out[i] = c.Code
	}
	return out
}

// HasCode reports whether the diagnosis carries the given code value.
func (d *Diagnosis) HasCode(code string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Codes {
		if strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

// Equal reports whether two diagnoses carry the same codes in the same order.
func (d *Diagnosis) Equal(other *Diagnosis) bool {
	if d == nil || other == nil {
		return d == other
	}
	if len(d.Codes) != len(other.Codes) {
		return false
	}
	for i := range d.Codes {
		if d.Codes[i] != other.Codes[i] {
			return false
		}
	}
	return true
}

// String returns a compact human-readable form, e.g. "K04.1, K04.5".
func (d *Diagnosis) String() string {
	if d == nil {
		return "no match"
	}
	return strings.Join(d.CodeStrings(), ", ")
}

// Clone returns a deep copy.
func (d *Diagnosis) Clone() *Diagnosis {
	if d == nil {
		return nil
	}
	codes := make([]Code, len(d.Codes))
	copy(codes, d.Codes)
	return &Diagnosis{Codes: codes}
}
