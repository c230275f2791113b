package dentaldx

import "github.com/gofhir/fhir/r4"

// ICD10CMSystem is the canonical system URI for ICD-10-CM codes, which
// the shipped rule tables resolve to.
const ICD10CMSystem = "http://hl7.org/fhir/sid/icd-10-cm"

// ToCoding converts one diagnosis code to an R4 Coding against the
// ICD-10-CM system.
func (c Code) ToCoding() r4.Coding {
	code := c.Code
	display := c.Description
	system := ICD10CMSystem
	coding := r4.Coding{
		System: &system,
		Code:   &code,
	}
	if display != "" {
		coding.Display = &display
	}
	return coding
}

// ToCodeableConcept converts the diagnosis to an R4 CodeableConcept.
// Multi-code rows (e.g. necrosis with chronic apical periodontitis) map
// onto the concept's coding list; the primary description becomes the
// concept text. Returns nil for the NoMatch diagnosis.
func (d *Diagnosis) ToCodeableConcept() *r4.CodeableConcept {
	if d == nil || len(d.Codes) == 0 {
		return nil
	}
	cc := &r4.CodeableConcept{
		Coding: make([]r4.Coding, 0, len(d.Codes)),
	}
	for _, c := range d.Codes {
		cc.Coding = append(cc.Coding, c.ToCoding())
	}
	if text := d.Primary().Description; text != "" {
		cc.Text = &text
	}
	return cc
}

// CodeSystemFromCodes builds an R4 CodeSystem from a set of diagnosis
// codes, for export to terminology consumers. Codes are deduplicated by
// code value; the first description wins.
func CodeSystemFromCodes(url string, codes []Code) *r4.CodeSystem {
	seen := make(map[string]bool, len(codes))
	concepts := make([]r4.CodeSystemConcept, 0, len(codes))
	for i := range codes {
		c := codes[i]
		if c.Code == "" || seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		code := c.Code
		concept := r4.CodeSystemConcept{Code: &code}
		if c.Description != "" {
			display := c.Description
			concept.Display = &display
		}
		concepts = append(concepts, concept)
	}
	return &r4.CodeSystem{
		Url:     &url,
		Concept: concepts,
	}
}
