package dentaldx

import "fmt"

// AspectAny is the wildcard aspect literal used by the caries fallback
// pass and by rule rows that apply to every tooth surface.
const AspectAny = "any"

// Depth is the radiographic/clinical depth of a carious lesion.
type Depth string

// Lesion depths.
const (
	DepthEnamel Depth = "Enamel"
	DepthDentin Depth = "Dentin"
	DepthRoot   Depth = "Root"
)

// Cavitation describes whether a lesion surface has broken down.
type Cavitation string

// Cavitation states.
const (
	Cavitated    Cavitation = "Cavitated"
	NotCavitated Cavitation = "NotCavitated"
)

// Classification is the clinical caries classification.
type Classification string

// Caries classifications. ClassC4 indicates pulp exposure.
const (
	ClassC1 Classification = "C1"
	ClassC2 Classification = "C2"
	ClassC3 Classification = "C3"
	ClassC4 Classification = "C4"
)

// CariesObservation is a single structured decay observation for one
// tooth surface. Aspect is a free-text surface name ("Buccal",
// "Occlusal", ...) or the wildcard AspectAny.
type CariesObservation struct {
	Aspect         string         `json:"aspect"`
	Depth          Depth          `json:"depth"`
	Cavitation     Cavitation     `json:"cavitation"`
	Classification Classification `json:"classification"`
}

// TestKind identifies one of the five endodontic tests.
type TestKind string

// Endodontic test kinds. Only cold, percussion and palpation
// participate in the combined-diagnosis table; heat and electricity are
// evaluated independently.
const (
	TestCold        TestKind = "cold"
	TestPercussion  TestKind = "percussion"
	TestPalpation   TestKind = "palpation"
	TestHeat        TestKind = "heat"
	TestElectricity TestKind = "electricity"
)

// IsCombined reports whether the test participates in the combined
// three-signal diagnosis lookup.
func (k TestKind) IsCombined() bool {
	return k == TestCold || k == TestPercussion || k == TestPalpation
}

// Normalized result labels for thermal tests.
const (
	ResultPositive = "positive"
	ResultNegative = "negative"
)

// Normalized result labels for percussion and palpation.
const (
	ResultNotPainful = "not_painful"
	ResultUnpleasant = "unpleasant"
	ResultPainful    = "painful"
)

// Qualifying detail values for a positive cold or heat test. A positive
// thermal result without one of these details is a valid but
// under-specified observation: no code is derivable from it.
const (
	DetailNoPain          = "no_pain"
	DetailPainStimulus    = "pain_stimulus"
	DetailPainLingering   = "pain_lingering"
	DetailPainSpontaneous = "pain_spontaneous"
)

// ThermalDetails lists the fixed detail enumeration for positive
// cold/heat results.
func ThermalDetails() []string {
	return []string{DetailNoPain, DetailPainStimulus, DetailPainLingering, DetailPainSpontaneous}
}

// EndodonticTest is one recorded test result for a tooth. An empty
// Result means the test was not performed (or is not applicable).
type EndodonticTest struct {
	Result string `json:"result"`
	Detail string `json:"detail,omitempty"`
}

// Performed reports whether the test carries a result.
func (t EndodonticTest) Performed() bool {
	return t.Result != ""
}

// EndodonticObservation accumulates per-tooth test results across
// independently-timed user actions.
type EndodonticObservation map[TestKind]EndodonticTest

// Test returns the recorded result for a kind, or a zero test.
func (o EndodonticObservation) Test(kind TestKind) EndodonticTest {
	return o[kind]
}

// Site names one of the six fixed periodontal measurement sites.
type Site string

// The six per-tooth measurement sites.
const (
	SiteMesioBuccal  Site = "mesio-buccal"
	SiteBuccal       Site = "buccal"
	SiteDistoBuccal  Site = "disto-buccal"
	SiteMesioLingual Site = "mesio-lingual"
	SiteLingual      Site = "lingual"
	SiteDistoLingual Site = "disto-lingual"
)

// Sites returns the six site names in a stable order.
func Sites() []Site {
	return []Site{SiteMesioBuccal, SiteBuccal, SiteDistoBuccal, SiteMesioLingual, SiteLingual, SiteDistoLingual}
}

// Probing-depth and gingival-margin sentinel encodings. Readings beyond
// the measurable scale are clamped to sentinels that preserve max/min
// ordering against finite values.
const (
	// MaxProbingDepth encodes a ">12" reading.
	MaxProbingDepth = 13
	// MinGingivalMargin encodes a "<-12" reading.
	MinGingivalMargin = -13
	// MaxGingivalMargin is the top of the gingival-margin scale.
	MaxGingivalMargin = 7
)

// SiteMeasurement is one site's pocket reading plus presence flags.
type SiteMeasurement struct {
	// ProbingDepth is 0..13, 13 meaning ">12".
	ProbingDepth int `json:"probingDepth"`
	// GingivalMargin is -13..7, -13 meaning "<-12". Negative values
	// indicate recession.
	GingivalMargin int  `json:"gingivalMargin"`
	Bleeding       bool `json:"bleeding"`
	Plaque         bool `json:"plaque"`
	Pus            bool `json:"pus"`
	Tartar         bool `json:"tartar"`
}

// CAL derives the clinical attachment level for the site:
// probing depth plus recession when the margin is negative, otherwise
// probing depth reduced by margin, floored at zero. At a margin of zero
// both branches agree and CAL equals the probing depth.
func (m SiteMeasurement) CAL() int {
	if m.GingivalMargin < 0 {
		return m.ProbingDepth - m.GingivalMargin
	}
	cal := m.ProbingDepth - m.GingivalMargin
	if cal < 0 {
		return 0
	}
	return cal
}

// Validate checks the numeric fields against their legal ranges. The
// returned error names the offending field.
func (m SiteMeasurement) Validate(site Site) error {
	if m.ProbingDepth < 0 || m.ProbingDepth > MaxProbingDepth {
		return &FieldError{
			Field:  fmt.Sprintf("%s.probingDepth", site),
			Reason: fmt.Sprintf("value %d outside 0..%d", m.ProbingDepth, MaxProbingDepth),
		}
	}
	if m.GingivalMargin < MinGingivalMargin || m.GingivalMargin > MaxGingivalMargin {
		return &FieldError{
			Field:  fmt.Sprintf("%s.gingivalMargin", site),
			Reason: fmt.Sprintf("value %d outside %d..%d", m.GingivalMargin, MinGingivalMargin, MaxGingivalMargin),
		}
	}
	return nil
}

// PeriodontalObservation holds the six site measurements for one tooth
// plus whole-mouth context supplied by the caller.
type PeriodontalObservation struct {
	Sites map[Site]SiteMeasurement `json:"sites"`
	// Mobility is 0..3.
	Mobility int `json:"mobility"`
	// PatientAge in whole years.
	PatientAge int `json:"patientAge"`
	// PercentTeethAffected is the caller-supplied extent of disease,
	// 0..100. Callers default it when unknown.
	PercentTeethAffected float64 `json:"percentTeethAffected"`
}

// Validate checks every site and the tooth-level fields.
func (o PeriodontalObservation) Validate() error {
	if o.Mobility < 0 || o.Mobility > 3 {
		return &FieldError{Field: "mobility", Reason: fmt.Sprintf("value %d outside 0..3", o.Mobility)}
	}
	if o.PatientAge < 0 {
		return &FieldError{Field: "patientAge", Reason: fmt.Sprintf("value %d is negative", o.PatientAge)}
	}
	for site, m := range o.Sites {
		if err := m.Validate(site); err != nil {
			return err
		}
	}
	return nil
}

// Aggregates are the derived whole-tooth measures that periodontal rule
// rows are evaluated against. Calling reporting code may also want to
// display them.
type Aggregates struct {
	MaxProbingDepth   int     `json:"maxProbingDepth"`
	MinGingivalMargin int     `json:"minGingivalMargin"`
	MaxCAL            int     `json:"maxCAL"`
	AnyBleeding       bool    `json:"anyBleeding"`
	AnyPlaque         bool    `json:"anyPlaque"`
	AnyPus            bool    `json:"anyPus"`
	PatientAge        int     `json:"patientAge"`
	PercentTeeth      float64 `json:"percentTeethAffected"`
}
