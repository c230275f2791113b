package dentaldx

// Family identifies a diagnostic rule family. Each family has its own
// rule table and its own fixed set of criterion names.
type Family string

// Supported diagnostic families.
const (
	// FamilyCaries covers decay diagnoses.
	FamilyCaries Family = "caries"
	// FamilyEndodontic covers combined pulp/periapical diagnoses from
	// cold, percussion and palpation testing.
	FamilyEndodontic Family = "endodontic"
	// FamilyHeat covers the independent heat-test table. It mirrors the
	// cold test's two-level (result, positive-detail) structure.
	FamilyHeat Family = "heat"
	// FamilyPeriodontal covers periodontal diagnoses derived from
	// per-site pocket measurements.
	FamilyPeriodontal Family = "periodontal"
)

// String returns the family name.
func (f Family) String() string {
	return string(f)
}

// IsValid returns true if this is a supported family.
func (f Family) IsValid() bool {
	switch f {
	case FamilyCaries, FamilyEndodontic, FamilyHeat, FamilyPeriodontal:
		return true
	default:
		return false
	}
}

// Criterion names used by rule rows, per family. A row criterion outside
// its family's set is flagged by the table validation pass.
const (
	CriterionAspect         = "aspect"
	CriterionDepth          = "depth"
	CriterionCavitation     = "cavitation"
	CriterionClassification = "classification"

	CriterionCold       = "cold"
	CriterionColdDetail = "coldDetail"
	CriterionPercussion = "percussion"
	CriterionPalpation  = "palpation"
	CriterionHeatResult = "heat"
	CriterionHeatDetail = "heatDetail"

	CriterionProbingDepth = "probingDepth"
	CriterionCAL          = "cal"
	CriterionBOP          = "bop"
	CriterionPlaque       = "plaque"
	CriterionAge          = "age"
	CriterionTeethPercent = "teethPercent"
)

// familyConfig holds the per-family criterion vocabulary.
type familyConfig struct {
	// Criteria is the full set of criterion names rows may bind.
	Criteria []string
	// Numeric marks criteria evaluated through the range grammar rather
	// than case-insensitive string comparison.
	Numeric map[string]bool
}

var familyConfigs = map[Family]familyConfig{
	FamilyCaries: {
		Criteria: []string{CriterionAspect, CriterionDepth, CriterionCavitation, CriterionClassification},
		Numeric:  map[string]bool{},
	},
	FamilyEndodontic: {
		Criteria: []string{CriterionCold, CriterionColdDetail, CriterionPercussion, CriterionPalpation},
		Numeric:  map[string]bool{},
	},
	FamilyHeat: {
		Criteria: []string{CriterionHeatResult, CriterionHeatDetail},
		Numeric:  map[string]bool{},
	},
	FamilyPeriodontal: {
		Criteria: []string{CriterionProbingDepth, CriterionCAL, CriterionBOP, CriterionPlaque, CriterionAge, CriterionTeethPercent},
		Numeric: map[string]bool{
			CriterionProbingDepth: true,
			CriterionCAL:          true,
			CriterionAge:          true,
			CriterionTeethPercent: true,
		},
	},
}

// FamilyCriteria returns the criterion names a family's rows may bind,
// and whether the family is known.
func FamilyCriteria(f Family) ([]string, bool) {
	cfg, ok := familyConfigs[f]
	return cfg.Criteria, ok
}

// NumericCriterion reports whether a criterion of the given family is
// evaluated through the range grammar.
func NumericCriterion(f Family, name string) bool {
	return familyConfigs[f].Numeric[name]
}

// Families returns all supported families in a stable order.
func Families() []Family {
	return []Family{FamilyCaries, FamilyEndodontic, FamilyHeat, FamilyPeriodontal}
}
