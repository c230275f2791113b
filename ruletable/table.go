// Package ruletable holds the immutable diagnosis rule tables and the
// matching machinery over them: wildcard semantics, range-expression
// criteria, explicit row specificity, a load-time validation pass, and
// an explicit publish-once Store.
package ruletable

import (
	"fmt"
	"strings"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/rangeexpr"
)

// Wildcard is the criterion value that matches every observed value.
// An absent criterion is equivalent.
const Wildcard = "Any"

// Criterion is one compiled rule-row criterion.
type Criterion struct {
	// Name is the criterion name within the family's vocabulary.
	Name string
	// Raw is the criterion text as authored.
	Raw string
	// Numeric marks criteria evaluated through the range grammar.
	Numeric bool

	expr rangeexpr.Expression
}

// IsWildcard reports whether the criterion matches everything.
func (c Criterion) IsWildcard() bool {
	raw := strings.TrimSpace(c.Raw)
	return raw == "" || strings.EqualFold(raw, Wildcard)
}

// Value is one observed criterion value: either a string label or a
// number, depending on what the criterion measures.
type Value struct {
	Str     string
	Num     float64
	Numeric bool
}

// StringValue wraps an observed string label.
func StringValue(s string) Value {
	return Value{Str: s}
}

// NumberValue wraps an observed numeric reading.
func NumberValue(f float64) Value {
	return Value{Num: f, Numeric: true}
}

// Values is the observed criteria tuple a row is tested against.
type Values map[string]Value

// matches evaluates one criterion against an observed value. Wildcards
// always satisfy; numeric criteria go through the range grammar and
// fail closed when malformed; everything else is a case-insensitive
// string compare.
func (c Criterion) matches(v Value, present bool) bool {
	if c.IsWildcard() {
		return true
	}
	if c.Numeric {
		if !present || !v.Numeric {
			return false
		}
		return c.expr.Matches(v.Num)
	}
	if !present {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(c.Raw), strings.TrimSpace(v.Str))
}

// Row is one immutable rule row: a criteria tuple bound to one or more
// output codes.
type Row struct {
	// Index is the zero-based declaration position in the source table.
	Index int
	// Criteria in declaration order.
	Criteria []Criterion
	// Codes are the output codes; combination rows carry more than one.
	Codes []dx.Code
	// Specificity is the count of non-wildcard criteria, computed at
	// build time. Higher wins.
	Specificity int
}

// Diagnosis returns the row's output as a Diagnosis.
func (r Row) Diagnosis() *dx.Diagnosis {
	return dx.NewDiagnosis(r.Codes...)
}

// Matches reports whether every defined criterion is satisfied by the
// observed values.
func (r Row) Matches(values Values) bool {
	for _, c := range r.Criteria {
		v, ok := values[c.Name]
		if !c.matches(v, ok) {
			return false
		}
	}
	return true
}

// Criterion returns the row's criterion by name.
func (r Row) Criterion(name string) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}

// key is the row's criteria tuple in canonical form, for duplicate
// detection.
func (r Row) key() string {
	parts := make([]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		raw := strings.ToLower(strings.TrimSpace(c.Raw))
		if raw == "" {
			raw = strings.ToLower(Wildcard)
		}
		parts = append(parts, c.Name+"="+raw)
	}
	return strings.Join(parts, "|")
}

// RowSpec is the raw material for one row before compilation.
type RowSpec struct {
	// Criteria maps criterion name to its raw value. Absent names are
	// wildcards.
	Criteria map[string]string `json:"criteria"`
	// Code and Description are the common single-code output.
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	// Codes is the multi-code output for combination rows; when set it
	// takes precedence over Code.
	Codes []dx.Code `json:"codes,omitempty"`
}

// outputCodes normalizes the two output forms.
func (s RowSpec) outputCodes() []dx.Code {
	if len(s.Codes) > 0 {
		out := make([]dx.Code, len(s.Codes))
		copy(out, s.Codes)
		return out
	}
	if s.Code == "" {
		return nil
	}
	return []dx.Code{{Code: s.Code, Description: s.Description}}
}

// Table is the immutable, specificity-ordered rule table for one
// diagnostic family. Build it once, share it freely: Match performs no
// writes.
type Table struct {
	family dx.Family
	rows   []Row
	// scan holds row indexes sorted by specificity descending, stable
	// within equal specificity so declaration order still breaks ties.
	scan []int
}

// New compiles row specs into a Table. Criterion names follow the
// family's vocabulary; numeric criteria are compiled through the shared
// compiler. Malformed ranges stay in the table and fail closed; the
// validation pass reports them. Unknown families are rejected.
func New(family dx.Family, specs []RowSpec, compiler *rangeexpr.Compiler) (*Table, error) {
	if !family.IsValid() {
		return nil, fmt.Errorf("unknown rule family %q", family)
	}
	names, _ := dx.FamilyCriteria(family)
	if compiler == nil {
		compiler = rangeexpr.NewCompiler(64)
	}

	rows := make([]Row, 0, len(specs))
	for i, spec := range specs {
		row := Row{Index: i, Codes: spec.outputCodes()}
		// Family vocabulary order first, then any extra names the row
		// carries (kept so validation can flag them).
		seen := make(map[string]bool, len(spec.Criteria))
		for _, name := range names {
			raw, ok := spec.Criteria[name]
			if !ok {
				continue
			}
			seen[name] = true
			row.Criteria = append(row.Criteria, compileCriterion(family, name, raw, compiler))
		}
		for name, raw := range spec.Criteria {
			if seen[name] {
				continue
			}
			row.Criteria = append(row.Criteria, compileCriterion(family, name, raw, compiler))
		}
		for _, c := range row.Criteria {
			if !c.IsWildcard() {
				row.Specificity++
			}
		}
		rows = append(rows, row)
	}

	t := &Table{family: family, rows: rows}
	t.buildScanOrder()
	return t, nil
}

func compileCriterion(family dx.Family, name, raw string, compiler *rangeexpr.Compiler) Criterion {
	c := Criterion{Name: name, Raw: raw, Numeric: dx.NumericCriterion(family, name)}
	if c.Numeric && !c.IsWildcard() {
		// Parse errors are deliberately dropped here: the zero
		// expression fails closed, and Validate re-parses to report.
		c.expr, _ = compiler.Compile(raw)
	}
	return c
}

// buildScanOrder sorts row indexes by specificity descending with a
// stable insertion so declared order breaks ties. Most-specific-wins is
// an explicit invariant, not an accident of table authoring order.
func (t *Table) buildScanOrder() {
	t.scan = make([]int, len(t.rows))
	for i := range t.scan {
		t.scan[i] = i
	}
	// Stable insertion sort; tables are small.
	for i := 1; i < len(t.scan); i++ {
		for j := i; j > 0 && t.rows[t.scan[j-1]].Specificity < t.rows[t.scan[j]].Specificity; j-- {
			t.scan[j-1], t.scan[j] = t.scan[j], t.scan[j-1]
		}
	}
}

// Family returns the table's diagnostic family.
func (t *Table) Family() dx.Family {
	return t.family
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in declaration order. The slice is shared; do
// not mutate it.
func (t *Table) Rows() []Row {
	return t.rows
}

// Match returns the first row (in specificity order, declaration order
// within ties) whose every defined criterion is satisfied. The false
// return is the expected NoMatch outcome, distinct from a matched row
// with an empty code.
func (t *Table) Match(values Values) (Row, bool) {
	for _, i := range t.scan {
		if t.rows[i].Matches(values) {
			return t.rows[i], true
		}
	}
	return Row{}, false
}

// AllCodes returns every output code in the table, in declaration
// order. Useful for exporting the code system.
func (t *Table) AllCodes() []dx.Code {
	var out []dx.Code
	for _, r := range t.rows {
		out = append(out, r.Codes...)
	}
	return out
}
