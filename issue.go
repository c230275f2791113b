package dentaldx

import "fmt"

// IssueSeverity grades a table-curation issue.
type IssueSeverity string

const (
	// SeverityFatal indicates the table cannot be used at all.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates a row that will never fire or misfire.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a suspicious row that still resolves.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType classifies what the table validation pass found.
type IssueType string

const (
	// IssueMalformedRange is a criterion string outside the range
	// grammar. The row degrades to "never fires" at resolution time.
	IssueMalformedRange IssueType = "malformed-range"
	// IssueAmbiguousRange is a lexically ambiguous negative range such
	// as "-1-2"; negative lower bounds must use the "A to B" form.
	IssueAmbiguousRange IssueType = "ambiguous-range"
	// IssueUnknownCriterion is a criterion name the row's family does
	// not define.
	IssueUnknownCriterion IssueType = "unknown-criterion"
	// IssueEmptyCode is a row with no output code.
	IssueEmptyCode IssueType = "empty-code"
	// IssueDuplicateRow is a row whose criteria tuple duplicates an
	// earlier row; only the more specific (or earlier) one can fire.
	IssueDuplicateRow IssueType = "duplicate-row"
	// IssueEmptyTable is a family with no rows at all.
	IssueEmptyTable IssueType = "empty-table"
	// IssueInvalidDetail is a thermal detail criterion outside the
	// fixed four-value enumeration.
	IssueInvalidDetail IssueType = "invalid-detail"
)

// Issue is a single finding from the load-time table validation pass.
// Issues are surfaced to whoever curates the rule tables; they never
// abort resolution.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Code     IssueType     `json:"code"`
	// Family is the rule family the finding belongs to.
	Family Family `json:"family,omitempty"`
	// Row is the zero-based declaration index of the offending row, or
	// -1 for table-level findings.
	Row int `json:"row"`
	// Criterion names the offending criterion, when there is one.
	Criterion string `json:"criterion,omitempty"`
	// Diagnostics is the human-readable detail.
	Diagnostics string `json:"diagnostics,omitempty"`
	// Check is the named validation check that produced the issue.
	Check string `json:"check,omitempty"`
}

// IsError returns true for error or fatal findings.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true for warnings.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	loc := ""
	if i.Row >= 0 {
		loc = fmt.Sprintf(" row %d", i.Row)
	}
	if i.Criterion != "" {
		loc += " criterion " + i.Criterion
	}
	return fmt.Sprintf("%s [%s] %s%s: %s", i.Severity, i.Code, i.Family, loc, i.Diagnostics)
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue starts an issue for the given severity and type. The row
// index defaults to -1 (table-level).
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{issue: Issue{Severity: severity, Code: code, Row: -1}}
}

// ErrorIssue starts an error-severity issue.
func ErrorIssue(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// WarningIssue starts a warning-severity issue.
func WarningIssue(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Family sets the rule family.
func (b *IssueBuilder) Family(f Family) *IssueBuilder {
	b.issue.Family = f
	return b
}

// Row sets the offending row index.
func (b *IssueBuilder) Row(i int) *IssueBuilder {
	b.issue.Row = i
	return b
}

// Criterion sets the offending criterion name.
func (b *IssueBuilder) Criterion(name string) *IssueBuilder {
	b.issue.Criterion = name
	return b
}

// Diagnostics sets the human-readable detail.
func (b *IssueBuilder) Diagnostics(format string, args ...any) *IssueBuilder {
	b.issue.Diagnostics = fmt.Sprintf(format, args...)
	return b
}

// Check names the validation check producing the issue.
func (b *IssueBuilder) Check(name string) *IssueBuilder {
	b.issue.Check = name
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
