package dentaldx

import "sync"

// Report accumulates findings from a table validation pass. It plays
// the role an OperationOutcome plays for resource validation: a caller
// inspects it, a curator fixes the table, resolution itself never
// depends on it.
type Report struct {
	// Valid is true if no error or fatal issues were found.
	Valid bool `json:"valid"`
	// Issues contains all findings, in check order.
	Issues []Issue `json:"issues,omitempty"`
	// RowsChecked is the total number of rows inspected.
	RowsChecked int `json:"rowsChecked"`

	mu sync.Mutex
}

// NewReport returns an empty, valid report.
func NewReport() *Report {
	return &Report{Valid: true, Issues: make([]Issue, 0, 8)}
}

// Add records a finding. Safe for concurrent use.
func (r *Report) Add(issue Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issues = append(r.Issues, issue)
	if issue.IsError() {
		r.Valid = false
	}
}

// Merge folds another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	other.mu.Lock()
	issues := make([]Issue, len(other.Issues))
	copy(issues, other.Issues)
	rows := other.RowsChecked
	other.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Issues = append(r.Issues, issues...)
	r.RowsChecked += rows
	for _, issue := range issues {
		if issue.IsError() {
			r.Valid = false
			break
		}
	}
}

// Errors returns all error and fatal findings.
func (r *Report) Errors() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Issue
	for _, issue := range r.Issues {
		if issue.IsError() {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings returns all warning findings.
func (r *Report) Warnings() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Issue
	for _, issue := range r.Issues {
		if issue.IsWarning() {
			out = append(out, issue)
		}
	}
	return out
}

// ErrorCount returns the number of error and fatal findings.
func (r *Report) ErrorCount() int {
	return len(r.Errors())
}

// HasErrors reports whether any error or fatal finding was recorded.
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.Valid
}
