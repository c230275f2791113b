package ruletable

import (
	"errors"
	"strings"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/rangeexpr"
)

// tableCheck is one named validation check. Checks run in declaration
// order and append findings to the shared report.
type tableCheck struct {
	name string
	run  func(t *Table, r *dx.Report)
}

var tableChecks = []tableCheck{
	{name: "empty-table", run: checkEmptyTable},
	{name: "criterion-names", run: checkCriterionNames},
	{name: "range-grammar", run: checkRangeGrammar},
	{name: "output-codes", run: checkOutputCodes},
	{name: "thermal-details", run: checkThermalDetails},
	{name: "duplicate-rows", run: checkDuplicateRows},
}

// Validate runs the load-time curation pass over the table. Findings
// never affect resolution (malformed rows simply never fire) but they
// tell whoever maintains the source data what to fix. maxIssues caps
// the findings (0 = unlimited).
func (t *Table) Validate(maxIssues int) *dx.Report {
	report := dx.NewReport()
	report.RowsChecked = len(t.rows)
	for _, check := range tableChecks {
		if maxIssues > 0 && len(report.Issues) >= maxIssues {
			break
		}
		check.run(t, report)
	}
	if maxIssues > 0 && len(report.Issues) > maxIssues {
		report.Issues = report.Issues[:maxIssues]
	}
	return report
}

func checkEmptyTable(t *Table, r *dx.Report) {
	if len(t.rows) == 0 {
		r.Add(dx.NewIssue(dx.SeverityFatal, dx.IssueEmptyTable).
			Family(t.family).
			Check("empty-table").
			Diagnostics("table has no rows; every lookup will be a no-match").
			Build())
	}
}

func checkCriterionNames(t *Table, r *dx.Report) {
	names, _ := dx.FamilyCriteria(t.family)
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, row := range t.rows {
		for _, c := range row.Criteria {
			if !known[c.Name] {
				r.Add(dx.ErrorIssue(dx.IssueUnknownCriterion).
					Family(t.family).
					Row(row.Index).
					Criterion(c.Name).
					Check("criterion-names").
					Diagnostics("criterion %q is not defined for family %s", c.Name, t.family).
					Build())
			}
		}
	}
}

func checkRangeGrammar(t *Table, r *dx.Report) {
	for _, row := range t.rows {
		for _, c := range row.Criteria {
			if !c.Numeric || c.IsWildcard() {
				continue
			}
			_, err := rangeexpr.Parse(c.Raw)
			if err == nil {
				continue
			}
			issueType := dx.IssueMalformedRange
			var perr *rangeexpr.ParseError
			if errors.As(err, &perr) && perr.Ambiguous {
				issueType = dx.IssueAmbiguousRange
			}
			r.Add(dx.ErrorIssue(issueType).
				Family(t.family).
				Row(row.Index).
				Criterion(c.Name).
				Check("range-grammar").
				Diagnostics("%v; this row never fires on %s", err, c.Name).
				Build())
		}
	}
}

func checkOutputCodes(t *Table, r *dx.Report) {
	for _, row := range t.rows {
		if len(row.Codes) == 0 {
			r.Add(dx.ErrorIssue(dx.IssueEmptyCode).
				Family(t.family).
				Row(row.Index).
				Check("output-codes").
				Diagnostics("row has no output code").
				Build())
			continue
		}
		for _, code := range row.Codes {
			if strings.TrimSpace(code.Code) == "" {
				r.Add(dx.ErrorIssue(dx.IssueEmptyCode).
					Family(t.family).
					Row(row.Index).
					Check("output-codes").
					Diagnostics("row output contains an empty code value").
					Build())
			}
		}
	}
}

// checkThermalDetails verifies that coldDetail/heatDetail criteria stay
// within the fixed four-value enumeration.
func checkThermalDetails(t *Table, r *dx.Report) {
	valid := make(map[string]bool)
	for _, d := range dx.ThermalDetails() {
		valid[d] = true
	}
	for _, row := range t.rows {
		for _, c := range row.Criteria {
			if c.Name != dx.CriterionColdDetail && c.Name != dx.CriterionHeatDetail {
				continue
			}
			if c.IsWildcard() || valid[strings.ToLower(strings.TrimSpace(c.Raw))] {
				continue
			}
			r.Add(dx.WarningIssue(dx.IssueInvalidDetail).
				Family(t.family).
				Row(row.Index).
				Criterion(c.Name).
				Check("thermal-details").
				Diagnostics("detail %q is outside the fixed enumeration %v", c.Raw, dx.ThermalDetails()).
				Build())
		}
	}
}

func checkDuplicateRows(t *Table, r *dx.Report) {
	seen := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		key := row.key()
		if first, ok := seen[key]; ok {
			r.Add(dx.WarningIssue(dx.IssueDuplicateRow).
				Family(t.family).
				Row(row.Index).
				Check("duplicate-rows").
				Diagnostics("criteria tuple duplicates row %d; only one of them can fire", first).
				Build())
			continue
		}
		seen[key] = row.Index
	}
}
