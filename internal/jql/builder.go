package jql

import (
	"fmt"
	"strings"

	"github.com/ssematimba/worklogr/internal/dates"
)

const (
	// RangeExpansionDays widens the worklogDate bounds on the un-split
	// search path so a single capped call still covers entries logged
	// around the requested window.
	RangeExpansionDays = 30

	// IssueAgeDays bounds how old an issue may be and still be searched;
	// the created clause keeps the result set from drowning in ancient
	// issues that cannot carry worklogs in range.
	IssueAgeDays = 365

	orderBy = "ORDER BY created DESC"
)

// Params are the inputs to one JQL construction. Empty string means absent.
type Params struct {
	BaseJQL    string
	From       string // YYYY-MM-DD
	To         string // YYYY-MM-DD
	ProjectKey string
	Author     string // worklog author account id

	// ExpandRange widens the date bounds by RangeExpansionDays. The
	// aggregation uses it once (true) for the single capped search and
	// per sub-range (false) on the split path, so coverage is never
	// expanded twice.
	ExpandRange bool

	// Today overrides the anchor for the default clauses. Tests set it;
	// production leaves it empty.
	Today string
}

// Build constructs the complete JQL string for p, or "" when there is
// nothing to query. Pure function: identical inputs yield identical output.
func Build(p Params) string {
	today := p.Today
	if today == "" {
		today = dates.Today()
	}

	var clauses []string

	if base := strings.TrimSpace(p.BaseJQL); base != "" {
		clauses = append(clauses, base)
	}

	if p.Author != "" {
		clauses = append(clauses, fmt.Sprintf("worklogAuthor = %q", p.Author))
	}

	if p.ProjectKey != "" && !strings.Contains(strings.ToLower(p.BaseJQL), "project") {
		clauses = append(clauses, fmt.Sprintf("project = %q", p.ProjectKey))
	}

	switch {
	case p.From != "" || p.To != "":
		if p.From != "" {
			from := p.From
			if p.ExpandRange {
				from = dates.SubDays(from, RangeExpansionDays)
			}
			clauses = append(clauses, fmt.Sprintf("worklogDate >= %q", from))
		}
		if p.To != "" {
			to := p.To
			if p.ExpandRange {
				to = dates.AddDays(to, RangeExpansionDays)
			}
			clauses = append(clauses, fmt.Sprintf("worklogDate <= %q", to))
		}

		anchor := p.From
		if anchor == "" {
			anchor = today
		}
		clauses = append(clauses, fmt.Sprintf("created >= %q", dates.SubDays(anchor, IssueAgeDays)))

	case strings.TrimSpace(p.BaseJQL) == "":
		clauses = append(clauses,
			fmt.Sprintf("worklogDate >= %q", dates.SubDays(today, RangeExpansionDays)),
			fmt.Sprintf("created >= %q", dates.SubDays(today, IssueAgeDays)),
		)
	}

	if len(clauses) == 0 {
		return ""
	}
	return strings.Join(clauses, " AND ") + " " + orderBy
}
