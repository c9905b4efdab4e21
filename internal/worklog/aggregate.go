package worklog

import (
	"fmt"

	"github.com/ssematimba/worklogr/internal/jira"
)

// FilterTarget picks which author field a username filter compares against.
// The upstream mixes account ids and emails in its own filters, so this is
// configuration rather than a hardwired choice.
type FilterTarget string

const (
	FilterByAccountID FilterTarget = "accountId"
	FilterByEmail     FilterTarget = "email"
)

// Options control one aggregation pass.
type Options struct {
	From     string // YYYY-MM-DD, empty = unbounded
	To       string // YYYY-MM-DD, empty = unbounded
	User     string // empty = all users
	FilterBy FilterTarget
}

// Entry is one attributed worklog in the final report.
type Entry struct {
	IssueKey         string `json:"issueKey"`
	Author           string `json:"author"`
	AccountID        string `json:"accountId,omitempty"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Started          string `json:"started"`
	Created          string `json:"created"`
}

// IssueReport carries an issue's metadata plus only the worklogs attributed
// to one user on it.
type IssueReport struct {
	Key      string  `json:"key"`
	Summary  string  `json:"summary"`
	Worklogs []Entry `json:"worklogs"`
}

// UserReport is one user's bucket: total time plus the issues it came from,
// in the order they were first encountered.
type UserReport struct {
	User         string        `json:"user"`
	TotalSeconds int           `json:"totalSeconds"`
	TotalHours   string        `json:"totalHours"`
	Worklogs     []Entry       `json:"worklogs"`
	Issues       []IssueReport `json:"issues"`
}

// FormatHours renders seconds as decimal hours with two digits. Presentation
// only; totals always accumulate in seconds.
func FormatHours(seconds int) string {
	return fmt.Sprintf("%.2f", float64(seconds)/3600)
}

// Aggregate merges issues with their worklogs, filters by performed-on date
// and optional user, and groups by author then issue. Attribution uses the
// date the work was performed, never the date the entry was recorded.
// Inclusive string comparison on the fixed-width date format is exact.
func Aggregate(issues []jira.Issue, worklogsByKey map[string][]jira.Worklog, opts Options) []UserReport {
	var order []string
	buckets := make(map[string]*UserReport)

	for _, issue := range issues {
		for _, w := range worklogsByKey[issue.Key] {
			started := w.StartedDate()
			if started == "" {
				continue
			}
			if opts.From != "" && started < opts.From {
				continue
			}
			if opts.To != "" && started > opts.To {
				continue
			}

			author := w.Author.Identifier()
			if author == "" {
				continue
			}
			if opts.User != "" && filterValue(w.Author, opts.FilterBy) != opts.User {
				continue
			}

			bucket := buckets[author]
			if bucket == nil {
				bucket = &UserReport{User: author}
				buckets[author] = bucket
				order = append(order, author)
			}

			entry := Entry{
				IssueKey:         issue.Key,
				Author:           author,
				AccountID:        w.Author.AccountID,
				TimeSpentSeconds: w.TimeSpentSeconds,
				Started:          started,
				Created:          w.CreatedDate(),
			}

			bucket.TotalSeconds += w.TimeSpentSeconds
			bucket.Worklogs = append(bucket.Worklogs, entry)
			appendToIssue(bucket, issue, entry)
		}
	}

	reports := make([]UserReport, 0, len(order))
	for _, author := range order {
		bucket := buckets[author]
		bucket.TotalHours = FormatHours(bucket.TotalSeconds)
		reports = append(reports, *bucket)
	}
	return reports
}

func filterValue(a jira.Author, target FilterTarget) string {
	if target == FilterByEmail {
		return a.EmailAddress
	}
	return a.AccountID
}

func appendToIssue(bucket *UserReport, issue jira.Issue, entry Entry) {
	for i := range bucket.Issues {
		if bucket.Issues[i].Key == issue.Key {
			bucket.Issues[i].Worklogs = append(bucket.Issues[i].Worklogs, entry)
			return
		}
	}
	bucket.Issues = append(bucket.Issues, IssueReport{
		Key:      issue.Key,
		Summary:  issue.Fields.Summary,
		Worklogs: []Entry{entry},
	})
}
