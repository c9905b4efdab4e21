package jira

// Resource is one entry from the accessible-resources (token introspection)
// endpoint.
type Resource struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

type Author struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
}

// Identifier resolves who a worklog belongs to: email, falling back to
// display name. Empty means the author cannot be attributed.
func (a Author) Identifier() string {
	if a.EmailAddress != "" {
		return a.EmailAddress
	}
	return a.DisplayName
}

type Worklog struct {
	Author           Author `json:"author"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Started          string `json:"started"`
	Created          string `json:"created"`
}

// StartedDate is the YYYY-MM-DD day the work was performed. Jira timestamps
// look like "2024-01-05T09:30:00.000+0000"; the date is the fixed-width
// prefix.
func (w Worklog) StartedDate() string {
	return datePart(w.Started)
}

// CreatedDate is the day the entry was recorded. Aggregation never filters
// on it; it exists for display only.
func (w Worklog) CreatedDate() string {
	return datePart(w.Created)
}

func datePart(ts string) string {
	if len(ts) < 10 {
		return ""
	}
	return ts[:10]
}

type WorklogPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

type IssueFields struct {
	Summary  string       `json:"summary"`
	Assignee *Author      `json:"assignee"`
	Worklog  *WorklogPage `json:"worklog"`
}

type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type searchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
