package jql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDefaults(t *testing.T) {
	// No base filter, no dates, no project: last-30-days worklog clause,
	// issue-age clause, and a sort suffix.
	got := Build(Params{Today: "2024-06-15"})

	assert.Equal(t, `worklogDate >= "2024-05-16" AND created >= "2023-06-16" ORDER BY created DESC`, got)
}

func TestBuildIsPure(t *testing.T) {
	p := Params{
		BaseJQL:    "labels = backend",
		From:       "2024-01-01",
		To:         "2024-01-31",
		ProjectKey: "OPS",
		Author:     "5b10a2844c20165700ede21g",
		Today:      "2024-06-15",
	}
	assert.Equal(t, Build(p), Build(p))
}

func TestBuildExactRange(t *testing.T) {
	got := Build(Params{From: "2024-01-10", To: "2024-01-20", Today: "2024-06-15"})

	assert.Equal(t, `worklogDate >= "2024-01-10" AND worklogDate <= "2024-01-20" AND created >= "2023-01-10" ORDER BY created DESC`, got)
}

func TestBuildExpandedRange(t *testing.T) {
	got := Build(Params{From: "2024-01-10", To: "2024-01-20", ExpandRange: true, Today: "2024-06-15"})

	assert.Contains(t, got, `worklogDate >= "2023-12-11"`)
	assert.Contains(t, got, `worklogDate <= "2024-02-19"`)
	// Issue-age anchor stays on the unexpanded from.
	assert.Contains(t, got, `created >= "2023-01-10"`)
}

func TestBuildOpenEndedRange(t *testing.T) {
	got := Build(Params{To: "2024-01-20", Today: "2024-06-15"})

	assert.NotContains(t, got, "worklogDate >=")
	assert.Contains(t, got, `worklogDate <= "2024-01-20"`)
	// No from: issue age anchors on today.
	assert.Contains(t, got, `created >= "2023-06-15"`)
}

func TestBuildAuthorAndProject(t *testing.T) {
	got := Build(Params{
		Author:     "user-1",
		ProjectKey: "OPS",
		From:       "2024-01-10",
		To:         "2024-01-10",
		Today:      "2024-06-15",
	})

	assert.True(t, strings.HasPrefix(got, `worklogAuthor = "user-1" AND project = "OPS" AND `), got)
}

func TestBuildProjectClauseSkippedWhenBaseMentionsProject(t *testing.T) {
	got := Build(Params{
		BaseJQL:    "PROJECT in (OPS, CORE)",
		ProjectKey: "OPS",
		From:       "2024-01-10",
		Today:      "2024-06-15",
	})

	assert.NotContains(t, got, `project = "OPS"`)
	assert.Contains(t, got, "PROJECT in (OPS, CORE)")
}

func TestBuildBaseFilterWithoutDatesAddsNoDefaults(t *testing.T) {
	got := Build(Params{BaseJQL: "assignee = currentUser()", Today: "2024-06-15"})

	assert.Equal(t, "assignee = currentUser() ORDER BY created DESC", got)
}

func TestBuildOrderBySuffix(t *testing.T) {
	got := Build(Params{Today: "2024-06-15"})
	assert.True(t, strings.HasSuffix(got, "ORDER BY created DESC"))
}
