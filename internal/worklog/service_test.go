package worklog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ssematimba/worklogr/internal/jira"
)

func newTestService(api API) *Service {
	s := NewService(api, nil, FilterByAccountID)
	s.Fetcher().SetLimiter(rate.NewLimiter(rate.Inf, 0))
	return s
}

func TestServiceAggregateSplitPath(t *testing.T) {
	api := newFakeAPI()
	api.search = func(string) ([]jira.Issue, error) {
		return []jira.Issue{
			{Key: "OPS-1", Fields: jira.IssueFields{Summary: "good"}},
			{Key: "OPS-2", Fields: jira.IssueFields{Summary: "broken"}},
			{Key: "OPS-3", Fields: jira.IssueFields{Summary: "also good"}},
		}, nil
	}
	api.worklogs = func(key string, startAt int) (*jira.WorklogPage, error) {
		if key == "OPS-2" {
			return nil, &jira.TransportError{Status: 500, Body: "boom"}
		}
		return &jira.WorklogPage{
			Total:    1,
			Worklogs: []jira.Worklog{wl("ann@example.com", 1800, "2024-01-10", "2024-01-10")},
		}, nil
	}

	svc := newTestService(api)
	resp, err := svc.Aggregate(context.Background(), "tok", Request{
		From: "2024-01-10",
		To:   "2024-01-12",
	})
	require.NoError(t, err)

	// Effective window [from-7, to+7] = 17 per-day searches.
	assert.Len(t, api.searches, 17)
	assert.Equal(t, 3, resp.IssuesScanned)

	// One issue degraded; the siblings still report.
	assert.Equal(t, 1, resp.Degraded)
	require.Len(t, resp.Users, 1)
	ann := resp.Users[0]
	assert.Equal(t, "ann@example.com", ann.User)
	assert.Equal(t, 2*1800, ann.TotalSeconds)
	assert.Equal(t, "1.00", ann.TotalHours)
	require.Len(t, ann.Issues, 2)
	assert.Equal(t, "OPS-1", ann.Issues[0].Key)
	assert.Equal(t, "OPS-3", ann.Issues[1].Key)
}

func TestServiceAggregateSinglePathWhenRangeOpen(t *testing.T) {
	api := newFakeAPI()
	svc := newTestService(api)

	_, err := svc.Aggregate(context.Background(), "tok", Request{To: "2024-01-12"})
	require.NoError(t, err)

	// No complete range: exactly one capped search with expanded bounds.
	require.Len(t, api.searches, 1)
	assert.Contains(t, api.searches[0], `worklogDate <= "2024-02-11"`)
}

func TestServiceAggregateNormalizesDates(t *testing.T) {
	api := newFakeAPI()
	svc := newTestService(api)

	_, err := svc.Aggregate(context.Background(), "tok", Request{
		From: "10/01/2024",
		To:   "12-01-2024",
	})
	require.NoError(t, err)

	// Day-first inputs were rewritten, so the split path ran.
	assert.Len(t, api.searches, 17)
}

func TestServiceAggregateAuthFailureSurfaces(t *testing.T) {
	api := newFakeAPI()
	api.resolve = func(string) (string, error) {
		return "", &jira.AuthError{Reason: "token expired"}
	}
	svc := newTestService(api)

	_, err := svc.Aggregate(context.Background(), "bad", Request{})
	require.Error(t, err)
	assert.True(t, jira.IsAuth(err))
}

func TestServiceAggregateSearchFailureAborts(t *testing.T) {
	api := newFakeAPI()
	api.search = func(string) ([]jira.Issue, error) {
		return nil, &jira.TransportError{Status: 503, Body: "unavailable"}
	}
	svc := newTestService(api)

	_, err := svc.Aggregate(context.Background(), "tok", Request{From: "2024-01-10", To: "2024-01-10"})
	require.Error(t, err)
	assert.False(t, jira.IsAuth(err))
}

func TestServiceAggregateUserFilterMatchingNobody(t *testing.T) {
	api := newFakeAPI()
	api.search = func(string) ([]jira.Issue, error) {
		return []jira.Issue{{Key: "OPS-1"}}, nil
	}
	api.worklogs = func(string, int) (*jira.WorklogPage, error) {
		return &jira.WorklogPage{
			Total:    1,
			Worklogs: []jira.Worklog{wl("ann@example.com", 600, "2024-01-10", "2024-01-10")},
		}, nil
	}
	svc := newTestService(api)

	resp, err := svc.Aggregate(context.Background(), "tok", Request{
		From:     "2024-01-10",
		To:       "2024-01-10",
		Username: "acc-unknown",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Users)
	assert.Equal(t, 1, resp.IssuesScanned)
}
