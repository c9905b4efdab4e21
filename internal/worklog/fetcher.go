package worklog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ssematimba/worklogr/internal/dates"
	"github.com/ssematimba/worklogr/internal/jira"
	"github.com/ssematimba/worklogr/internal/jql"
)

const (
	// LookbackDays widens the effective search window on both sides. The
	// search filters on when work was logged, while aggregation filters on
	// when it was performed; an entry performed on day D can be recorded
	// up to LookbackDays later and must still be found.
	LookbackDays = 7

	// MaxConcurrentFetches caps in-flight worklog requests during fan-out.
	MaxConcurrentFetches = 10
)

// API is everything the fetch pipeline needs from the upstream client.
type API interface {
	ResolveCloudID(ctx context.Context, token string) (string, error)
	SearchIssues(ctx context.Context, token, cloudID, query string) ([]jira.Issue, error)
	IssueWorklogs(ctx context.Context, token, cloudID, issueKey string, startAt int) (*jira.WorklogPage, error)
}

var _ API = (*jira.Client)(nil)

// Fetcher covers a date window exhaustively despite the upstream search cap
// and fans out paginated worklog retrieval.
type Fetcher struct {
	api     API
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewFetcher(api API, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		api: api,
		// Day-by-day searching is chatty; pace it rather than hammer
		// the upstream rate limits.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		logger:  logger,
	}
}

// SetLimiter replaces the search pacing limiter. Tests use rate.Inf.
func (f *Fetcher) SetLimiter(l *rate.Limiter) {
	f.limiter = l
}

// IssuesInRange searches one day at a time across the effective window
// [from-LookbackDays, to+LookbackDays] and merges the results, deduplicated
// by issue key with the first occurrence winning. One day per call is
// required for correctness: a larger chunk on a busy day can exceed the
// search cap and silently drop issues.
//
// base must carry parseable From and To; its ExpandRange is ignored because
// each per-day query uses exact bounds.
func (f *Fetcher) IssuesInRange(ctx context.Context, token, cloudID string, base jql.Params) ([]jira.Issue, error) {
	day := dates.SubDays(base.From, LookbackDays)
	end := dates.AddDays(base.To, LookbackDays)

	var issues []jira.Issue
	seen := make(map[string]bool)

	for day <= end {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		dayQuery := base
		dayQuery.From = day
		dayQuery.To = day
		dayQuery.ExpandRange = false

		found, err := f.api.SearchIssues(ctx, token, cloudID, jql.Build(dayQuery))
		if err != nil {
			return nil, fmt.Errorf("search for %s failed: %w", day, err)
		}

		for _, issue := range found {
			if seen[issue.Key] {
				continue
			}
			seen[issue.Key] = true
			issues = append(issues, issue)
		}

		next := dates.NextDay(day)
		if next == day {
			return nil, fmt.Errorf("cannot iterate from date %q", day)
		}
		day = next
	}

	f.logger.Debug("range-split search complete", "issues", len(issues))
	return issues, nil
}

// Worklogs returns every worklog of one issue. If the issue already embeds
// a complete worklog page the network is skipped; otherwise pages are pulled
// until the reported total is reached or a short page ends the data.
func (f *Fetcher) Worklogs(ctx context.Context, token, cloudID string, issue jira.Issue) ([]jira.Worklog, error) {
	if embedded := issue.Fields.Worklog; embedded != nil && embedded.Total <= len(embedded.Worklogs) {
		return embedded.Worklogs, nil
	}

	var all []jira.Worklog
	for {
		page, err := f.api.IssueWorklogs(ctx, token, cloudID, issue.Key, len(all))
		if err != nil {
			return nil, err
		}
		all = append(all, page.Worklogs...)

		if len(all) >= page.Total || len(page.Worklogs) < jira.WorklogPageSize {
			return all, nil
		}
	}
}

// FanOutWorklogs fetches worklogs for every issue with bounded concurrency
// and returns them keyed by issue key, plus the number of issues whose fetch
// degraded to an empty result.
//
// Auth failures abort the whole batch; any other per-issue failure yields an
// empty list for that issue so one bad issue cannot fail the request.
func (f *Fetcher) FanOutWorklogs(ctx context.Context, token, cloudID string, issues []jira.Issue) (map[string][]jira.Worklog, int, error) {
	results := make([][]jira.Worklog, len(issues))
	var degraded atomic.Int64

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(MaxConcurrentFetches)

	for i, issue := range issues {
		grp.Go(func() error {
			logs, err := f.Worklogs(ctx, token, cloudID, issue)
			if err != nil {
				if jira.IsAuth(err) || ctx.Err() != nil {
					return err
				}
				f.logger.Warn("worklog fetch degraded", "issue", issue.Key, "error", err)
				degraded.Add(1)
				return nil
			}
			results[i] = logs
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, 0, err
	}

	byKey := make(map[string][]jira.Worklog, len(issues))
	for i, issue := range issues {
		byKey[issue.Key] = results[i]
	}
	return byKey, int(degraded.Load()), nil
}
