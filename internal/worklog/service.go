package worklog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ssematimba/worklogr/internal/dates"
	"github.com/ssematimba/worklogr/internal/jira"
	"github.com/ssematimba/worklogr/internal/jql"
)

// Request is the single inbound operation's parameters. Empty string means
// absent; there are no sentinel values.
type Request struct {
	From       string
	To         string
	Username   string
	ProjectKey string
	BaseJQL    string
}

// Response is the aggregation envelope. Degraded counts issues whose worklog
// fetch failed non-fatally and contributed nothing.
type Response struct {
	Users         []UserReport `json:"users"`
	IssuesScanned int          `json:"issuesScanned"`
	Degraded      int          `json:"degraded"`
}

// Service runs the whole pipeline: tenant resolution, issue fetch, worklog
// fan-out, aggregation. Nothing is cached between calls.
type Service struct {
	api      API
	fetcher  *Fetcher
	logger   *slog.Logger
	filterBy FilterTarget
}

func NewService(api API, logger *slog.Logger, filterBy FilterTarget) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if filterBy == "" {
		filterBy = FilterByAccountID
	}
	return &Service{
		api:      api,
		fetcher:  NewFetcher(api, logger),
		logger:   logger,
		filterBy: filterBy,
	}
}

// Fetcher exposes the underlying fetcher so callers can tune its pacing.
func (s *Service) Fetcher() *Fetcher {
	return s.fetcher
}

// Aggregate executes one aggregation call for token. A complete date range
// goes through the range-split fetcher; an open-ended or absent range falls
// back to a single capped search with expanded bounds.
func (s *Service) Aggregate(ctx context.Context, token string, req Request) (*Response, error) {
	started := time.Now()
	log := s.logger.With("run", uuid.NewString())

	from := dates.NormalizeISO(req.From)
	to := dates.NormalizeISO(req.To)

	cloudID, err := s.api.ResolveCloudID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	log.Info("workspace resolved", "cloudId", cloudID)

	base := jql.Params{
		BaseJQL:    req.BaseJQL,
		From:       from,
		To:         to,
		ProjectKey: req.ProjectKey,
		Author:     req.Username,
	}

	var issues []jira.Issue
	if dates.Valid(from) && dates.Valid(to) {
		issues, err = s.fetcher.IssuesInRange(ctx, token, cloudID, base)
	} else {
		single := base
		single.ExpandRange = true
		issues, err = s.api.SearchIssues(ctx, token, cloudID, jql.Build(single))
	}
	if err != nil {
		return nil, fmt.Errorf("issue fetch failed: %w", err)
	}
	log.Info("issues fetched", "count", len(issues))

	worklogs, degraded, err := s.fetcher.FanOutWorklogs(ctx, token, cloudID, issues)
	if err != nil {
		return nil, fmt.Errorf("worklog fetch failed: %w", err)
	}
	if degraded > 0 {
		log.Warn("some issues returned no worklogs", "degraded", degraded)
	}

	users := Aggregate(issues, worklogs, Options{
		From:     from,
		To:       to,
		User:     req.Username,
		FilterBy: s.filterBy,
	})

	log.Info("aggregation complete",
		"users", len(users),
		"issues", len(issues),
		"degraded", degraded,
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)

	return &Response{
		Users:         users,
		IssuesScanned: len(issues),
		Degraded:      degraded,
	}, nil
}
