package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.atlassian.com"

const (
	// RequiredScope is the OAuth scope a resource must declare for this
	// tool to read its worklogs.
	RequiredScope = "read:jira-work"

	// SearchCap is the most issues a single search call returns. The
	// upstream caps result sets around 50 and the search endpoint offers
	// no pagination, which is why the fetcher splits date ranges instead
	// of paging.
	SearchCap = 50

	// WorklogPageSize is the upstream's maximum page size for the
	// per-issue worklog endpoint, which does paginate.
	WorklogPageSize = 100
)

var searchFields = []string{"summary", "assignee", "worklog"}

type Client struct {
	// BaseURL is overridable for tests; defaults to the Atlassian API
	// gateway.
	BaseURL string

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AccessibleResources calls the token-introspection endpoint and returns the
// workspaces the token can reach.
func (c *Client) AccessibleResources(ctx context.Context, token string) ([]Resource, error) {
	var resources []Resource
	if err := c.get(ctx, token, c.BaseURL+"/oauth/token/accessible-resources", &resources); err != nil {
		return nil, err
	}
	return resources, nil
}

// ResolveCloudID resolves the tenant identifier for token: the first
// accessible resource declaring RequiredScope. An empty resource list or a
// list with no matching scope is an auth failure, not a transport one.
func (c *Client) ResolveCloudID(ctx context.Context, token string) (string, error) {
	resources, err := c.AccessibleResources(ctx, token)
	if err != nil {
		return "", err
	}
	if len(resources) == 0 {
		return "", &AuthError{Reason: "token has no accessible resources"}
	}
	for _, r := range resources {
		for _, scope := range r.Scopes {
			if scope == RequiredScope {
				return r.ID, nil
			}
		}
	}
	return "", &AuthError{Reason: "no accessible resource grants " + RequiredScope}
}

// SearchIssues executes exactly one bounded search and returns the issues in
// upstream order. Callers must not assume more than SearchCap results.
func (c *Client) SearchIssues(ctx context.Context, token, cloudID, query string) ([]Issue, error) {
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("jql", query)
	params.Set("maxResults", strconv.Itoa(SearchCap))
	for _, f := range searchFields {
		params.Add("fields", f)
	}

	endpoint := fmt.Sprintf("%s/ex/jira/%s/rest/api/3/search?%s", c.BaseURL, cloudID, params.Encode())

	var result searchResult
	if err := c.get(ctx, token, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Issues, nil
}

// IssueWorklogs fetches one page of worklogs for an issue, starting at
// startAt with the upstream's maximum page size.
func (c *Client) IssueWorklogs(ctx context.Context, token, cloudID, issueKey string, startAt int) (*WorklogPage, error) {
	params := url.Values{}
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(WorklogPageSize))

	endpoint := fmt.Sprintf("%s/ex/jira/%s/rest/api/3/issue/%s/worklog?%s",
		c.BaseURL, cloudID, url.PathEscape(issueKey), params.Encode())

	var page WorklogPage
	if err := c.get(ctx, token, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, token, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Reason: fmt.Sprintf("upstream returned status %d", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
