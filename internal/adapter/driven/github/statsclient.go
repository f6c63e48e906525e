// Package github implements the StatsClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StatsClient = (*Client)(nil)

// Input validation before constructing any outbound request path. Owner and
// repo never contain characters outside this set on GitHub; SHA is always a
// full 40-hex-character object name.
var (
	validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	validSHA  = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
)

// Client implements the driven.StatsClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchCommitStats returns addition/deletion counts for the given commit.
// Returns driven.ErrInvalidRef without any network call when owner, repo, or
// sha fail validation.
func (c *Client) FetchCommitStats(ctx context.Context, owner, repo, sha string) (*model.CommitStats, error) {
	if !validName.MatchString(owner) || !validName.MatchString(repo) || !validSHA.MatchString(sha) {
		return nil, driven.ErrInvalidRef
	}

	commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching commit %s/%s@%s: %w", owner, repo, sha, err)
	}

	logRateLimit(resp, owner+"/"+repo+"/commits")

	stats := commit.GetStats()
	if stats == nil {
		return nil, nil
	}

	return &model.CommitStats{
		Additions: stats.GetAdditions(),
		Deletions: stats.GetDeletions(),
	}, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
