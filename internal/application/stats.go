package application

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// statsBatchLimit caps concurrent GitHub calls during a batch backfill so a
// large push does not burn through the API rate limit.
const statsBatchLimit = 5

// StatsService backfills commit addition/deletion counts from the GitHub
// API. Push webhooks do not carry per-commit stats, so this runs after
// ingestion as a non-critical enrichment step.
type StatsService struct {
	client  driven.StatsClient
	commits driven.CommitStore
}

// NewStatsService creates a StatsService.
func NewStatsService(client driven.StatsClient, commits driven.CommitStore) *StatsService {
	return &StatsService{client: client, commits: commits}
}

// BackfillCommitStats fetches stats for one commit and persists them on the
// stored row. Any failure, including ref validation, is logged and swallowed;
// the return value is nil when no stats were persisted.
func (s *StatsService) BackfillCommitStats(ctx context.Context, owner, repo, sha string) *model.CommitStats {
	stats, err := s.client.FetchCommitStats(ctx, owner, repo, sha)
	if err != nil {
		slog.Warn("commit stats fetch failed",
			"repo", owner+"/"+repo,
			"sha", sha,
			"error", err,
		)
		return nil
	}
	if stats == nil {
		return nil
	}

	if err := s.commits.UpdateStats(ctx, sha, *stats); err != nil {
		slog.Warn("commit stats persist failed", "sha", sha, "error", err)
		return nil
	}

	return stats
}

// BackfillCommitStatsBatch backfills many commits of one repository with at
// most statsBatchLimit concurrent API calls. Per-commit failures are logged
// inside BackfillCommitStats; the return value is the number of commits whose
// stats were persisted.
func (s *StatsService) BackfillCommitStatsBatch(ctx context.Context, owner, repo string, shas []string) int {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statsBatchLimit)

	var backfilled atomic.Int64
	for _, sha := range shas {
		g.Go(func() error {
			if s.BackfillCommitStats(ctx, owner, repo, sha) != nil {
				backfilled.Add(1)
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return int(backfilled.Load())
}
