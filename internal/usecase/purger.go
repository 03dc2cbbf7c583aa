package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// PurgeExecutor implements domain.Purger. Removal is best effort: a failure
// on one candidate is recorded and the batch moves on.
type PurgeExecutor struct {
	fsManager domain.FileSystemManager
	logger    *zap.Logger
}

// NewPurgeExecutor creates a new purge executor.
func NewPurgeExecutor(fs domain.FileSystemManager, logger *zap.Logger) *PurgeExecutor {
	return &PurgeExecutor{
		fsManager: fs,
		logger:    logger,
	}
}

// Purge removes every candidate (or records it as skipped in dry run).
// It never returns an error: failures end up in the summary's warnings.
func (p *PurgeExecutor) Purge(ctx context.Context, candidates []domain.CandidatePath, dryRun bool) domain.PurgeSummary {
	start := time.Now()
	summary := domain.PurgeSummary{
		Results:    make([]domain.PurgeResult, 0, len(candidates)),
		DryRun:     dryRun,
		ExecutedAt: start,
	}

	set := newCandidateSet(p.fsManager)
	for _, c := range candidates {
		if !set.add(c) {
			p.logger.Debug("duplicate candidate dropped", zap.String("path", c.Path))
		}
	}

	for _, c := range set.items {
		result := p.purgeOne(ctx, c, dryRun)
		switch result.Outcome {
		case domain.PurgeRemoved:
			summary.Removed++
		case domain.PurgeSkipped:
			summary.Skipped++
		case domain.PurgeFailed:
			summary.Failed++
			summary.Warnings = append(summary.Warnings,
				fmt.Errorf("%s: %w", c.Path, result.Reason))
		}
		summary.Results = append(summary.Results, result)
	}

	summary.DurationMs = time.Since(start).Milliseconds()
	if summary.Failed > 0 {
		p.logger.Warn("purge finished with failures",
			zap.Int("removed", summary.Removed),
			zap.Int("failed", summary.Failed))
	} else {
		p.logger.Info("purge finished",
			zap.Int("removed", summary.Removed),
			zap.Int("skipped", summary.Skipped),
			zap.Bool("dry_run", dryRun))
	}
	return summary
}

func (p *PurgeExecutor) purgeOne(ctx context.Context, c domain.CandidatePath, dryRun bool) domain.PurgeResult {
	result := domain.PurgeResult{Candidate: c}

	if dryRun {
		p.logger.Info("dry run, not removing", zap.String("path", c.Path))
		result.Outcome = domain.PurgeSkipped
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Outcome = domain.PurgeFailed
		result.Reason = err
		return result
	}

	p.logger.Info("removing", zap.String("path", c.Path), zap.String("rule", string(c.Rule)))
	if err := p.fsManager.Delete(c.Path); err != nil {
		if os.IsNotExist(err) {
			// Already gone counts as removed.
			result.Outcome = domain.PurgeRemoved
			return result
		}
		if os.IsPermission(err) {
			p.logger.Warn("cannot remove (permission denied, file may be in use)",
				zap.String("path", c.Path), zap.Error(err))
		} else {
			p.logger.Warn("failed to remove path",
				zap.String("path", c.Path), zap.Error(err))
		}
		result.Outcome = domain.PurgeFailed
		result.Reason = err
		return result
	}

	result.Outcome = domain.PurgeRemoved
	return result
}

// Ensure PurgeExecutor implements domain.Purger.
var _ domain.Purger = (*PurgeExecutor)(nil)
