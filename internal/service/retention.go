package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type CleanupStore interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ArchiveCleanupStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type CleanupResult struct {
	PurgedTransactions int64 `json:"purged_transactions"`
	PrunedArchive      int64 `json:"pruned_archive"`
}

// RetentionService permanently removes soft-deleted transactions past their
// retention window and trims old archived messages.
type RetentionService struct {
	transactions  CleanupStore
	archive       ArchiveCleanupStore
	trashMaxAge   time.Duration
	archiveMaxAge time.Duration
	logger        *zap.Logger
}

func NewRetentionService(
	transactions CleanupStore,
	archive ArchiveCleanupStore,
	trashMaxAge, archiveMaxAge time.Duration,
	logger *zap.Logger,
) *RetentionService {
	return &RetentionService{
		transactions:  transactions,
		archive:       archive,
		trashMaxAge:   trashMaxAge,
		archiveMaxAge: archiveMaxAge,
		logger:        logger,
	}
}

func (s *RetentionService) Cleanup(ctx context.Context, now time.Time) (CleanupResult, error) {
	var res CleanupResult

	purged, err := s.transactions.PurgeDeletedBefore(ctx, now.Add(-s.trashMaxAge))
	if err != nil {
		return res, fmt.Errorf("purging deleted transactions: %w", err)
	}
	res.PurgedTransactions = purged

	pruned, err := s.archive.DeleteOlderThan(ctx, now.Add(-s.archiveMaxAge))
	if err != nil {
		return res, fmt.Errorf("pruning archive: %w", err)
	}
	res.PrunedArchive = pruned

	s.logger.Info("Retention cleanup completed",
		zap.Int64("purged_transactions", purged),
		zap.Int64("pruned_archive", pruned),
	)
	return res, nil
}
