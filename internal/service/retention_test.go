package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCleanupStore struct {
	cutoff time.Time
	purged int64
	err    error
}

func (f *fakeCleanupStore) PurgeDeletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.purged, f.err
}

type fakeArchiveCleanupStore struct {
	cutoff time.Time
	pruned int64
}

func (f *fakeArchiveCleanupStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.pruned, nil
}

func TestCleanupAppliesRetentionWindows(t *testing.T) {
	trash := &fakeCleanupStore{purged: 3}
	archive := &fakeArchiveCleanupStore{pruned: 12}
	svc := NewRetentionService(trash, archive, 30*24*time.Hour, 365*24*time.Hour, zap.NewNop())
	now := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)

	res, err := svc.Cleanup(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.PurgedTransactions)
	assert.Equal(t, int64(12), res.PrunedArchive)
	assert.Equal(t, now.Add(-30*24*time.Hour), trash.cutoff)
	assert.Equal(t, now.Add(-365*24*time.Hour), archive.cutoff)
}

func TestCleanupStopsOnPurgeFailure(t *testing.T) {
	trash := &fakeCleanupStore{err: errStoreDown}
	archive := &fakeArchiveCleanupStore{}
	svc := NewRetentionService(trash, archive, time.Hour, time.Hour, zap.NewNop())

	_, err := svc.Cleanup(context.Background(), time.Now())
	assert.Error(t, err)
	assert.True(t, archive.cutoff.IsZero(), "archive pruning must not run after a purge failure")
}
