package service

import (
	"context"
	"time"

	"smsledger/internal/models"

	"github.com/google/uuid"
)

// Store contracts consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes.

// Deduplicator decides whether an incoming record duplicates a persisted
// one. The (amount, timestamp, description) key is an approximation kept
// behind this interface so a stronger key (e.g. bank reference number) can
// replace it without touching the orchestrator.
type Deduplicator interface {
	ExistsMatching(ctx context.Context, amount float64, occurredAt time.Time, description string) (bool, error)
}

type TransactionStore interface {
	Deduplicator
	Create(ctx context.Context, tx *models.Transaction) error
	NewestTimestamp(ctx context.Context) (*time.Time, error)
}

type SummaryStore interface {
	// GetByDayBank returns (nil, nil) when no summary exists for the pair.
	GetByDayBank(ctx context.Context, day time.Time, bank string) (*models.LiteSummary, error)
	Create(ctx context.Context, summary *models.LiteSummary) error
	Update(ctx context.Context, summary *models.LiteSummary) error
}

type ArchiveStore interface {
	// Insert archives a raw message with insert-ignore-on-conflict
	// semantics and reports whether a row was actually written.
	Insert(ctx context.Context, msg *models.ArchivedMessage) (bool, error)
}

type PatternStore interface {
	ListExpressions(ctx context.Context) ([]string, error)
}

type RuleStore interface {
	ListOrdered(ctx context.Context) ([]models.CategoryRule, error)
}

type RecurringStore interface {
	ListDue(ctx context.Context, now time.Time) ([]models.RecurringRule, error)
	ListUpcoming(ctx context.Context, from, to time.Time) ([]models.RecurringRule, error)
	Update(ctx context.Context, rule *models.RecurringRule) error
}

type BudgetStore interface {
	ListActive(ctx context.Context) ([]models.Budget, error)
	SetLastNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}

type SpendStore interface {
	// SumDebits totals non-deleted DEBIT spend for a category within
	// [start, end), excluding categories matching the refund keyword.
	SumDebits(ctx context.Context, category string, start, end time.Time, refundKeyword string) (float64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	HasSince(ctx context.Context, kind models.NotificationKind, referenceID string, since time.Time) (bool, error)
}

type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
}
