package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget caps spend for one category per period. LastNotifiedAt debounces
// overage alerts to once per period.
type Budget struct {
	ID             uuid.UUID  `db:"id"`
	Category       string     `db:"category"`
	Amount         float64    `db:"amount"`
	Period         PeriodType `db:"period"`
	Active         bool       `db:"active"`
	Rollover       bool       `db:"rollover"`
	LastNotifiedAt *time.Time `db:"last_notified_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

type NotificationKind string

const (
	NotificationBudgetExceeded  NotificationKind = "BUDGET_EXCEEDED"
	NotificationPaymentUpcoming NotificationKind = "PAYMENT_UPCOMING"
)

// Notification is a persisted event for the UI collaborator to poll.
// ReferenceID points at the budget or recurring rule that produced it.
type Notification struct {
	ID          uuid.UUID        `db:"id"`
	Kind        NotificationKind `db:"kind"`
	Title       string           `db:"title"`
	Message     string           `db:"message"`
	Category    string           `db:"category"`
	Amount      float64          `db:"amount"`
	ReferenceID string           `db:"reference_id"`
	DueAt       *time.Time       `db:"due_at"`
	CreatedAt   time.Time        `db:"created_at"`
	ReadAt      *time.Time       `db:"read_at"`
}
