package models

import (
	"time"

	"github.com/google/uuid"
)

type PeriodType string

const (
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodYearly  PeriodType = "YEARLY"
)

// RecurringRule synthesizes a debit transaction every period. DayOfPeriod is
// the anchor day (weekday number for WEEKLY, day of month for MONTHLY, day
// of year's month for YEARLY); the anchor is clamped to the target month's
// length when advancing, never mutated.
type RecurringRule struct {
	ID          uuid.UUID  `db:"id"`
	Amount      float64    `db:"amount"`
	Description string     `db:"description"`
	Category    *string    `db:"category"`
	Period      PeriodType `db:"period"`
	DayOfPeriod int        `db:"day_of_period"`
	NextDue     time.Time  `db:"next_due"`
	CreatedAt   time.Time  `db:"created_at"`
}
