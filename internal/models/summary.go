package models

import (
	"time"

	"github.com/google/uuid"
)

// LiteSummary is a per-day, per-bank aggregate reported by UPI Lite wallet
// SMS. The bank sends a running total for the day, so a newer observation
// for the same (day, bank) overwrites counts and totals in place.
type LiteSummary struct {
	ID          uuid.UUID `db:"id"`
	Day         time.Time `db:"day"` // start of day, local calendar
	Bank        string    `db:"bank"`
	TxCount     int       `db:"tx_count"`
	TotalAmount float64   `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
