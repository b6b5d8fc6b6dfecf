package models

import (
	"time"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionDebit   Direction = "DEBIT"
	DirectionCredit  Direction = "CREDIT"
	DirectionUnknown Direction = "UNKNOWN"
)

// Transaction is a structured financial record derived from an SMS, a
// recurring rule, or manual entry. Amount is always positive; Direction is
// never UNKNOWN for a persisted row.
type Transaction struct {
	ID           uuid.UUID  `db:"id"`
	Amount       float64    `db:"amount"`
	Direction    Direction  `db:"direction"`
	OccurredAt   time.Time  `db:"occurred_at"`
	Description  string     `db:"description"`
	Counterparty string     `db:"counterparty"`
	Category     *string    `db:"category"`
	Note         string     `db:"note"`
	BankName     *string    `db:"bank_name"`
	Archived     bool       `db:"archived"`
	DeletedAt    *time.Time `db:"deleted_at"`
	LinkedID     *uuid.UUID `db:"linked_id"`
	ReceiptPath  *string    `db:"receipt_path"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
