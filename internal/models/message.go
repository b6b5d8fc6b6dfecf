package models

import (
	"time"

	"github.com/google/uuid"
)

// RawMessage is an incoming SMS tuple before any parsing. It is never
// persisted as such; it becomes a Transaction, a LiteSummary, an
// ArchivedMessage, or is discarded.
type RawMessage struct {
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// ArchivedMessage is a raw SMS kept for audit/backup after it produced a
// financial record. Unique on (sender, body, sms_timestamp).
type ArchivedMessage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Sender       string    `json:"sender" db:"sender"`
	Body         string    `json:"body" db:"body"`
	SMSTimestamp time.Time `json:"sms_timestamp" db:"sms_timestamp"`
	ArchivedAt   time.Time `json:"archived_at" db:"archived_at"`
}
