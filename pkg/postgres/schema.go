package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Statements are idempotent so the service can run them on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		amount DOUBLE PRECISION NOT NULL,
		direction TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		description TEXT NOT NULL,
		counterparty TEXT NOT NULL DEFAULT '',
		category TEXT,
		note TEXT NOT NULL DEFAULT '',
		bank_name TEXT,
		archived BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		linked_id UUID,
		receipt_path TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_occurred_at ON transactions (occurred_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_dedup ON transactions (amount, occurred_at, description)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS lite_summaries (
		id UUID PRIMARY KEY,
		day TIMESTAMPTZ NOT NULL,
		bank TEXT NOT NULL,
		tx_count INTEGER NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (day, bank)
	)`,

	`CREATE TABLE IF NOT EXISTS archived_messages (
		id UUID PRIMARY KEY,
		sender TEXT NOT NULL,
		body TEXT NOT NULL,
		sms_timestamp TIMESTAMPTZ NOT NULL,
		archived_at TIMESTAMPTZ NOT NULL,
		UNIQUE (sender, body, sms_timestamp)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_archived_messages_ts ON archived_messages (sms_timestamp)`,

	`CREATE TABLE IF NOT EXISTS category_rules (
		id UUID PRIMARY KEY,
		field TEXT NOT NULL,
		matcher TEXT NOT NULL,
		keyword TEXT NOT NULL,
		category TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		logic TEXT NOT NULL DEFAULT 'ANY',
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS custom_patterns (
		id UUID PRIMARY KEY,
		expression TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recurring_rules (
		id UUID PRIMARY KEY,
		amount DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		category TEXT,
		period TEXT NOT NULL,
		day_of_period INTEGER NOT NULL,
		next_due TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recurring_rules_next_due ON recurring_rules (next_due)`,

	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY,
		category TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		period TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		rollover BOOLEAN NOT NULL DEFAULT FALSE,
		last_notified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		reference_id TEXT NOT NULL DEFAULT '',
		due_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		read_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_debounce ON notifications (kind, reference_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

func InitSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	logger.Info("Database schema ready")
	return nil
}
