package repository

import (
	"context"
	"time"

	"smsledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ArchiveRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewArchiveRepository(db *pgxpool.Pool, logger *zap.Logger) *ArchiveRepository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Insert archives a raw message. The unique constraint on (sender, body,
// sms_timestamp) plus DO NOTHING makes re-ingesting the same physical SMS a
// no-op; the return value reports whether a row was actually written.
func (r *ArchiveRepository) Insert(ctx context.Context, msg *models.ArchivedMessage) (bool, error) {
	if msg.ArchivedAt.IsZero() {
		msg.ArchivedAt = time.Now()
	}

	query := squirrel.Insert("archived_messages").
		Columns("id", "sender", "body", "sms_timestamp", "archived_at").
		Values(msg.ID, msg.Sender, msg.Body, msg.SMSTimestamp, msg.ArchivedAt).
		Suffix("ON CONFLICT (sender, body, sms_timestamp) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ArchiveRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := squirrel.Delete("archived_messages").
		Where(squirrel.Lt{"sms_timestamp": cutoff}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ArchiveRepository) List(ctx context.Context, limit, offset int) ([]*models.ArchivedMessage, error) {
	query := squirrel.Select("id", "sender", "body", "sms_timestamp", "archived_at").
		From("archived_messages").
		OrderBy("sms_timestamp DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ArchivedMessage
	for rows.Next() {
		var msg models.ArchivedMessage
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Body, &msg.SMSTimestamp, &msg.ArchivedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}
