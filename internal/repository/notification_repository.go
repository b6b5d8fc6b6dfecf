package repository

import (
	"context"
	"errors"
	"time"

	"smsledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query := squirrel.Insert("notifications").
		Columns("id", "kind", "title", "message", "category", "amount", "reference_id", "due_at", "created_at", "read_at").
		Values(n.ID, n.Kind, n.Title, n.Message, n.Category, n.Amount,
			n.ReferenceID, n.DueAt, n.CreatedAt, n.ReadAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// HasSince reports whether a notification of the given kind for the given
// reference was already created at or after the cutoff. Used to debounce
// repeated alerts for the same cycle.
func (r *NotificationRepository) HasSince(ctx context.Context, kind models.NotificationKind, referenceID string, since time.Time) (bool, error) {
	query := squirrel.Select("1").
		From("notifications").
		Where(squirrel.Eq{"kind": kind, "reference_id": referenceID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *NotificationRepository) List(ctx context.Context, limit, offset int) ([]*models.Notification, error) {
	query := squirrel.Select("id", "kind", "title", "message", "category", "amount", "reference_id", "due_at", "created_at", "read_at").
		From("notifications").
		OrderBy("created_at DESC").
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

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.Title, &n.Message, &n.Category, &n.Amount,
			&n.ReferenceID, &n.DueAt, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("notifications").
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"id": id, "read_at": nil}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
