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

var transactionColumns = []string{
	"id", "amount", "direction", "occurred_at", "description", "counterparty",
	"category", "note", "bank_name", "archived", "deleted_at", "linked_id",
	"receipt_path", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.Amount, tx.Direction, tx.OccurredAt, tx.Description, tx.Counterparty,
			tx.Category, tx.Note, tx.BankName, tx.Archived, tx.DeletedAt, tx.LinkedID,
			tx.ReceiptPath, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ExistsMatching implements the content dedup key: (amount, timestamp,
// description).
func (r *TransactionRepository) ExistsMatching(ctx context.Context, amount float64, occurredAt time.Time, description string) (bool, error) {
	query := squirrel.Select("1").
		From("transactions").
		Where(squirrel.Eq{"amount": amount, "occurred_at": occurredAt, "description": description}).
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

func (r *TransactionRepository) NewestTimestamp(ctx context.Context) (*time.Time, error) {
	var newest *time.Time
	err := r.db.QueryRow(ctx, "SELECT MAX(occurred_at) FROM transactions").Scan(&newest)
	if err != nil {
		return nil, err
	}
	return newest, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.Amount, &tx.Direction, &tx.OccurredAt, &tx.Description, &tx.Counterparty,
		&tx.Category, &tx.Note, &tx.BankName, &tx.Archived, &tx.DeletedAt, &tx.LinkedID,
		&tx.ReceiptPath, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("occurred_at DESC").
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

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Amount, &tx.Direction, &tx.OccurredAt, &tx.Description, &tx.Counterparty,
			&tx.Category, &tx.Note, &tx.BankName, &tx.Archived, &tx.DeletedAt, &tx.LinkedID,
			&tx.ReceiptPath, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category *string) error {
	query := squirrel.Update("transactions").
		Set("category", category).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SoftDelete marks a transaction archived with a pending-deletion stamp; it
// stays recoverable until the retention purge.
func (r *TransactionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := squirrel.Update("transactions").
		Set("archived", true).
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) Restore(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Update("transactions").
		Set("archived", false).
		Set("deleted_at", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := squirrel.Delete("transactions").
		Where(squirrel.NotEq{"deleted_at": nil}).
		Where(squirrel.Lt{"deleted_at": cutoff}).
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

// SumDebits totals live DEBIT spend for a category within [start, end),
// excluding categories matching the refund keyword.
func (r *TransactionRepository) SumDebits(ctx context.Context, category string, start, end time.Time, refundKeyword string) (float64, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(squirrel.Eq{"direction": models.DirectionDebit, "category": category, "deleted_at": nil}).
		Where(squirrel.GtOrEq{"occurred_at": start}).
		Where(squirrel.Lt{"occurred_at": end}).
		PlaceholderFormat(squirrel.Dollar)

	if refundKeyword != "" {
		query = query.Where(squirrel.NotILike{"category": "%" + refundKeyword + "%"})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
