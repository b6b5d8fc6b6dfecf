package repository

import (
	"context"
	"errors"
	"time"

	"smsledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SummaryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSummaryRepository(db *pgxpool.Pool, logger *zap.Logger) *SummaryRepository {
	return &SummaryRepository{
		db:     db,
		logger: logger,
	}
}

// GetByDayBank returns (nil, nil) when no summary exists for the pair.
func (r *SummaryRepository) GetByDayBank(ctx context.Context, day time.Time, bank string) (*models.LiteSummary, error) {
	query := squirrel.Select("id", "day", "bank", "tx_count", "total_amount", "created_at", "updated_at").
		From("lite_summaries").
		Where(squirrel.Eq{"day": day, "bank": bank}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var s models.LiteSummary
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.Day, &s.Bank, &s.TxCount, &s.TotalAmount, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SummaryRepository) Create(ctx context.Context, summary *models.LiteSummary) error {
	now := time.Now()
	summary.CreatedAt = now
	summary.UpdatedAt = now

	query := squirrel.Insert("lite_summaries").
		Columns("id", "day", "bank", "tx_count", "total_amount", "created_at", "updated_at").
		Values(summary.ID, summary.Day, summary.Bank, summary.TxCount, summary.TotalAmount,
			summary.CreatedAt, summary.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SummaryRepository) Update(ctx context.Context, summary *models.LiteSummary) error {
	query := squirrel.Update("lite_summaries").
		Set("tx_count", summary.TxCount).
		Set("total_amount", summary.TotalAmount).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": summary.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SummaryRepository) List(ctx context.Context, limit, offset int) ([]*models.LiteSummary, error) {
	query := squirrel.Select("id", "day", "bank", "tx_count", "total_amount", "created_at", "updated_at").
		From("lite_summaries").
		OrderBy("day DESC", "bank ASC").
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

	var summaries []*models.LiteSummary
	for rows.Next() {
		var s models.LiteSummary
		if err := rows.Scan(&s.ID, &s.Day, &s.Bank, &s.TxCount, &s.TotalAmount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}
