package repository

import (
	"context"
	"time"

	"smsledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now()
	}

	query := squirrel.Insert("budgets").
		Columns("id", "category", "amount", "period", "active", "rollover", "last_notified_at", "created_at").
		Values(budget.ID, budget.Category, budget.Amount, budget.Period, budget.Active,
			budget.Rollover, budget.LastNotifiedAt, budget.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) List(ctx context.Context) ([]models.Budget, error) {
	return r.list(ctx, nil)
}

func (r *BudgetRepository) ListActive(ctx context.Context) ([]models.Budget, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

func (r *BudgetRepository) list(ctx context.Context, cond squirrel.Sqlizer) ([]models.Budget, error) {
	query := squirrel.Select("id", "category", "amount", "period", "active", "rollover", "last_notified_at", "created_at").
		From("budgets").
		OrderBy("category ASC").
		PlaceholderFormat(squirrel.Dollar)
	if cond != nil {
		query = query.Where(cond)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Period, &b.Active,
			&b.Rollover, &b.LastNotifiedAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

func (r *BudgetRepository) Update(ctx context.Context, budget *models.Budget) error {
	query := squirrel.Update("budgets").
		Set("category", budget.Category).
		Set("amount", budget.Amount).
		Set("period", budget.Period).
		Set("active", budget.Active).
		Set("rollover", budget.Rollover).
		Where(squirrel.Eq{"id": budget.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) SetLastNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := squirrel.Update("budgets").
		Set("last_notified_at", at).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("budgets").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
