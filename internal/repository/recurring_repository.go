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

type RecurringRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecurringRepository(db *pgxpool.Pool, logger *zap.Logger) *RecurringRepository {
	return &RecurringRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RecurringRepository) Create(ctx context.Context, rule *models.RecurringRule) error {
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	query := squirrel.Insert("recurring_rules").
		Columns("id", "amount", "description", "category", "period", "day_of_period", "next_due", "created_at").
		Values(rule.ID, rule.Amount, rule.Description, rule.Category, rule.Period,
			rule.DayOfPeriod, rule.NextDue, rule.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RecurringRepository) List(ctx context.Context) ([]models.RecurringRule, error) {
	return r.list(ctx, nil)
}

// ListDue returns rules whose next occurrence is at or before now, oldest
// first so catch-up fires in order.
func (r *RecurringRepository) ListDue(ctx context.Context, now time.Time) ([]models.RecurringRule, error) {
	return r.list(ctx, squirrel.LtOrEq{"next_due": now})
}

func (r *RecurringRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]models.RecurringRule, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Gt{"next_due": from},
		squirrel.LtOrEq{"next_due": to},
	})
}

func (r *RecurringRepository) list(ctx context.Context, cond squirrel.Sqlizer) ([]models.RecurringRule, error) {
	query := squirrel.Select("id", "amount", "description", "category", "period", "day_of_period", "next_due", "created_at").
		From("recurring_rules").
		OrderBy("next_due ASC").
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

	var rules []models.RecurringRule
	for rows.Next() {
		var rule models.RecurringRule
		if err := rows.Scan(&rule.ID, &rule.Amount, &rule.Description, &rule.Category,
			&rule.Period, &rule.DayOfPeriod, &rule.NextDue, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RecurringRepository) Update(ctx context.Context, rule *models.RecurringRule) error {
	query := squirrel.Update("recurring_rules").
		Set("amount", rule.Amount).
		Set("description", rule.Description).
		Set("category", rule.Category).
		Set("period", rule.Period).
		Set("day_of_period", rule.DayOfPeriod).
		Set("next_due", rule.NextDue).
		Where(squirrel.Eq{"id": rule.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("recurring_rules").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
