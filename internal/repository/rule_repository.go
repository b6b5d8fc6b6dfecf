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

type RuleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRuleRepository(db *pgxpool.Pool, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

func (r *RuleRepository) Create(ctx context.Context, rule *models.CategoryRule) error {
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	query := squirrel.Insert("category_rules").
		Columns("id", "field", "matcher", "keyword", "category", "priority", "logic", "created_at").
		Values(rule.ID, rule.Field, rule.Matcher, rule.Keyword, rule.Category,
			rule.Priority, rule.Logic, rule.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListOrdered returns rules by descending priority with insertion order as
// the tie-break, so classification is deterministic.
func (r *RuleRepository) ListOrdered(ctx context.Context) ([]models.CategoryRule, error) {
	query := squirrel.Select("id", "field", "matcher", "keyword", "category", "priority", "logic", "created_at").
		From("category_rules").
		OrderBy("priority DESC", "created_at ASC", "id ASC").
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

	var rules []models.CategoryRule
	for rows.Next() {
		var rule models.CategoryRule
		if err := rows.Scan(&rule.ID, &rule.Field, &rule.Matcher, &rule.Keyword, &rule.Category,
			&rule.Priority, &rule.Logic, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *RuleRepository) Update(ctx context.Context, rule *models.CategoryRule) error {
	query := squirrel.Update("category_rules").
		Set("field", rule.Field).
		Set("matcher", rule.Matcher).
		Set("keyword", rule.Keyword).
		Set("category", rule.Category).
		Set("priority", rule.Priority).
		Set("logic", rule.Logic).
		Where(squirrel.Eq{"id": rule.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("category_rules").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
