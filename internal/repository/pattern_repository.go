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

type PatternRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPatternRepository(db *pgxpool.Pool, logger *zap.Logger) *PatternRepository {
	return &PatternRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PatternRepository) Create(ctx context.Context, pattern *models.CustomPattern) error {
	if pattern.CreatedAt.IsZero() {
		pattern.CreatedAt = time.Now()
	}

	// New patterns go to the end of the precedence order unless the caller
	// set an explicit position.
	if pattern.Position == 0 {
		if err := r.db.QueryRow(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM custom_patterns").Scan(&pattern.Position); err != nil {
			return err
		}
	}

	query := squirrel.Insert("custom_patterns").
		Columns("id", "expression", "position", "created_at").
		Values(pattern.ID, pattern.Expression, pattern.Position, pattern.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *PatternRepository) List(ctx context.Context) ([]models.CustomPattern, error) {
	query := squirrel.Select("id", "expression", "position", "created_at").
		From("custom_patterns").
		OrderBy("position ASC", "created_at ASC").
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

	var patterns []models.CustomPattern
	for rows.Next() {
		var p models.CustomPattern
		if err := rows.Scan(&p.ID, &p.Expression, &p.Position, &p.CreatedAt); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	return patterns, rows.Err()
}

// ListExpressions returns just the raw expressions in precedence order, for
// the parser snapshot.
func (r *PatternRepository) ListExpressions(ctx context.Context) ([]string, error) {
	patterns, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	expressions := make([]string, 0, len(patterns))
	for _, p := range patterns {
		expressions = append(expressions, p.Expression)
	}
	return expressions, nil
}

func (r *PatternRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("custom_patterns").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
