package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PreferenceRepository is a small key-value store for user settings such as
// the refund keyword.
type PreferenceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPreferenceRepository(db *pgxpool.Pool, logger *zap.Logger) *PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns "" for keys that were never set.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	query := squirrel.Select("value").
		From("preferences").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var value string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := squirrel.Insert("preferences").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
