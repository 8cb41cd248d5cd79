package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// UsageRepository counts monthly report usage per subject in usage_counters.
type UsageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Acquire increments the counter only while it is below limit. No returned row
// means the limit was already reached.
func (r *UsageRepository) Acquire(ctx context.Context, subject, period string, limit int) (int, bool, error) {
	query := `
		INSERT INTO usage_counters (subject, period, used, updated_at)
		VALUES ($1, $2, 1, $4)
		ON CONFLICT (subject, period) DO UPDATE SET
			used = usage_counters.used + 1,
			updated_at = EXCLUDED.updated_at
		WHERE usage_counters.used < $3
		RETURNING used`

	if limit <= 0 {
		used, err := r.Used(ctx, subject, period)
		return used, false, err
	}

	var used int

	err := r.db.GetContext(ctx, &used, query, subject, period, limit, time.Now().UTC())
	if err == nil {
		return used, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, internal(err, "failed to acquire usage")
	}

	used, err = r.Used(ctx, subject, period)
	if err != nil {
		return 0, false, err
	}

	return used, false, nil
}

func (r *UsageRepository) Release(ctx context.Context, subject, period string) error {
	query := `
		UPDATE usage_counters
		SET used = GREATEST(used - 1, 0), updated_at = $3
		WHERE subject = $1 AND period = $2`

	if _, err := r.db.ExecContext(ctx, query, subject, period, time.Now().UTC()); err != nil {
		return internal(err, "failed to release usage")
	}

	return nil
}

func (r *UsageRepository) Used(ctx context.Context, subject, period string) (int, error) {
	var used int

	query := `SELECT used FROM usage_counters WHERE subject = $1 AND period = $2`
	if err := r.db.GetContext(ctx, &used, query, subject, period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, internal(err, "failed to read usage")
	}

	return used, nil
}
