package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Save(ctx context.Context, report entity.SavedReport) error {
	schema, err := fromSavedReport(report)
	if err != nil {
		return internal(err, "failed to encode report")
	}

	if schema.GeneratedAt.IsZero() {
		schema.GeneratedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reports (id, user_id, ticker, report_data, gemini_model, verdict, generated_at)
		VALUES (:id, :user_id, :ticker, :report_data, :gemini_model, :verdict, :generated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, schema); err != nil {
		return internal(err, "failed to save report")
	}

	return nil
}

// ListByUser returns the user's reports, newest first.
func (r *ReportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error) {
	query := `
		SELECT id, user_id, ticker, report_data, gemini_model, verdict, generated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY generated_at DESC
		LIMIT $2`

	var schemas []reportSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID, limit); err != nil {
		return nil, internal(err, "failed to list reports")
	}

	result := make([]entity.SavedReport, 0, len(schemas))

	for _, s := range schemas {
		report, err := s.toDomain()
		if err != nil {
			return nil, internal(err, "failed to decode report")
		}

		result = append(result, report)
	}

	return result, nil
}

func (r *ReportRepository) Exists(ctx context.Context, userID string, ticker value.Ticker) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM reports WHERE user_id = $1 AND ticker = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, ticker.String()); err != nil {
		return false, internal(err, "failed to check report")
	}

	return exists, nil
}
