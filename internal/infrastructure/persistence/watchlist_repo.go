package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

type WatchlistRepository struct {
	db *sqlx.DB
}

func NewWatchlistRepository(db *sqlx.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) List(ctx context.Context, userID string) ([]entity.WatchlistItem, error) {
	query := `
		SELECT user_id, ticker, last_verdict, created_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var schemas []watchlistSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID); err != nil {
		return nil, internal(err, "failed to list watchlist")
	}

	result := make([]entity.WatchlistItem, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

// Upsert adds the ticker or refreshes its verdict. An empty verdict keeps the
// stored one.
func (r *WatchlistRepository) Upsert(ctx context.Context, item entity.WatchlistItem) (entity.WatchlistItem, error) {
	query := `
		INSERT INTO watchlist_items (user_id, ticker, last_verdict, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, ticker) DO UPDATE SET
			last_verdict = COALESCE(EXCLUDED.last_verdict, watchlist_items.last_verdict)
		RETURNING user_id, ticker, last_verdict, created_at`

	var schema watchlistSchema

	err := r.db.GetContext(ctx, &schema, query,
		item.UserID, item.Ticker.String(), nullString(item.LastVerdict), time.Now().UTC(),
	)
	if err != nil {
		return entity.WatchlistItem{}, internal(err, "failed to upsert watchlist item")
	}

	return schema.toDomain(), nil
}

func (r *WatchlistRepository) Delete(ctx context.Context, userID string, ticker value.Ticker) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = $1 AND ticker = $2`,
		userID, ticker.String(),
	)
	if err != nil {
		return internal(err, "failed to delete watchlist item")
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NewError(errcodes.WatchlistItemNotFound, "Ticker is not on the watchlist")
	}

	return nil
}

// Tickers returns every ticker watched by anyone.
func (r *WatchlistRepository) Tickers(ctx context.Context) ([]value.Ticker, error) {
	var raw []string
	if err := r.db.SelectContext(ctx, &raw, `SELECT DISTINCT ticker FROM watchlist_items ORDER BY ticker`); err != nil {
		return nil, internal(err, "failed to list watched tickers")
	}

	result := make([]value.Ticker, 0, len(raw))
	for _, t := range raw {
		result = append(result, value.Ticker(t))
	}

	return result, nil
}
