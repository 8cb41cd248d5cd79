package watchlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Repository interface {
	List(ctx context.Context, userID string) ([]entity.WatchlistItem, error)
	Upsert(ctx context.Context, item entity.WatchlistItem) (entity.WatchlistItem, error)
	Delete(ctx context.Context, userID string, ticker value.Ticker) error
	Tickers(ctx context.Context) ([]value.Ticker, error)
}

type Service struct {
	repo Repository
}

// NewService builds the watchlist service. A nil repo disables it.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]entity.WatchlistItem, error) {
	if err := s.require(); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.List: %w", err)
	}

	if items == nil {
		items = []entity.WatchlistItem{}
	}

	return items, nil
}

// Add puts the ticker on the user's watchlist, refreshing the verdict when it
// is already there.
func (s *Service) Add(ctx context.Context, userID string, ticker value.Ticker, verdict string) (entity.WatchlistItem, error) {
	if err := s.require(); err != nil {
		return entity.WatchlistItem{}, err
	}

	item := entity.WatchlistItem{UserID: userID, Ticker: ticker}

	if v := strings.ToUpper(strings.TrimSpace(verdict)); v != "" {
		item.LastVerdict = &v
	}

	saved, err := s.repo.Upsert(ctx, item)
	if err != nil {
		return entity.WatchlistItem{}, fmt.Errorf("repo.Upsert: %w", err)
	}

	logger(ctx).Info("watchlist item saved",
		slog.String(logx.FieldUserID, userID),
		slog.String(logx.FieldTicker, ticker.String()),
	)

	return saved, nil
}

func (s *Service) Remove(ctx context.Context, userID string, ticker value.Ticker) error {
	if err := s.require(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, ticker); err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}

	return nil
}

// Tickers lists every distinct watched ticker across users.
func (s *Service) Tickers(ctx context.Context) ([]value.Ticker, error) {
	if s.repo == nil {
		return nil, nil
	}

	tickers, err := s.repo.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.Tickers: %w", err)
	}

	return tickers, nil
}

func (s *Service) require() error {
	if s.repo == nil {
		return domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	return nil
}
