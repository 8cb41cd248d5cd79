package watchlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/watchlist"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

type memoryRepo struct {
	items []entity.WatchlistItem
}

func (m *memoryRepo) List(_ context.Context, userID string) ([]entity.WatchlistItem, error) {
	var out []entity.WatchlistItem

	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}

	return out, nil
}

func (m *memoryRepo) Upsert(_ context.Context, item entity.WatchlistItem) (entity.WatchlistItem, error) {
	for i, it := range m.items {
		if it.UserID == item.UserID && it.Ticker == item.Ticker {
			m.items[i] = item
			return item, nil
		}
	}

	m.items = append(m.items, item)

	return item, nil
}

func (m *memoryRepo) Delete(_ context.Context, userID string, ticker value.Ticker) error {
	for i, it := range m.items {
		if it.UserID == userID && it.Ticker == ticker {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}

	return domain.NewError(errcodes.WatchlistItemNotFound, "Watchlist item not found")
}

func (m *memoryRepo) Tickers(context.Context) ([]value.Ticker, error) {
	seen := map[value.Ticker]bool{}

	var out []value.Ticker

	for _, it := range m.items {
		if !seen[it.Ticker] {
			seen[it.Ticker] = true
			out = append(out, it.Ticker)
		}
	}

	return out, nil
}

func TestWatchlist(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := &memoryRepo{}
	svc := watchlist.NewService(repo)

	_, err := svc.Add(ctx, "u1", "AAPL", "")
	rq.NoError(err)

	item, err := svc.Add(ctx, "u1", "AAPL", "buy")
	rq.NoError(err)
	rq.Equal("BUY", *item.LastVerdict)

	_, err = svc.Add(ctx, "u2", "AAPL", "avoid")
	rq.NoError(err)
	_, err = svc.Add(ctx, "u2", "TSLA", "")
	rq.NoError(err)

	items, err := svc.List(ctx, "u1")
	rq.NoError(err)
	rq.Len(items, 1)

	tickers, err := svc.Tickers(ctx)
	rq.NoError(err)
	rq.Equal([]value.Ticker{"AAPL", "TSLA"}, tickers)

	rq.NoError(svc.Remove(ctx, "u1", "AAPL"))

	err = svc.Remove(ctx, "u1", "AAPL")
	rq.True(domain.HasCode(err, errcodes.WatchlistItemNotFound))

	items, err = svc.List(ctx, "u1")
	rq.NoError(err)
	rq.NotNil(items)
	rq.Empty(items)
}

func TestWatchlistDisabled(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := watchlist.NewService(nil)

	_, err := svc.List(ctx, "u1")
	rq.True(domain.HasCode(err, errcodes.DatabaseNotConfigured))

	tickers, err := svc.Tickers(ctx)
	rq.NoError(err)
	rq.Empty(tickers)
}
