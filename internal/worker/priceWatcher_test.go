package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type quotesMock struct {
	mu     sync.Mutex
	quotes map[value.Ticker]entity.Quote
	calls  int
}

func (m *quotesMock) BulkQuotes(_ context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	result := make(map[value.Ticker]entity.Quote, len(tickers))
	for _, t := range tickers {
		result[t] = m.quotes[t]
	}

	return result
}

func (m *quotesMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

type tickersFunc func(ctx context.Context) ([]value.Ticker, error)

func (f tickersFunc) Tickers(ctx context.Context) ([]value.Ticker, error) {
	return f(ctx)
}

func TestScan(t *testing.T) {
	rq := require.New(t)

	quotes := &quotesMock{quotes: map[value.Ticker]entity.Quote{
		"NVDA": entity.NewQuote(106, 100),
		"AAPL": entity.NewQuote(101, 100),
		"TSLA": entity.NewQuote(90, 100),
	}}

	watchlist := tickersFunc(func(context.Context) ([]value.Ticker, error) {
		return []value.Ticker{"NVDA", "AAPL", "TSLA", "GONE"}, nil
	})

	alerts := make(chan entity.PriceAlert, 10)

	w, err := worker.NewPriceWatcher(quotes, watchlist, alerts, "@every 5m", 5)
	rq.NoError(err)

	rq.Equal(2, w.Scan(context.Background()))
	rq.Equal(value.Ticker("NVDA"), (<-alerts).Ticker)
	rq.Equal(value.Ticker("TSLA"), (<-alerts).Ticker)

	// Same day, no repeats.
	rq.Zero(w.Scan(context.Background()))
}

func TestScanTargetsOverrideWatchlist(t *testing.T) {
	rq := require.New(t)

	quotes := &quotesMock{quotes: map[value.Ticker]entity.Quote{"AMD": entity.NewQuote(120, 100)}}
	watchlist := tickersFunc(func(context.Context) ([]value.Ticker, error) {
		return nil, errors.New("db down")
	})

	alerts := make(chan entity.PriceAlert, 1)

	w, err := worker.NewPriceWatcher(quotes, watchlist, alerts, "@every 1m", 3)
	rq.NoError(err)

	rq.Zero(w.Scan(context.Background()))

	rq.True(w.AddTarget("AMD"))
	rq.False(w.AddTarget("AMD"))
	rq.Equal([]value.Ticker{"AMD"}, w.Targets())
	rq.Equal(1, w.Scan(context.Background()))

	rq.True(w.RemoveTarget("AMD"))
	rq.False(w.RemoveTarget("AMD"))
	w.AddTarget("X")
	w.ClearTargets()
	rq.Empty(w.Targets())
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	quotes := &quotesMock{quotes: map[value.Ticker]entity.Quote{}}
	alerts := make(chan entity.PriceAlert, 1)

	w, err := worker.NewPriceWatcher(quotes, nil, alerts, "@every 1s", 5)
	rq.NoError(err)
	w.AddTarget("AAPL")

	rq.NoError(w.Start(context.Background()))
	rq.ErrorIs(w.Start(context.Background()), worker.ErrAlreadyRunning)
	rq.True(w.IsRunning())

	rq.Eventually(func() bool { return quotes.Calls() >= 1 }, 3*time.Second, 10*time.Millisecond)

	w.Stop()
	rq.False(w.IsRunning())

	w.Stop()
}

func TestNewPriceWatcherBadSchedule(t *testing.T) {
	_, err := worker.NewPriceWatcher(&quotesMock{}, nil, nil, "every now and then", 5)
	require.Error(t, err)
}
