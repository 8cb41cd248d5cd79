package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var ErrAlreadyRunning = errors.New("price watcher is already running")

type QuoteSource interface {
	BulkQuotes(ctx context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote
}

type TickerSource interface {
	Tickers(ctx context.Context) ([]value.Ticker, error)
}

// PriceWatcher scans watched tickers on a cron schedule and raises an alert
// when one moves at least movePercent from the previous close. Each ticker
// alerts at most once per UTC day.
type PriceWatcher struct {
	quotes      QuoteSource
	watchlist   TickerSource
	alerts      chan<- entity.PriceAlert
	schedule    cron.Schedule
	movePercent float64
	now         func() time.Time

	// Explicit targets override the watchlist when set.
	targets []value.Ticker
	alerted map[value.Ticker]string

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

// NewPriceWatcher parses spec with the standard cron parser, descriptors such
// as "@every 5m" included. watchlist may be nil.
func NewPriceWatcher(
	quotes QuoteSource,
	watchlist TickerSource,
	alerts chan<- entity.PriceAlert,
	spec string,
	movePercent float64,
) (*PriceWatcher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("cron.ParseStandard: %w", err)
	}

	return &PriceWatcher{
		quotes:      quotes,
		watchlist:   watchlist,
		alerts:      alerts,
		schedule:    schedule,
		movePercent: movePercent,
		now:         time.Now,
		alerted:     make(map[value.Ticker]string),
	}, nil
}

func (w *PriceWatcher) WithTargets(tickers ...value.Ticker) *PriceWatcher {
	w.targets = tickers
	return w
}

func (w *PriceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		w.run(scanCtx)
	}()

	return nil
}

// Stop cancels the loop and waits for an in-flight scan to finish.
func (w *PriceWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *PriceWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *PriceWatcher) run(ctx context.Context) {
	logger(ctx).Info("price watcher started")

	for {
		now := w.now()
		timer := time.NewTimer(w.schedule.Next(now).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger(ctx).Info("price watcher stopped")

			return
		case <-timer.C:
			w.Scan(ctx)
		}
	}
}

// Scan runs one pass and returns the number of alerts raised.
func (w *PriceWatcher) Scan(ctx context.Context) int {
	tickers, err := w.tickers(ctx)
	if err != nil {
		logger(ctx).Error("failed to load watched tickers", logx.Error(err))
		return 0
	}

	if len(tickers) == 0 {
		return 0
	}

	quotes := w.quotes.BulkQuotes(ctx, tickers)
	today := w.now().UTC().Format(time.DateOnly)

	var raised int

	for _, t := range tickers {
		q := quotes[t]
		if q.Price == 0 || math.Abs(q.Percent) < w.movePercent {
			continue
		}

		if !w.markAlerted(t, today) {
			continue
		}

		select {
		case w.alerts <- entity.PriceAlert{Ticker: t, Quote: q}:
			raised++
		case <-ctx.Done():
			return raised
		}
	}

	if raised > 0 {
		logger(ctx).Info("scan cycle completed", slog.Int("alerts", raised), slog.Int("tickers", len(tickers)))
	}

	return raised
}

func (w *PriceWatcher) tickers(ctx context.Context) ([]value.Ticker, error) {
	if targets := w.Targets(); len(targets) > 0 {
		return targets, nil
	}

	if w.watchlist == nil {
		return nil, nil
	}

	tickers, err := w.watchlist.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("watchlist.Tickers: %w", err)
	}

	return tickers, nil
}

func (w *PriceWatcher) markAlerted(t value.Ticker, day string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.alerted[t] == day {
		return false
	}

	w.alerted[t] = day

	return true
}
