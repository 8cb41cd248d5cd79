package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	quoteTTL       = 30 * time.Second
	fetchLimit     = 8
	MaxBulkTickers = 50
)

type QuoteProvider interface {
	Quote(ctx context.Context, ticker value.Ticker) (entity.Quote, error)
}

type Service struct {
	provider QuoteProvider
	cache    *cache.Cache
}

func NewService(provider QuoteProvider) *Service {
	return &Service{
		provider: provider,
		cache:    cache.New(quoteTTL, 2*quoteTTL),
	}
}

// BulkQuotes quotes every ticker concurrently. A symbol that cannot be quoted
// gets a zero quote instead of failing the batch.
func (s *Service) BulkQuotes(ctx context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote {
	quotes := make([]entity.Quote, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)

	for i, ticker := range tickers {
		if cached, ok := s.cache.Get(ticker.String()); ok {
			quotes[i] = cached.(entity.Quote) //nolint:forcetypeassert
			continue
		}

		g.Go(func() error {
			q, err := s.provider.Quote(gctx, ticker)
			if err != nil {
				metrics.QuoteFailuresTotal.Inc()
				logger(ctx).Warn("provider.Quote", slog.String(logx.FieldTicker, ticker.String()), logx.Error(err))

				return nil
			}

			quotes[i] = q
			s.cache.SetDefault(ticker.String(), q)

			return nil
		})
	}

	_ = g.Wait()

	out := make(map[value.Ticker]entity.Quote, len(tickers))
	for i, ticker := range tickers {
		out[ticker] = quotes[i]
	}

	return out
}

// Quote returns a single quote, served from the short-lived cache when fresh.
func (s *Service) Quote(ctx context.Context, ticker value.Ticker) entity.Quote {
	return s.BulkQuotes(ctx, []value.Ticker{ticker})[ticker]
}
