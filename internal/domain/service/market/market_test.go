package market_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/market"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type QuoteProviderMock struct {
	QuoteFunc func(ctx context.Context, ticker value.Ticker) (entity.Quote, error)
	calls     atomic.Int32
}

func (m *QuoteProviderMock) Quote(ctx context.Context, ticker value.Ticker) (entity.Quote, error) {
	m.calls.Add(1)
	return m.QuoteFunc(ctx, ticker)
}

func TestBulkQuotes(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	provider := &QuoteProviderMock{
		QuoteFunc: func(_ context.Context, ticker value.Ticker) (entity.Quote, error) {
			switch ticker {
			case "AAPL":
				return entity.NewQuote(190.123, 187.5), nil
			case "NODATA":
				return entity.NewQuote(0, 0), nil
			default:
				return entity.Quote{}, errors.New("not found")
			}
		},
	}

	svc := market.NewService(provider)

	quotes := svc.BulkQuotes(ctx, []value.Ticker{"AAPL", "NODATA", "ZZZZ"})
	rq.Len(quotes, 3)
	rq.Equal(entity.Quote{Price: 190.12, Change: 2.62, Percent: 1.4}, quotes["AAPL"])
	rq.Equal(entity.Quote{}, quotes["NODATA"])
	rq.Equal(entity.Quote{}, quotes["ZZZZ"])
	rq.EqualValues(3, provider.calls.Load())

	rq.Equal(190.12, svc.Quote(ctx, "AAPL").Price)
	rq.EqualValues(3, provider.calls.Load())

	rq.Empty(svc.BulkQuotes(ctx, nil))
}

func TestBulkQuotesManyTickers(t *testing.T) {
	rq := require.New(t)

	var inFlight, peak atomic.Int32

	provider := &QuoteProviderMock{
		QuoteFunc: func(context.Context, value.Ticker) (entity.Quote, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}

			return entity.NewQuote(10, 9), nil
		},
	}

	tickers := make([]value.Ticker, 0, 30)
	for i := range 30 {
		tickers = append(tickers, value.Ticker("T"+string(rune('A'+i%26))+string(rune('A'+i/26))))
	}

	quotes := market.NewService(provider).BulkQuotes(context.Background(), tickers)
	rq.Len(quotes, 30)
	rq.LessOrEqual(peak.Load(), int32(8))
}
