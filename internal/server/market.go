package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/market"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/req"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

type marketService interface {
	BulkQuotes(ctx context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote
}

type MarketServer struct {
	marketService marketService
}

func NewMarketServer(marketService marketService) MarketServer {
	return MarketServer{
		marketService: marketService,
	}
}

func (s MarketServer) getBulkQuotes(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	tickers, err := value.ParseTickerList(req.QueryString(r, "tickers", ""))
	if err != nil {
		return fmt.Errorf("value.ParseTickerList: %w", err)
	}

	if len(tickers) > market.MaxBulkTickers {
		return failure.NewInvalidArgumentError(
			"too many tickers",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(fmt.Sprintf("at most %d tickers per request", market.MaxBulkTickers)),
		)
	}

	result := make(map[string]rest.Quote, len(tickers))

	if len(tickers) > 0 {
		for ticker, q := range s.marketService.BulkQuotes(ctx, tickers) {
			result[ticker.String()] = rest.Quote{Price: q.Price, Change: q.Change, Percent: q.Percent}
		}
	}

	reply.JSON(ctx, w, http.StatusOK, result)

	return nil
}
