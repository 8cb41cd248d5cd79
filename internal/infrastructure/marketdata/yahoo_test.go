package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/marketdata"
)

func TestYahooQuote(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v8/finance/chart/AAPL":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":189.456,"chartPreviousClose":185}}],"error":null}}`))
		case "/v8/finance/chart/BRK.B":
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":410,"previousClose":400}}]}}`))
		case "/v8/finance/chart/NONE":
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	y := marketdata.NewYahoo(srv.URL)

	q, err := y.Quote(context.Background(), "AAPL")
	rq.NoError(err)
	rq.Equal(entity.NewQuote(189.456, 185), q)

	q, err = y.Quote(context.Background(), "BRK.B")
	rq.NoError(err)
	rq.InDelta(2.5, q.Percent, 0.0001)

	_, err = y.Quote(context.Background(), "NONE")
	rq.Error(err)

	_, err = y.Quote(context.Background(), "FAIL")
	rq.Error(err)
}
