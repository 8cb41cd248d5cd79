// Package marketdata fetches delayed quotes from Yahoo Finance's chart API.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 10 * time.Second
	// Yahoo rejects requests without a browser-like agent.
	userAgent = "Mozilla/5.0 (compatible; StockFortress/1.0)"
)

var errNoData = errors.New("no chart data")

type Yahoo struct {
	baseURL string
	client  *http.Client
}

func NewYahoo(baseURL string) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Yahoo{
		baseURL: baseURL,
		client:  httpx.NewClient(defaultTimeout, ""),
	}
}

func (y *Yahoo) Quote(ctx context.Context, ticker value.Ticker) (entity.Quote, error) {
	u := y.baseURL + "/v8/finance/chart/" + url.PathEscape(ticker.String()) + "?range=1d&interval=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.Quote{}, fmt.Errorf("yahoo %s: status %d", ticker, resp.StatusCode)
	}

	meta := gjson.GetBytes(raw, "chart.result.0.meta")
	if !meta.Exists() {
		return entity.Quote{}, fmt.Errorf("yahoo %s: %w", ticker, errNoData)
	}

	price := meta.Get("regularMarketPrice").Float()

	prev := meta.Get("chartPreviousClose").Float()
	if prev == 0 {
		prev = meta.Get("previousClose").Float()
	}

	return entity.NewQuote(price, prev), nil
}
