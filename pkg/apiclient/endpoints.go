package apiclient

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

func (c *Client) Report(ctx context.Context, ticker string) (rest.ReportResponse, error) {
	var resp rest.ReportResponse
	err := c.get(ctx, "/api/report/"+url.PathEscape(ticker), &resp)

	return resp, err
}

func (c *Client) Reports(ctx context.Context, limit int) (rest.ReportsResponse, error) {
	var resp rest.ReportsResponse
	err := c.get(ctx, "/api/reports?limit="+strconv.Itoa(limit), &resp)

	return resp, err
}

func (c *Client) Usage(ctx context.Context) (rest.Quota, error) {
	var resp rest.Quota
	err := c.get(ctx, "/api/usage", &resp)

	return resp, err
}

func (c *Client) Me(ctx context.Context) (rest.Session, error) {
	var resp rest.Session
	err := c.get(ctx, "/api/me", &resp)

	return resp, err
}

type BlogQuery struct {
	Page    int
	Limit   int
	Verdict string
	Ticker  string
}

func (c *Client) Blog(ctx context.Context, q BlogQuery) (rest.PostPage, error) {
	params := url.Values{}

	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Verdict != "" {
		params.Set("verdict", q.Verdict)
	}

	if q.Ticker != "" {
		params.Set("ticker", q.Ticker)
	}

	endpoint := "/api/blog"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var resp rest.PostPage
	err := c.get(ctx, endpoint, &resp)

	return resp, err
}

func (c *Client) BlogPost(ctx context.Context, slug string, html bool) (rest.Post, error) {
	endpoint := "/api/blog/" + url.PathEscape(slug)
	if html {
		endpoint += "?format=html"
	}

	var resp rest.Post
	err := c.get(ctx, endpoint, &resp)

	return resp, err
}

func (c *Client) RelatedPosts(ctx context.Context, slug string) (rest.PostsResponse, error) {
	var resp rest.PostsResponse
	err := c.get(ctx, "/api/blog/"+url.PathEscape(slug)+"/related", &resp)

	return resp, err
}

func (c *Client) Quotes(ctx context.Context, tickers []string) (map[string]rest.Quote, error) {
	resp := map[string]rest.Quote{}
	err := c.get(ctx, "/api/market-data/bulk?tickers="+url.QueryEscape(strings.Join(tickers, ",")), &resp)

	return resp, err
}

func (c *Client) Watchlist(ctx context.Context) (rest.WatchlistResponse, error) {
	var resp rest.WatchlistResponse
	err := c.get(ctx, "/api/watchlist", &resp)

	return resp, err
}

func (c *Client) Watch(ctx context.Context, ticker string) (rest.WatchlistItem, error) {
	var resp rest.WatchlistItem
	err := c.post(ctx, "/api/watchlist", rest.WatchRequest{Ticker: ticker}, &resp)

	return resp, err
}

func (c *Client) Unwatch(ctx context.Context, ticker string) error {
	return c.delete(ctx, "/api/watchlist/"+url.PathEscape(ticker), nil)
}

func (c *Client) Plans(ctx context.Context) (rest.PlansResponse, error) {
	var resp rest.PlansResponse
	err := c.get(ctx, "/api/billing/plans", &resp)

	return resp, err
}

func (c *Client) CreateCheckout(ctx context.Context, request rest.CheckoutRequest) (rest.CheckoutResponse, error) {
	var resp rest.CheckoutResponse
	err := c.post(ctx, "/api/billing/create-checkout", request, &resp)

	return resp, err
}

func (c *Client) Health(ctx context.Context) (rest.Health, error) {
	var resp rest.Health
	err := c.get(ctx, "/api/health", &resp)

	return resp, err
}
