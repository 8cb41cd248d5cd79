package server_test

import (
	"context"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/billing"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type ReportServiceMock struct {
	GetFunc     func(ctx context.Context, ticker value.Ticker, viewer usage.Subject) (entity.ReportResult, error)
	CachedFunc  func(ctx context.Context, ticker value.Ticker) (entity.Report, bool)
	HistoryFunc func(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error)
}

func (m *ReportServiceMock) Get(ctx context.Context, ticker value.Ticker, viewer usage.Subject) (entity.ReportResult, error) {
	return m.GetFunc(ctx, ticker, viewer)
}

func (m *ReportServiceMock) Cached(ctx context.Context, ticker value.Ticker) (entity.Report, bool) {
	return m.CachedFunc(ctx, ticker)
}

func (m *ReportServiceMock) History(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error) {
	return m.HistoryFunc(ctx, userID, limit)
}

type WatchlistServiceMock struct {
	ListFunc   func(ctx context.Context, userID string) ([]entity.WatchlistItem, error)
	AddFunc    func(ctx context.Context, userID string, ticker value.Ticker, verdict string) (entity.WatchlistItem, error)
	RemoveFunc func(ctx context.Context, userID string, ticker value.Ticker) error
}

func (m *WatchlistServiceMock) List(ctx context.Context, userID string) ([]entity.WatchlistItem, error) {
	return m.ListFunc(ctx, userID)
}

func (m *WatchlistServiceMock) Add(ctx context.Context, userID string, ticker value.Ticker, verdict string) (entity.WatchlistItem, error) {
	return m.AddFunc(ctx, userID, ticker, verdict)
}

func (m *WatchlistServiceMock) Remove(ctx context.Context, userID string, ticker value.Ticker) error {
	return m.RemoveFunc(ctx, userID, ticker)
}

type BlogServiceMock struct {
	ListFunc         func(ctx context.Context, filter entity.PostFilter) (entity.PostPage, error)
	GetBySlugFunc    func(ctx context.Context, slug string, renderHTML bool) (entity.Post, error)
	RelatedFunc      func(ctx context.Context, slug string) ([]entity.Post, error)
	AllSlugsFunc     func(ctx context.Context) ([]entity.SlugEntry, error)
	MigrateSlugsFunc func(ctx context.Context) (entity.SlugMigration, error)
}

func (m *BlogServiceMock) List(ctx context.Context, filter entity.PostFilter) (entity.PostPage, error) {
	return m.ListFunc(ctx, filter)
}

func (m *BlogServiceMock) GetBySlug(ctx context.Context, slug string, renderHTML bool) (entity.Post, error) {
	return m.GetBySlugFunc(ctx, slug, renderHTML)
}

func (m *BlogServiceMock) Related(ctx context.Context, slug string) ([]entity.Post, error) {
	return m.RelatedFunc(ctx, slug)
}

func (m *BlogServiceMock) AllSlugs(ctx context.Context) ([]entity.SlugEntry, error) {
	return m.AllSlugsFunc(ctx)
}

func (m *BlogServiceMock) MigrateSlugs(ctx context.Context) (entity.SlugMigration, error) {
	return m.MigrateSlugsFunc(ctx)
}

type BillingServiceMock struct {
	CreateCheckoutFunc  func(ctx context.Context, p billing.CheckoutParams) (string, error)
	SyncCheckoutFunc    func(ctx context.Context, sessionID string) error
	ChangePlanFunc      func(ctx context.Context, p billing.ChangePlanParams) error
	CreateFreeFunc      func(ctx context.Context, userID string) error
	HandleWebhookFunc   func(ctx context.Context, payload []byte, signature string) error
	GetSubscriptionFunc func(ctx context.Context, userID string) (entity.Subscription, error)
}

func (m *BillingServiceMock) Plans() []entity.PlanPrice {
	return []entity.PlanPrice{{Plan: value.PlanFree, Name: "Free", Reports: 3}}
}

func (m *BillingServiceMock) CreateCheckout(ctx context.Context, p billing.CheckoutParams) (string, error) {
	return m.CreateCheckoutFunc(ctx, p)
}

func (m *BillingServiceMock) SyncCheckout(ctx context.Context, sessionID string) error {
	return m.SyncCheckoutFunc(ctx, sessionID)
}

func (m *BillingServiceMock) ChangePlan(ctx context.Context, p billing.ChangePlanParams) error {
	return m.ChangePlanFunc(ctx, p)
}

func (m *BillingServiceMock) CreateFree(ctx context.Context, userID string) error {
	return m.CreateFreeFunc(ctx, userID)
}

func (m *BillingServiceMock) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.HandleWebhookFunc(ctx, payload, signature)
}

func (m *BillingServiceMock) GetSubscription(ctx context.Context, userID string) (entity.Subscription, error) {
	return m.GetSubscriptionFunc(ctx, userID)
}

type MarketServiceMock struct {
	BulkQuotesFunc func(ctx context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote
}

func (m *MarketServiceMock) BulkQuotes(ctx context.Context, tickers []value.Ticker) map[value.Ticker]entity.Quote {
	return m.BulkQuotesFunc(ctx, tickers)
}

type UsageServiceMock struct {
	PeekFunc func(ctx context.Context, subject usage.Subject) (entity.Quota, error)
}

func (m *UsageServiceMock) Peek(ctx context.Context, subject usage.Subject) (entity.Quota, error) {
	return m.PeekFunc(ctx, subject)
}

type SitemapServiceMock struct{}

func (SitemapServiceMock) XML(context.Context) ([]byte, error) {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`), nil
}

func (SitemapServiceMock) Robots() string {
	return "User-agent: *\nSitemap: https://stockfortress.com/sitemap.xml\n"
}
