package report_test

import (
	"context"
	"sync"
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/report"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]entity.Report
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]entity.Report)}
}

func (c *memoryCache) Get(_ context.Context, key string) (entity.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.items[key]
	if !ok {
		return entity.Report{}, report.ErrCacheMiss
	}

	return r, nil
}

func (c *memoryCache) Set(_ context.Context, key string, r entity.Report, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = r

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)

	return nil
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

type CompleterMock struct {
	CompleteFunc func(ctx context.Context, prompt entity.Prompt) (string, error)

	mu    sync.Mutex
	calls []entity.Prompt
}

func (m *CompleterMock) Complete(ctx context.Context, prompt entity.Prompt) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	return m.CompleteFunc(ctx, prompt)
}

func (m *CompleterMock) CompleteCalls() []entity.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]entity.Prompt(nil), m.calls...)
}

type QuotaMock struct {
	AcquireFunc func(ctx context.Context, subject usage.Subject) (entity.Quota, error)
	PeekFunc    func(ctx context.Context, subject usage.Subject) (entity.Quota, error)

	mu       sync.Mutex
	released int
}

func (m *QuotaMock) Acquire(ctx context.Context, subject usage.Subject) (entity.Quota, error) {
	return m.AcquireFunc(ctx, subject)
}

func (m *QuotaMock) Release(context.Context, usage.Subject) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.released++
}

func (m *QuotaMock) Peek(ctx context.Context, subject usage.Subject) (entity.Quota, error) {
	if m.PeekFunc == nil {
		return entity.Quota{}, nil
	}

	return m.PeekFunc(ctx, subject)
}

func (m *QuotaMock) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.released
}

type RepositoryMock struct {
	mu    sync.Mutex
	saved []entity.SavedReport
}

func (m *RepositoryMock) Save(_ context.Context, r entity.SavedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saved = append(m.saved, r)

	return nil
}

func (m *RepositoryMock) ListByUser(_ context.Context, userID string, limit int) ([]entity.SavedReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.SavedReport

	for _, r := range m.saved {
		if r.UserID == userID && len(out) < limit {
			out = append(out, r)
		}
	}

	return out, nil
}

func (m *RepositoryMock) Exists(_ context.Context, userID string, ticker value.Ticker) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.saved {
		if r.UserID == userID && r.Ticker == ticker {
			return true, nil
		}
	}

	return false, nil
}

type BlogEnqueuerMock struct {
	mu      sync.Mutex
	tickers []value.Ticker
}

func (m *BlogEnqueuerMock) EnqueueBlog(_ context.Context, ticker value.Ticker, _ entity.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickers = append(m.tickers, ticker)

	return nil
}

func (m *BlogEnqueuerMock) Tickers() []value.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]value.Ticker(nil), m.tickers...)
}
