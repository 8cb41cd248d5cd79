package report_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/report"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
)

const reportJSON = `{
  "meta": {"ticker": "AAPL", "company_name": "Apple Inc.", "current_price": 189.5},
  "step_2_check_the_financials": {"profitable": true},
  "step_7_verdict": {"action": "buy", "confidence": "HIGH"},
  "extra_key": {"kept": true}
}`

func allowQuota() *QuotaMock {
	return &QuotaMock{
		AcquireFunc: func(context.Context, usage.Subject) (entity.Quota, error) {
			return entity.NewQuota(1, 3, "2026-03", "free", false), nil
		},
	}
}

func okCompleter(text string) *CompleterMock {
	return &CompleterMock{
		CompleteFunc: func(context.Context, entity.Prompt) (string, error) {
			return text, nil
		},
	}
}

func TestGetGeneratesAndCaches(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cache := newMemoryCache()
	completer := okCompleter(reportJSON)
	quota := allowQuota()
	repo := &RepositoryMock{}
	blog := &BlogEnqueuerMock{}

	svc := report.NewService(cache, completer, quota, repo, blog, report.Options{
		Model:       "gemini-2.5-flash",
		Temperature: 0.4,
		Grounding:   true,
	})

	viewer := usage.Subject{UserID: "u1"}

	result, err := svc.Get(ctx, "AAPL", viewer)
	rq.NoError(err)
	rq.False(result.Cached)
	rq.True(result.Saved)
	rq.Equal("BUY", result.Report.Action())
	rq.Equal("Apple Inc.", result.Report.CompanyName())
	rq.NotNil(result.Usage)
	rq.Equal(1, cache.Len())

	calls := completer.CompleteCalls()
	rq.Len(calls, 1)
	rq.Equal(entity.PurposeReport, calls[0].Purpose)
	rq.True(calls[0].Grounding)
	rq.Contains(calls[0].User, "AAPL")
	rq.Equal(report.SystemPrompt, calls[0].System)

	rq.Len(repo.saved, 1)
	rq.Equal("BUY", repo.saved[0].Verdict)
	rq.Equal("gemini-2.5-flash", repo.saved[0].Model)

	second, err := svc.Get(ctx, "AAPL", viewer)
	rq.NoError(err)
	rq.True(second.Cached)
	rq.True(second.Saved)
	rq.Len(completer.CompleteCalls(), 1)

	raw, err := second.Report.MarshalJSON()
	rq.NoError(err)
	rq.Contains(string(raw), "extra_key")

	rq.Len(blog.Tickers(), 2)
}

func TestGetFailures(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		text     string
		err      error
		wantCode string
	}{
		{name: "Provider error", err: errors.New("quota exceeded"), wantCode: string(errcodes.ReportGenerationFailed)},
		{name: "Not JSON", text: "I cannot help with that", wantCode: string(errcodes.ReportParseFailed)},
		{name: "JSON array", text: `[1,2,3]`, wantCode: string(errcodes.ReportParseFailed)},
		{
			name:     "Provider missing",
			err:      domain.NewError(errcodes.AIProviderNotConfigured, "AI provider not configured"),
			wantCode: string(errcodes.AIProviderNotConfigured),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			cache := newMemoryCache()
			quota := allowQuota()
			completer := &CompleterMock{
				CompleteFunc: func(context.Context, entity.Prompt) (string, error) {
					return tc.text, tc.err
				},
			}

			svc := report.NewService(cache, completer, quota, nil, nil, report.Options{})

			_, err := svc.Get(context.Background(), "TSLA", usage.Subject{ClientID: "c1"})
			rq.Error(err)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.wantCode, string(code))
			rq.Equal(1, quota.Released())
			rq.Zero(cache.Len())
		})
	}
}

func TestGetUsageLimit(t *testing.T) {
	rq := require.New(t)

	completer := okCompleter(reportJSON)
	quota := &QuotaMock{
		AcquireFunc: func(context.Context, usage.Subject) (entity.Quota, error) {
			return entity.NewQuota(1, 1, "2026-03", "", true),
				domain.NewError(errcodes.UsageLimitReached, "limit")
		},
	}

	svc := report.NewService(newMemoryCache(), completer, quota, nil, nil, report.Options{})

	result, err := svc.Get(context.Background(), "MSFT", usage.Subject{ClientID: "c1"})
	rq.True(domain.HasCode(err, errcodes.UsageLimitReached))
	rq.NotNil(result.Usage)
	rq.True(result.Usage.Exhausted())
	rq.Empty(completer.CompleteCalls())
}

func TestCacheHitDoesNotConsumeQuota(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cache := newMemoryCache()
	cached, err := entity.ParseReport(reportJSON)
	rq.NoError(err)
	rq.NoError(cache.Set(ctx, report.CacheKey("AAPL"), cached, report.CacheTTL))

	quota := &QuotaMock{
		AcquireFunc: func(context.Context, usage.Subject) (entity.Quota, error) {
			rq.Fail("acquire must not be called on a cache hit")
			return entity.Quota{}, nil
		},
	}

	svc := report.NewService(cache, okCompleter(reportJSON), quota, nil, nil, report.Options{})

	result, err := svc.Get(ctx, "AAPL", usage.Subject{ClientID: "c1"})
	rq.NoError(err)
	rq.True(result.Cached)
	rq.False(result.Saved)
}

func TestConcurrentGenerationSharesResult(t *testing.T) {
	rq := require.New(t)

	release := make(chan struct{})
	completer := &CompleterMock{
		CompleteFunc: func(context.Context, entity.Prompt) (string, error) {
			<-release
			return reportJSON, nil
		},
	}

	var acquired atomic.Int32

	quota := &QuotaMock{
		AcquireFunc: func(context.Context, usage.Subject) (entity.Quota, error) {
			acquired.Add(1)
			return entity.NewQuota(1, 3, "2026-03", "free", false), nil
		},
	}

	repo := &RepositoryMock{}
	blog := &BlogEnqueuerMock{}
	svc := report.NewService(newMemoryCache(), completer, quota, repo, blog, report.Options{})

	var wg sync.WaitGroup

	results := make([]entity.ReportResult, 4)
	errs := make([]error, len(results))

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = svc.Get(context.Background(), "NVDA", usage.Subject{UserID: "u1"})
		}()
	}

	rq.Eventually(func() bool {
		return int(acquired.Load()) == len(results)
	}, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	rq.Len(completer.CompleteCalls(), 1)

	generated := 0

	for i, r := range results {
		rq.NoError(errs[i])
		rq.Equal("BUY", r.Report.Action())

		if !r.Cached {
			generated++

			rq.True(r.Saved)
			rq.NotNil(r.Usage)
		}
	}

	rq.Equal(1, generated)
	rq.Equal(len(results)-1, quota.Released())
	rq.Equal([]value.Ticker{"NVDA"}, blog.Tickers())

	history, err := svc.History(context.Background(), "u1", 10)
	rq.NoError(err)
	rq.Len(history, 1)
}

func TestInvalidate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cache := newMemoryCache()
	svc := report.NewService(cache, okCompleter(reportJSON), allowQuota(), nil, nil, report.Options{})

	_, err := svc.Get(ctx, "AMD", usage.Subject{ClientID: "c1"})
	rq.NoError(err)
	rq.Equal(1, svc.CacheEntries())

	rq.NoError(svc.Invalidate(ctx, "AMD"))
	rq.Zero(svc.CacheEntries())

	_, ok := svc.Cached(ctx, "AMD")
	rq.False(ok)
}

func TestHistory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := report.NewService(newMemoryCache(), okCompleter(reportJSON), allowQuota(), nil, nil, report.Options{})

	_, err := svc.History(ctx, "u1", 10)
	rq.True(domain.HasCode(err, errcodes.DatabaseNotConfigured))

	repo := &RepositoryMock{}
	svc = report.NewService(newMemoryCache(), okCompleter(reportJSON), allowQuota(), repo, nil, report.Options{})

	_, err = svc.Get(ctx, "AAPL", usage.Subject{UserID: "u1"})
	rq.NoError(err)

	history, err := svc.History(ctx, "u1", 0)
	rq.NoError(err)
	rq.Len(history, 1)

	saved, err := svc.Saved(ctx, "u2", "AAPL")
	rq.NoError(err)
	rq.False(saved)
}
