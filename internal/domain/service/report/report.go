package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	CacheTTL           = 24 * time.Hour
	defaultHistorySize = 50
	maxHistorySize     = 200
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (entity.Report, error)
	Set(ctx context.Context, key string, report entity.Report, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Len() int
}

type Completer interface {
	Complete(ctx context.Context, prompt entity.Prompt) (string, error)
}

type Quota interface {
	Acquire(ctx context.Context, subject usage.Subject) (entity.Quota, error)
	Release(ctx context.Context, subject usage.Subject)
	Peek(ctx context.Context, subject usage.Subject) (entity.Quota, error)
}

type Repository interface {
	Save(ctx context.Context, report entity.SavedReport) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error)
	Exists(ctx context.Context, userID string, ticker value.Ticker) (bool, error)
}

type BlogEnqueuer interface {
	EnqueueBlog(ctx context.Context, ticker value.Ticker, report entity.Report) error
}

type Options struct {
	Model       string
	Temperature float32
	// Grounding turns on web search for providers that support it.
	Grounding bool
}

type Service struct {
	cache     Cache
	completer Completer
	quota     Quota
	repo      Repository
	blog      BlogEnqueuer
	opts      Options
	flight    singleflight.Group
	now       func() time.Time
}

// NewService builds the report service. repo and blog may be nil when the
// database or the task queue is not configured.
func NewService(cache Cache, completer Completer, quota Quota, repo Repository, blog BlogEnqueuer, opts Options) *Service {
	return &Service{
		cache:     cache,
		completer: completer,
		quota:     quota,
		repo:      repo,
		blog:      blog,
		opts:      opts,
		now:       time.Now,
	}
}

func CacheKey(ticker value.Ticker) string {
	return "report:" + ticker.String()
}

// Get returns the cached report for the ticker or generates a new one.
// Generation consumes one usage unit of the viewer; cache hits are free.
func (s *Service) Get(ctx context.Context, ticker value.Ticker, viewer usage.Subject) (entity.ReportResult, error) {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTicker, ticker.String())))

	if cached, ok := s.lookup(ctx, ticker); ok {
		metrics.ReportsTotal.WithLabelValues("cache").Inc()
		s.enqueueBlog(ctx, ticker, cached)

		return s.cachedResult(ctx, ticker, viewer, cached), nil
	}

	quota, err := s.quota.Acquire(ctx, viewer)
	if err != nil {
		return entity.ReportResult{Ticker: ticker, Usage: quotaOrNil(quota)}, err
	}

	// Do reports shared to the leader as well once anyone joined, so the caller
	// that ran generate is tracked here.
	leader := false

	v, err, _ := s.flight.Do(ticker.String(), func() (any, error) {
		leader = true
		return s.generate(context.WithoutCancel(ctx), ticker)
	})
	if err != nil {
		s.quota.Release(ctx, viewer)
		metrics.ReportsTotal.WithLabelValues("failed").Inc()

		return entity.ReportResult{}, err
	}

	report := v.(entity.Report) //nolint:forcetypeassert

	if !leader {
		// Another request produced this report; it is a cache hit for this viewer.
		s.quota.Release(ctx, viewer)
		return s.cachedResult(ctx, ticker, viewer, report), nil
	}

	metrics.ReportsTotal.WithLabelValues("generated").Inc()
	s.enqueueBlog(ctx, ticker, report)

	result := entity.ReportResult{
		Ticker: ticker,
		Report: report,
		Usage:  &quota,
	}

	if !viewer.Anonymous() {
		result.Saved = s.save(ctx, viewer.UserID, ticker, report)
	}

	return result, nil
}

// Invalidate drops the ticker from every cache layer.
func (s *Service) Invalidate(ctx context.Context, ticker value.Ticker) error {
	if err := s.cache.Delete(ctx, CacheKey(ticker)); err != nil {
		return fmt.Errorf("cache.Delete: %w", err)
	}

	logger(ctx).Info("report cache invalidated", slog.String(logx.FieldTicker, ticker.String()))

	return nil
}

// Cached reads the ticker from cache without generating.
func (s *Service) Cached(ctx context.Context, ticker value.Ticker) (entity.Report, bool) {
	return s.lookup(ctx, ticker)
}

func (s *Service) CacheEntries() int {
	return s.cache.Len()
}

// History lists the user's saved reports, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]entity.SavedReport, error) {
	if s.repo == nil {
		return nil, domain.NewError(errcodes.DatabaseNotConfigured, "Database not configured")
	}

	if limit <= 0 {
		limit = defaultHistorySize
	}

	limit = min(limit, maxHistorySize)

	reports, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("repo.ListByUser: %w", err)
	}

	return reports, nil
}

// Saved reports whether the user already has the ticker in their history.
func (s *Service) Saved(ctx context.Context, userID string, ticker value.Ticker) (bool, error) {
	if s.repo == nil || userID == "" {
		return false, nil
	}

	ok, err := s.repo.Exists(ctx, userID, ticker)
	if err != nil {
		return false, fmt.Errorf("repo.Exists: %w", err)
	}

	return ok, nil
}

func (s *Service) generate(ctx context.Context, ticker value.Ticker) (entity.Report, error) {
	logger(ctx).Info("generating report", slog.String(logx.FieldModel, s.opts.Model))

	text, err := s.completer.Complete(ctx, entity.Prompt{
		Purpose:     entity.PurposeReport,
		Model:       s.opts.Model,
		System:      SystemPrompt,
		User:        UserPrompt(ticker),
		Temperature: s.opts.Temperature,
		Grounding:   s.opts.Grounding,
	})
	if err != nil {
		if domain.HasCode(err, errcodes.AIProviderNotConfigured) {
			return entity.Report{}, err
		}

		logger(ctx).Error("completer.Complete", logx.Error(err))

		return entity.Report{}, domain.WrapError(err, errcodes.ReportGenerationFailed,
			"Analysis generation failed: "+err.Error())
	}

	report, err := entity.ParseReport(text)
	if err != nil {
		logger(ctx).Warn("entity.ParseReport", logx.Error(err), slog.Int("length", len(text)))

		return entity.Report{}, domain.WrapError(err, errcodes.ReportParseFailed,
			"Failed to parse AI analysis - retry")
	}

	if err := s.cache.Set(ctx, CacheKey(ticker), report, CacheTTL); err != nil {
		logger(ctx).Error("cache.Set", logx.Error(err))
	}

	return report, nil
}

func (s *Service) lookup(ctx context.Context, ticker value.Ticker) (entity.Report, bool) {
	report, err := s.cache.Get(ctx, CacheKey(ticker))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger(ctx).Error("cache.Get", logx.Error(err))
		}

		return entity.Report{}, false
	}

	return report, true
}

func (s *Service) cachedResult(ctx context.Context, ticker value.Ticker, viewer usage.Subject, report entity.Report) entity.ReportResult {
	result := entity.ReportResult{
		Ticker: ticker,
		Cached: true,
		Report: report,
	}

	if quota, err := s.quota.Peek(ctx, viewer); err == nil {
		result.Usage = &quota
	} else {
		logger(ctx).Warn("quota.Peek", logx.Error(err))
	}

	if !viewer.Anonymous() {
		saved, err := s.Saved(ctx, viewer.UserID, ticker)
		if err != nil {
			logger(ctx).Warn("Saved", logx.Error(err))
		}

		result.Saved = saved
	}

	return result
}

func (s *Service) save(ctx context.Context, userID string, ticker value.Ticker, report entity.Report) bool {
	if s.repo == nil {
		return false
	}

	err := s.repo.Save(ctx, entity.SavedReport{
		UserID:      userID,
		Ticker:      ticker,
		Report:      report,
		Model:       s.opts.Model,
		Verdict:     report.Action(),
		GeneratedAt: s.now().UTC(),
	})
	if err != nil {
		logger(ctx).Error("repo.Save", logx.Error(err))
		return false
	}

	return true
}

func (s *Service) enqueueBlog(ctx context.Context, ticker value.Ticker, report entity.Report) {
	if s.blog == nil {
		return
	}

	if err := s.blog.EnqueueBlog(ctx, ticker, report); err != nil {
		logger(ctx).Warn("blog.EnqueueBlog", logx.Error(err))
	}
}

func quotaOrNil(q entity.Quota) *entity.Quota {
	if q.Limit == 0 {
		return nil
	}

	return &q
}
