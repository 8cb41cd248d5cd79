package handler

import (
	"context"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot/view"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ReportService interface {
	Get(ctx context.Context, ticker value.Ticker, viewer usage.Subject) (entity.ReportResult, error)
	Invalidate(ctx context.Context, ticker value.Ticker) error
	CacheEntries() int
}

type BlogService interface {
	List(ctx context.Context, filter entity.PostFilter) (entity.PostPage, error)
}

type PriceWatcher interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	AddTarget(t value.Ticker) bool
	RemoveTarget(t value.Ticker) bool
	Targets() []value.Ticker
}

// StatusFunc reports which optional subsystems are configured. Cache and
// watcher fields are filled in by the handler.
type StatusFunc func() view.Status

type Handler struct {
	reports ReportService
	blog    BlogService
	watcher PriceWatcher
	status  StatusFunc
}

// New builds the command handler. blog and watcher may be nil when the
// database or the watcher is disabled.
func New(reports ReportService, blog BlogService, watcher PriceWatcher, status StatusFunc) *Handler {
	return &Handler{
		reports: reports,
		blog:    blog,
		watcher: watcher,
		status:  status,
	}
}
