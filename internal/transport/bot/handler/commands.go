package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot/view"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/worker"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

const latestPosts = 5

var errNoWatcher = errors.New("price watcher is disabled")

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StatusMessage(h.Status()))
}

// Status merges the static subsystem flags with live cache and watcher state.
func (h *Handler) Status() view.Status {
	var s view.Status
	if h.status != nil {
		s = h.status()
	}

	s.CacheEntries = h.reports.CacheEntries()

	if h.watcher != nil {
		s.WatcherRunning = h.watcher.IsRunning()
		s.WatcherTargets = len(h.watcher.Targets())
	}

	return s
}

func (h *Handler) OnReport(ctx *th.Context, msg telego.Message) error {
	ticker, err := TickerArg(msg.Text)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Usage: /report <code>TICKER</code>")
	}

	_ = h.send(ctx, msg.Chat.ID, "⏳ Fetching "+ticker.String()+"...")

	result, err := h.reports.Get(ctx, ticker, AdminSubject(msg.From))
	if err != nil {
		logger(ctx).Error("reports.Get", logx.Error(err))
		return h.send(ctx, msg.Chat.ID, "❌ "+errorText(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.ReportMessage(result))
}

func (h *Handler) OnInvalidate(ctx *th.Context, msg telego.Message) error {
	ticker, err := TickerArg(msg.Text)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Usage: /invalidate <code>TICKER</code>")
	}

	if err := h.reports.Invalidate(ctx, ticker); err != nil {
		return h.send(ctx, msg.Chat.ID, "❌ "+errorText(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf("🗑 Cache for <code>%s</code> cleared", ticker))
}

func (h *Handler) OnPosts(ctx *th.Context, msg telego.Message) error {
	if h.blog == nil {
		return h.send(ctx, msg.Chat.ID, "❌ Database not configured")
	}

	page, err := h.blog.List(ctx, entity.PostFilter{Page: 1, Limit: latestPosts})
	if err != nil {
		return h.send(ctx, msg.Chat.ID, "❌ "+errorText(err))
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.PostsMessage(page.Posts))
}

func (h *Handler) OnWatch(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.Watch(msg.Text))
}

func (h *Handler) OnUnwatch(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.Unwatch(msg.Text))
}

func (h *Handler) OnWatching(ctx *th.Context, msg telego.Message) error {
	if h.watcher == nil {
		return h.send(ctx, msg.Chat.ID, "❌ "+errNoWatcher.Error())
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.TargetsMessage(h.watcher.Targets()))
}

func (h *Handler) OnStartWatch(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.StartWatch(ctx))
}

func (h *Handler) OnStopWatch(ctx *th.Context, msg telego.Message) error {
	if h.watcher == nil {
		return h.send(ctx, msg.Chat.ID, "❌ "+errNoWatcher.Error())
	}

	if !h.watcher.IsRunning() {
		return h.send(ctx, msg.Chat.ID, "⚠️ Watcher is not running")
	}

	h.watcher.Stop()

	return h.send(ctx, msg.Chat.ID, "🛑 Watcher stopped")
}

// Watch adds the ticker from a "/watch T" command and returns the reply.
func (h *Handler) Watch(text string) string {
	if h.watcher == nil {
		return "❌ " + errNoWatcher.Error()
	}

	ticker, err := TickerArg(text)
	if err != nil {
		return "❌ Usage: /watch <code>TICKER</code>"
	}

	if !h.watcher.AddTarget(ticker) {
		return fmt.Sprintf("⚠️ <code>%s</code> is already watched", ticker)
	}

	return fmt.Sprintf("✅ Watching <code>%s</code> (%d targets)", ticker, len(h.watcher.Targets()))
}

func (h *Handler) Unwatch(text string) string {
	if h.watcher == nil {
		return "❌ " + errNoWatcher.Error()
	}

	ticker, err := TickerArg(text)
	if err != nil {
		return "❌ Usage: /unwatch <code>TICKER</code>"
	}

	if !h.watcher.RemoveTarget(ticker) {
		return fmt.Sprintf("⚠️ <code>%s</code> is not watched", ticker)
	}

	return fmt.Sprintf("✅ Removed <code>%s</code>", ticker)
}

// StartWatch detaches the watcher from the update context so it outlives the
// command.
func (h *Handler) StartWatch(ctx context.Context) string {
	if h.watcher == nil {
		return "❌ " + errNoWatcher.Error()
	}

	if err := h.watcher.Start(context.WithoutCancel(ctx)); err != nil {
		if errors.Is(err, worker.ErrAlreadyRunning) {
			return "⚠️ Watcher is already running"
		}

		return "❌ " + err.Error()
	}

	return "🟢 Watcher started"
}

// TickerArg parses the first argument of a command message.
func TickerArg(text string) (value.Ticker, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 { //nolint:mnd
		return "", errors.New("missing ticker")
	}

	ticker, err := value.ParseTicker(parts[1])
	if err != nil {
		return "", fmt.Errorf("value.ParseTicker: %w", err)
	}

	return ticker, nil
}

// AdminSubject charges admin generations to a per-admin account so they never
// touch anonymous web quotas.
func AdminSubject(from *telego.User) usage.Subject {
	if from == nil {
		return usage.Subject{UserID: "telegram-admin"}
	}

	return usage.Subject{UserID: "telegram-admin-" + strconv.FormatInt(from.ID, 10)}
}

func errorText(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return err.Error()
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	return err //nolint:wrapcheck
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	return err //nolint:wrapcheck
}
