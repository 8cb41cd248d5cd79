package view

import (
	"fmt"
	"html"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

const StartMessage = `🏰 <b>Stock Fortress admin</b>

/status - service state
/report <code>TICKER</code> - verdict summary
/invalidate <code>TICKER</code> - drop cached report
/posts - latest blog posts

/watch <code>TICKER</code>, /unwatch <code>TICKER</code> - price watcher targets
/watching - current targets
/startwatch, /stopwatch - price watcher control`

// Status is a snapshot of the optional subsystems.
type Status struct {
	AIProvider         string
	AIConfigured       bool
	BillingConfigured  bool
	DatabaseConfigured bool
	RedisConfigured    bool
	CacheEntries       int
	WatcherRunning     bool
	WatcherTargets     int
}

func StatusMessage(s Status) string {
	watcher := "🔴 stopped"
	if s.WatcherRunning {
		watcher = "🟢 running"
	}

	targets := "watchlist tickers"
	if s.WatcherTargets > 0 {
		targets = fmt.Sprintf("%d explicit tickers", s.WatcherTargets)
	}

	return fmt.Sprintf(`📊 <b>Status</b>

🤖 <b>AI:</b> %s %s
💳 <b>Billing:</b> %s
🗄 <b>Database:</b> %s
⚡ <b>Redis:</b> %s
📦 <b>Cached reports:</b> %d

🔍 <b>Watcher:</b> %s
🎯 <b>Scanning:</b> %s`,
		html.EscapeString(s.AIProvider), onOff(s.AIConfigured),
		onOff(s.BillingConfigured),
		onOff(s.DatabaseConfigured),
		onOff(s.RedisConfigured),
		s.CacheEntries,
		watcher,
		targets,
	)
}

func ReportMessage(result entity.ReportResult) string {
	source := "generated"
	if result.Cached {
		source = "cached"
	}

	r := result.Report

	var sb strings.Builder

	fmt.Fprintf(&sb, "📑 <b>%s</b> %s (%s)\n\n", result.Ticker, html.EscapeString(r.CompanyName()), source)
	fmt.Fprintf(&sb, "⚖️ <b>Verdict:</b> %s", html.EscapeString(r.Action()))

	if c := r.Verdict.Confidence.String(); c != "" {
		fmt.Fprintf(&sb, " (%s)", html.EscapeString(c))
	}

	sb.WriteString("\n")

	if reason := r.Verdict.OneLineReason.String(); reason != "" {
		fmt.Fprintf(&sb, "💬 %s\n", html.EscapeString(reason))
	}

	if price := r.Meta.CurrentPrice.String(); price != "" {
		fmt.Fprintf(&sb, "💵 <b>Price:</b> %s\n", html.EscapeString(price))
	}

	if metric := r.Verdict.MetricToTrack.String(); metric != "" {
		fmt.Fprintf(&sb, "📌 <b>Track:</b> %s\n", html.EscapeString(metric))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func PostsMessage(posts []entity.Post) string {
	if len(posts) == 0 {
		return "📭 No blog posts yet"
	}

	var sb strings.Builder

	sb.WriteString("📰 <b>Latest posts</b>\n")

	for i, p := range posts {
		fmt.Fprintf(&sb, "\n%d. <b>%s</b> [%s] %s\n   <code>%s</code> · %d views",
			i+1, p.Ticker, html.EscapeString(p.Verdict), html.EscapeString(p.Title), p.Slug, p.Views)
	}

	return sb.String()
}

func TargetsMessage(targets []value.Ticker) string {
	if len(targets) == 0 {
		return "📋 No explicit targets, the watcher scans every watchlisted ticker"
	}

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, "<code>"+t.String()+"</code>")
	}

	return fmt.Sprintf("📋 <b>Watching %d tickers:</b>\n%s", len(targets), strings.Join(names, ", "))
}

func onOff(b bool) string {
	if b {
		return "✅"
	}

	return "❌"
}
