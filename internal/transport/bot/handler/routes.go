package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))

	// Reports and blog
	adminGroup.HandleMessage(h.OnReport, th.CommandEqual("report"))
	adminGroup.HandleMessage(h.OnInvalidate, th.CommandEqual("invalidate"))
	adminGroup.HandleMessage(h.OnPosts, th.CommandEqual("posts"))

	// Price watcher
	adminGroup.HandleMessage(h.OnWatch, th.CommandEqual("watch"))
	adminGroup.HandleMessage(h.OnUnwatch, th.CommandEqual("unwatch"))
	adminGroup.HandleMessage(h.OnWatching, th.CommandEqual("watching"))
	adminGroup.HandleMessage(h.OnStartWatch, th.CommandEqual("startwatch"))
	adminGroup.HandleMessage(h.OnStopWatch, th.CommandEqual("stopwatch"))
}
