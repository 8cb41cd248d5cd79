package middleware

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// AdminOnly drops updates from anyone but adminID. A zero adminID drops all.
func AdminOnly(adminID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		userID, ok := SenderID(update)
		if !ok {
			return nil
		}

		if adminID != 0 && userID == adminID {
			return ctx.Next(update)
		}

		logger(ctx).Warn("ignored update from non-admin", slog.Int64("telegram-user-id", userID))

		return nil
	}
}

func SenderID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	default:
		return 0, false
	}
}
