package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot posts ops messages and price alerts to one chat.
type TelegramBot struct {
	bot    sender
	chatID int64
}

func NewTelegramBot(bot *telego.Bot, chatID int64) *TelegramBot {
	return &TelegramBot{bot: bot, chatID: chatID}
}

// Run forwards alerts from the channel until ctx ends or the channel closes.
func (b *TelegramBot) Run(ctx context.Context, alerts <-chan entity.PriceAlert) error {
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}

			return ctx.Err() //nolint:wrapcheck
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}

			if err := b.SendAlert(ctx, alert); err != nil {
				logger(ctx).Error("failed to send alert", slog.String(logx.FieldTicker, alert.Ticker.String()), logx.Error(err))
			}
		}
	}
}

func (b *TelegramBot) SendAlert(ctx context.Context, alert entity.PriceAlert) error {
	icon := "📈"
	if alert.Quote.Change < 0 {
		icon = "📉"
	}

	text := fmt.Sprintf(
		"%s <b>%s</b> moved %+.2f%%\n\n"+
			"💵 <b>Price:</b> $%.2f\n"+
			"↕️ <b>Change:</b> %+.2f",
		icon,
		alert.Ticker,
		alert.Quote.Percent,
		alert.Quote.Price,
		alert.Quote.Change,
	)

	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// Log stands in for the bot when no token is configured.
type Log struct{}

func (Log) SendText(ctx context.Context, text string) error {
	logger(ctx).Info("notification", slog.String("text", text))
	return nil
}

func (Log) Run(ctx context.Context, alerts <-chan entity.PriceAlert) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case alert, ok := <-alerts:
			if !ok {
				return nil
			}

			logger(ctx).Info("price alert",
				slog.String(logx.FieldTicker, alert.Ticker.String()),
				slog.Float64("percent", alert.Quote.Percent),
			)
		}
	}
}
