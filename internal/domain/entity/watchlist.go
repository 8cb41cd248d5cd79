package entity

import (
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type WatchlistItem struct {
	UserID      string       `json:"user_id"`
	Ticker      value.Ticker `json:"ticker"`
	LastVerdict *string      `json:"last_verdict"`
	CreatedAt   time.Time    `json:"created_at"`
}
