package httpx

import "github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
