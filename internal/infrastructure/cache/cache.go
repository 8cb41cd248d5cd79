// Package cache keeps generated reports and anonymous usage counters in Redis
// with an in-process go-cache layer in front of it or in its place.
package cache

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

var (
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)
