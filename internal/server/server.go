package server

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

// Server joins the per-area HTTP servers under one router.
type Server struct {
	ReportServer
	BlogServer
	BillingServer
	MarketServer
	WatchlistServer
	SessionServer
	SiteServer
}

func NewServer(
	reportServer ReportServer,
	blogServer BlogServer,
	billingServer BillingServer,
	marketServer MarketServer,
	watchlistServer WatchlistServer,
	sessionServer SessionServer,
	siteServer SiteServer,
) Server {
	return Server{
		ReportServer:    reportServer,
		BlogServer:      blogServer,
		BillingServer:   billingServer,
		MarketServer:    marketServer,
		WatchlistServer: watchlistServer,
		SessionServer:   sessionServer,
		SiteServer:      siteServer,
	}
}
