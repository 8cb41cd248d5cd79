// Package application wires configuration, storage, services and transports
// into one errgroup.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/billing"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/blog"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/market"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/report"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/sitemap"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/usage"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/watchlist"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/auth"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/cache"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/llm"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/marketdata"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/notifier"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/payments"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/persistence"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/infrastructure/queue"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/server"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot/handler"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/transport/bot/view"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/worker"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/application/connectors"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/application/modules"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/middlewarex"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/probe"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	alertBuffer      = 100
	asynqConcurrency = 4
	limiterCleanup   = "@every 10m"
)

type notifierRunner interface {
	SendText(ctx context.Context, text string) error
	Run(ctx context.Context, alerts <-chan entity.PriceAlert) error
}

// storage holds the optional backends. A nil field means not configured or
// unreachable.
type storage struct {
	postgres *connectors.Postgres
	redis    *connectors.Redis
	db       *sqlx.DB
	rdb      *redis.Client
}

func (s storage) close(ctx context.Context) {
	s.postgres.Close(ctx)
	s.redis.Close(ctx)
}

func (s storage) checkers() []probe.Checker {
	var checkers []probe.Checker

	if s.db != nil {
		checkers = append(checkers, probe.CheckFunc{CheckName: "postgres", Fn: s.postgres.Ping})
	}

	if s.rdb != nil {
		checkers = append(checkers, probe.CheckFunc{CheckName: "redis", Fn: s.redis.Ping})
	}

	return checkers
}

// Run builds every component from cfg and blocks until ctx is cancelled or a
// module fails.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen,cyclop
	st, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close(context.WithoutCancel(ctx))

	g, ctx := errgroup.WithContext(ctx)

	// repositories; interfaces stay nil without a database
	var (
		reportRepo    report.Repository
		postRepo      blog.Repository
		subsRepo      billing.SubscriptionRepository
		watchlistRepo watchlist.Repository
		userCounter   usage.Counter
	)

	anonCounter := cache.NewUsageCounter(st.rdb)
	userCounter = anonCounter

	if st.db != nil {
		reportRepo = persistence.NewReportRepository(st.db)
		postRepo = persistence.NewPostRepository(st.db)
		subsRepo = persistence.NewSubscriptionRepository(st.db)
		watchlistRepo = persistence.NewWatchlistRepository(st.db)
		userCounter = persistence.NewUsageRepository(st.db)
	}

	// notifications
	var (
		tgBot  *telego.Bot
		notify notifierRunner = notifier.Log{}
	)

	if cfg.Bot.Enabled() {
		tgBot, err = telego.NewBot(cfg.Bot.Token)
		if err != nil {
			return fmt.Errorf("telego.NewBot: %w", err)
		}

		if cfg.Bot.ChatID != 0 {
			notify = notifier.NewTelegramBot(tgBot, cfg.Bot.ChatID)
		}
	}

	// services
	completer, err := llm.New(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("llm.New: %w", err)
	}

	var gateway billing.PaymentGateway
	if cfg.Stripe.Enabled() {
		gateway = payments.NewStripe(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
	}

	billingService := billing.NewService(gateway, subsRepo, notify, billing.Options{
		Prices:    cfg.Stripe.Prices(),
		ClientURL: cfg.Server.ClientURL,
	})
	usageService := usage.NewService(userCounter, anonCounter, billingService)
	blogService := blog.NewService(postRepo, completer, blog.Options{
		Model:       cfg.AI.BlogModel,
		Temperature: cfg.AI.BlogTemperature,
	})
	watchlistService := watchlist.NewService(watchlistRepo)
	marketService := market.NewService(marketdata.NewYahoo(""))
	sitemapService := sitemap.NewService(cfg.Server.PublicURL, blogService)

	var (
		blogQueue   report.BlogEnqueuer
		asynqServer *modules.AsynqServer
	)

	if st.rdb != nil {
		asynqServer = &modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
			Concurrency:   asynqConcurrency,
		}

		asynqQueue := queue.NewAsynq(asynqServer.RedisConnOpt())
		defer asynqQueue.Close() //nolint:errcheck

		blogQueue = asynqQueue
	} else {
		inline := queue.NewInline(blogService)
		defer inline.Wait()

		blogQueue = inline
	}

	reportService := report.NewService(
		cache.NewReportCache(st.rdb),
		completer,
		usageService,
		reportRepo,
		blogQueue,
		report.Options{
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Grounding:   cfg.AI.Provider == config.ProviderGemini || cfg.AI.Provider == config.ProviderPerplexity,
		},
	)

	// price watcher
	alerts := make(chan entity.PriceAlert, alertBuffer)

	var tickerSource worker.TickerSource
	if watchlistRepo != nil {
		tickerSource = watchlistService
	}

	watcher, err := worker.NewPriceWatcher(marketService, tickerSource, alerts, cfg.Watcher.Schedule, cfg.Watcher.MovePercent)
	if err != nil {
		return fmt.Errorf("worker.NewPriceWatcher: %w", err)
	}

	targets, err := value.ParseTickerList(strings.Join(cfg.Watcher.Tickers, ","))
	if err != nil {
		return fmt.Errorf("watcher tickers: %w", err)
	}

	watcher.WithTargets(targets...)

	if len(targets) > 0 || tickerSource != nil {
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("watcher.Start: %w", err)
		}
	}

	defer watcher.Stop()

	g.Go(func() error {
		if err := notify.Run(ctx, alerts); err != nil {
			return fmt.Errorf("notifier.Run: %w", err)
		}

		return nil
	})

	// status shared by /api/health and the admin bot
	status := func() view.Status {
		return view.Status{
			AIProvider:         completer.Provider(),
			AIConfigured:       completer.Configured(),
			BillingConfigured:  billingService.Enabled(),
			DatabaseConfigured: st.db != nil,
			RedisConfigured:    st.rdb != nil,
		}
	}

	health := func(context.Context) rest.Health {
		s := status()

		return rest.Health{
			Status:             "ok",
			AIProvider:         s.AIProvider,
			AIConfigured:       s.AIConfigured,
			CacheEntries:       reportService.CacheEntries(),
			BillingConfigured:  s.BillingConfigured,
			DatabaseConfigured: s.DatabaseConfigured,
			RedisConfigured:    s.RedisConfigured,
		}
	}

	if tgBot != nil && cfg.Bot.AdminID != 0 {
		adminBot := bot.New(tgBot, handler.New(reportService, blogService, watcher, status), cfg.Bot.AdminID)

		g.Go(func() error {
			if err := adminBot.Run(ctx); err != nil {
				return fmt.Errorf("adminBot.Run: %w", err)
			}

			return nil
		})
	}

	// http
	var verifier middlewarex.TokenVerifier
	if cfg.Supabase.Enabled() {
		verifier = auth.NewSupabase(cfg.Supabase)
	}

	limiter := middlewarex.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	api := server.NewServer(
		server.NewReportServer(reportService, watchlistService),
		server.NewBlogServer(blogService),
		server.NewBillingServer(billingService),
		server.NewMarketServer(marketService),
		server.NewWatchlistServer(watchlistService),
		server.NewSessionServer(usageService, billingService),
		server.NewSiteServer(sitemapService, health, cfg.Server.StaticDir, rest.ServiceInfo{
			Service: cfg.Server.AppName,
			Version: cfg.Server.AppVersion,
			Status:  "ok",
		}),
	)

	modules.HTTPServer{
		ListenAddress: cfg.Server.HTTPAddr,
		Handler: api.Handler(server.RouterOptions{
			Verifier:            verifier,
			RateLimiter:         limiter,
			SensitiveDataMasker: logx.NewSensitiveDataMasker(),
			LogFieldMaxLen:      cfg.Server.LogFieldMaxLen,
		}),
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}.Run(ctx, g)

	modules.ProbeServer{
		Name:          cfg.Server.AppName,
		Version:       cfg.Server.AppVersion,
		ListenAddress: cfg.Server.ProbeAddr,
	}.Run(ctx, g, st.checkers()...)

	err = modules.MetricServer{
		ListenAddress: cfg.Server.MetricsAddr,
		Collectors: []prometheus.Collector{
			metrics.Gauge("report_cache_entries", "Reports held in the cache.", reportService.CacheEntries),
			metrics.Gauge("rate_limiter_callers", "Callers with a live rate limit bucket.", limiter.Len),
		},
	}.Run(ctx, g)
	if err != nil {
		return fmt.Errorf("metricServer.Run: %w", err)
	}

	if asynqServer != nil {
		asynqServer.Run(ctx, g, modules.AsynqQueues{queue.QueueBlog: 1}, queue.BlogHandler(blogService))
	}

	err = modules.Cron{}.Run(ctx, g, modules.CronJob{
		Name:     "rate-limiter-cleanup",
		Schedule: limiterCleanup,
		Run: func(ctx context.Context) {
			if n := limiter.Cleanup(); n > 0 {
				logger(ctx).Debug("rate limiters evicted", slog.Int("count", n))
			}
		},
	})
	if err != nil {
		return fmt.Errorf("cron.Run: %w", err)
	}

	logger(ctx).Info("application started",
		slog.String(logx.FieldProvider, completer.Provider()),
		slog.Bool("database", st.db != nil),
		slog.Bool("redis", st.rdb != nil),
		slog.Bool("billing", billingService.Enabled()),
		slog.Bool("bot", tgBot != nil),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// connectStorage dials the configured backends. Unreachable backends are
// logged and left out; the service then runs on its in-memory fallbacks.
func connectStorage(ctx context.Context, cfg config.Config) (storage, error) {
	st := storage{
		postgres: &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		},
		redis: &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		},
	}

	if cfg.Postgres.Enabled() {
		db, err := st.postgres.Connect(ctx)
		if err != nil {
			logger(ctx).Warn("postgres unavailable, running without a database", logx.Error(err))
		} else {
			st.db = db
		}
	}

	if st.db != nil && cfg.Postgres.AutoMigrate {
		if err := persistence.Migrate(ctx, st.db); err != nil {
			st.close(ctx)
			return storage{}, fmt.Errorf("persistence.Migrate: %w", err)
		}
	}

	if cfg.Redis.Enabled() {
		rdb, err := st.redis.Connect(ctx)
		if err != nil {
			logger(ctx).Warn("redis unavailable, using in-memory cache", logx.Error(err))
		} else {
			st.rdb = rdb
		}
	}

	return st, nil
}
