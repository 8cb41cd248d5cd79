package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/middlewarex"
)

type RouterOptions struct {
	// Verifier checks bearer tokens; nil leaves every request anonymous.
	Verifier            middlewarex.TokenVerifier
	RateLimiter         *middlewarex.RateLimiter
	SensitiveDataMasker logx.SensitiveDataMaskerInterface
	LogFieldMaxLen      int
}

// Handler builds the full middleware chain and routes.
func (s Server) Handler(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.WwwRedirect,
		middlewarex.Metrics,
		middlewarex.ClientID,
	)

	if opts.Verifier != nil {
		r.Use(middlewarex.Auth(opts.Verifier))
	}

	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}

	if opts.SensitiveDataMasker != nil {
		r.Use(
			middlewarex.RequestLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen, "/api/billing/webhook"),
			middlewarex.ResponseLogging(opts.SensitiveDataMasker, opts.LogFieldMaxLen),
		)
	}

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler(s.getHealth))
		r.Get("/sitemap.xml", handler(s.getSitemap))
		r.Get("/usage", handler(s.getUsage))
		r.Get("/market-data/bulk", handler(s.getBulkQuotes))

		r.Route("/report/{ticker}", func(r chi.Router) {
			r.Get("/", handler(s.getReport))
			r.With(middlewarex.RequireUser).Post("/watch", handler(s.postReportWatch))
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", handler(s.getBlogPosts))
			r.Get("/all-slugs", handler(s.getBlogSlugs))
			r.With(middlewarex.RequireUser).Post("/migrate-slugs", handler(s.postMigrateSlugs))
			r.Get("/{slug}", handler(s.getBlogPost))
			r.Get("/{slug}/related", handler(s.getRelatedPosts))
		})

		r.Route("/billing", func(r chi.Router) {
			r.Get("/plans", handler(s.getPlans))
			r.Post("/create-checkout", handler(s.postCreateCheckout))
			r.Post("/sync-checkout", handler(s.postSyncCheckout))
			r.Post("/change-plan", handler(s.postChangePlan))
			r.Post("/create-free", handler(s.postCreateFree))
			r.Post("/webhook", handler(s.postWebhook))
			r.Get("/subscription/{userId}", handler(s.getSubscription))
		})

		// authorized zone
		r.Group(func(r chi.Router) {
			r.Use(middlewarex.RequireUser)

			r.Get("/me", handler(s.getMe))
			r.Get("/reports", handler(s.getReports))

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", handler(s.getWatchlist))
				r.Post("/", handler(s.postWatchlist))
				r.Delete("/{ticker}", handler(s.deleteWatchlist))
			})
		})

		r.NotFound(handler(s.apiNotFound))
	})

	r.Get("/sitemap.xml", handler(s.getSitemap))
	r.Get("/robots.txt", handler(s.getRobots))

	r.Get("/", handler(s.serveSPA))
	r.NotFound(handler(s.serveSPA))
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
