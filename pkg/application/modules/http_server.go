package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

const apiReadHeaderTimeout = 10 * time.Second

// HTTPServer runs the public API and shuts it down gracefully once the root
// context is cancelled. In-flight report generations get ShutdownTimeout to
// finish.
type HTTPServer struct {
	ListenAddress string
	Handler       http.Handler
	// WriteTimeout must outlast a report generation.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (h HTTPServer) Run(ctx context.Context, g *errgroup.Group) {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              h.ListenAddress,
		Handler:           h.Handler,
		ReadHeaderTimeout: apiReadHeaderTimeout,
		WriteTimeout:      h.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		go func() {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.ShutdownTimeout) //nolint:govet
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				logger(ctx).Error("server.Shutdown", logx.Error(err))
			}
		}()

		logger(ctx).Info("api server started",
			slog.String("address", httpServer.Addr),
			slog.Duration("write-timeout", h.WriteTimeout),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}

		logger(ctx).Info("api server stopped", slog.String("address", httpServer.Addr))

		return nil
	})
}
