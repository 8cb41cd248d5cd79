package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/application"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/config"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.Server.LogFormat != "json",
		slog.String(logx.FieldAppName, cfg.Server.AppName),
		slog.String(logx.FieldAppVersion, cfg.Server.AppVersion),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
