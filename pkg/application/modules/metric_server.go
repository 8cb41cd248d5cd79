package modules

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

// MetricServer exposes /metrics for Prometheus. An empty ListenAddress
// disables it.
type MetricServer struct {
	ListenAddress string
	Collectors    []prometheus.Collector
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group) error {
	if m.ListenAddress == "" {
		logger(ctx).Info("metric server disabled")
		return nil
	}

	prometheusServer, err := metrics.NewPrometheusServer(m.ListenAddress, m.Collectors...)
	if err != nil {
		return fmt.Errorf("metrics.NewPrometheusServer: %w", err)
	}

	g.Go(func() error {
		if err := prometheusServer.Run(ctx); err != nil {
			return fmt.Errorf("prometheusServer.Run: %w", err)
		}

		return nil
	})

	return nil
}
