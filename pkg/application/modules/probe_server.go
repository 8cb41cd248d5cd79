package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/probe"
)

// ProbeServer serves liveness and readiness on a side port. An empty
// ListenAddress disables it.
type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
}

func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group, checkers ...probe.Checker) {
	if p.ListenAddress == "" {
		logger(ctx).Info("probe server disabled")
		return
	}

	probeServer := probe.NewServer(
		p.ListenAddress,
		probe.Options{
			Name:    p.Name,
			Version: p.Version,
		},
		checkers...,
	)

	g.Go(func() error {
		if err := probeServer.Run(ctx); err != nil {
			return fmt.Errorf("probeServer.Run: %w", err)
		}

		return nil
	})
}
