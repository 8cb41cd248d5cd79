package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name          string
		listenAddress string
		endpoint      string
		statusCode    int
		body          string
	}{
		{
			name:          "Metrics handler",
			listenAddress: ":19110",
			endpoint:      "http://:19110/metrics",
			statusCode:    http.StatusOK,
			body:          "fortress_report_cache_entries 7",
		},
		{
			name:          "Invalid endpoint",
			listenAddress: ":19120",
			endpoint:      "http://:19120/invalid",
			statusCode:    http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			prometheusServer, err := metrics.NewPrometheusServer(tc.listenAddress,
				metrics.Gauge("report_cache_entries", "Reports held in the cache.", func() int { return 7 }),
			)
			rq.NoError(err)

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return prometheusServer.Run(ctx)
			})

			// Wait for server to start.
			time.Sleep(time.Second)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.body != "" {
				body, err := io.ReadAll(resp.Body)
				rq.NoError(err)
				rq.Contains(string(body), tc.body)
			}

			cancel()

			rq.NoError(g.Wait())
		})
	}
}

func TestPrometheusServerDuplicateCollector(t *testing.T) {
	rq := require.New(t)

	gauge := func() int { return 1 }

	_, err := metrics.NewPrometheusServer(":0",
		metrics.Gauge("rate_limiter_callers", "Callers.", gauge),
		metrics.Gauge("rate_limiter_callers", "Callers.", gauge),
	)
	rq.Error(err)
}
