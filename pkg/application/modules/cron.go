package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

type CronJob struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context)
}

// Cron runs periodic jobs until the root context is cancelled. Stop waits for
// running jobs to return.
type Cron struct{}

func (Cron) Run(ctx context.Context, g *errgroup.Group, jobs ...CronJob) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	for _, job := range jobs {
		if _, err := scheduler.AddFunc(job.Schedule, func() {
			logger(ctx).Debug("cron job started", slog.String("job", job.Name))
			job.Run(ctx)
		}); err != nil {
			return fmt.Errorf("scheduler.AddFunc(%s): %w", job.Name, err)
		}
	}

	g.Go(func() error {
		scheduler.Start()
		logger(ctx).Info("cron started", slog.Int("jobs", len(jobs)))

		<-ctx.Done()

		<-scheduler.Stop().Done()
		logger(ctx).Info("cron stopped")

		return nil
	})

	return nil
}
