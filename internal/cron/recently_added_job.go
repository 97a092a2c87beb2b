package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/logger"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/metrics"
)

const recentlyAddedJobName = "recently_added_sweep"

type productSweeper interface {
	ClearRecentlyAddedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecentlyAddedJobParams configures the recently-added sweep.
type RecentlyAddedJobParams struct {
	Logger      *logger.Logger
	ProductRepo productSweeper
	Metrics     *metrics.CronJobMetrics
	Window      time.Duration
	Now         func() time.Time
}

// NewRecentlyAddedJob constructs the job that retires the
// recently-added badge from products older than the window.
func NewRecentlyAddedJob(params RecentlyAddedJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Window <= 0 {
		params.Window = 14 * 24 * time.Hour
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &recentlyAddedJob{
		logg:    params.Logger,
		repo:    params.ProductRepo,
		metrics: params.Metrics,
		window:  params.Window,
		now:     params.Now,
	}, nil
}

type recentlyAddedJob struct {
	logg    *logger.Logger
	repo    productSweeper
	metrics *metrics.CronJobMetrics
	window  time.Duration
	now     func() time.Time
}

func (j *recentlyAddedJob) Name() string {
	return recentlyAddedJobName
}

func (j *recentlyAddedJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.window)
	rows, err := j.repo.ClearRecentlyAddedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("clear recently added flags: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddRowsTouched(j.Name(), rows)
	}
	jctx := j.logg.WithField(ctx, "rows", rows)
	j.logg.Info(jctx, "recently added flags cleared")
	return nil
}
