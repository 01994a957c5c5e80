package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
)

// Job is a named unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// FanOutJob wraps a Scheduler so the cron runner can fire the daily
// fan-out.
type FanOutJob struct {
	scheduler *Scheduler
	timeout   time.Duration
}

// NewFanOutJob creates the daily fan-out job.
func NewFanOutJob(s *Scheduler, timeout time.Duration) *FanOutJob {
	return &FanOutJob{scheduler: s, timeout: timeout}
}

func (j *FanOutJob) Name() string { return "daily-question-fan-out" }

func (j *FanOutJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	_, err := j.scheduler.DeliverAll(ctx)
	return err
}

// CronRunner schedules jobs in a fixed timezone.
type CronRunner struct {
	c   *cron.Cron
	log *logger.Logger
}

// NewCronRunner creates a runner whose schedules are interpreted in the
// named IANA timezone.
func NewCronRunner(timezone string, log *logger.Logger) (*CronRunner, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &CronRunner{
		c:   cron.New(cron.WithLocation(loc)),
		log: log.With("component", "cron"),
	}, nil
}

// Add registers a job under a cron spec such as "0 15 * * *".
func (r *CronRunner) Add(spec string, job Job) error {
	name := job.Name()
	_, err := r.c.AddJob(spec, cronJobAdapterFunc(func() {
		start := time.Now()
		r.log.Info("job started", "job_name", name)
		if err := job.Run(context.Background()); err != nil {
			r.log.Error("job failed", "job_name", name, "error", err)
		}
		r.log.Info("job finished",
			"job_name", name,
			"duration", time.Since(start))
	}))
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start begins firing scheduled jobs in a background goroutine.
func (r *CronRunner) Start() {
	r.c.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (r *CronRunner) Stop() {
	<-r.c.Stop().Done()
}

type cronJobAdapterFunc func()

func (c cronJobAdapterFunc) Run() {
	c()
}
