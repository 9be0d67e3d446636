package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic work. Errors are logged and the schedule keeps
// running; a failing job must not stop its siblings.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs a fixed set of jobs sequentially on a shared interval. The
// first pass runs immediately so a fresh deployment does not wait a full
// interval for data.
type Scheduler struct {
	interval time.Duration
	jobs     []Job
	logger   zerolog.Logger
}

func New(interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Add(job Job) {
	if job.Run == nil {
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 || len(s.jobs) == 0 {
		s.logger.Info().Msg("scheduler disabled")
		<-ctx.Done()
		return
	}

	s.logger.Info().Dur("interval", s.interval).Int("jobs", len(s.jobs)).Msg("scheduler started")
	s.runAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", job.Name).Dur("took", time.Since(start)).Msg("scheduled job failed")
			continue
		}
		s.logger.Info().Str("job", job.Name).Dur("took", time.Since(start)).Msg("scheduled job finished")
	}
}
