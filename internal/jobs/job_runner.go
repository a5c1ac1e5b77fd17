package jobs

import (
	"context"
	"time"

	"equiprent/internal/config"
	"equiprent/internal/logger"
	"equiprent/internal/metrics"
	"equiprent/internal/repository"
	"equiprent/internal/service"
)

// jobTimeout bounds a single run.
const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all dependencies needed by jobs
type Services struct {
	Booking      service.BookingService
	RevokedToken repository.RevokedTokenRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the
// outcome.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	outcome := "success"
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			outcome = "panic"
		}
		metrics.JobRunsTotal.WithLabelValues(jobName, outcome).Inc()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err = jobFunc(ctx); err != nil {
		outcome = "error"
		logger.Error("Job failed", "job", jobName, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() error {
	err := jr.CompleteElapsedBookings()
	if perr := jr.PurgeRevokedTokens(); err == nil {
		err = perr
	}
	return err
}
