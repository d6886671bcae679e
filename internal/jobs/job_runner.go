package jobs

import (
	"context"
	"time"

	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
)

const defaultBatchSize = 100

// OverdueRentalLister finds active rentals whose end date has passed.
type OverdueRentalLister interface {
	ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]domain.Rental, error)
}

// LateReturnMarker performs the active -> late_return transition.
type LateReturnMarker interface {
	MarkLateReturn(ctx context.Context, idOrUID string, now time.Time) (*domain.Rental, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals OverdueRentalLister
	marker  LateReturnMarker
	config  config.SchedulerConfig
	now     func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals OverdueRentalLister, marker LateReturnMarker, cfg config.SchedulerConfig) *JobRunner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &JobRunner{
		rentals: rentals,
		marker:  marker,
		config:  cfg,
		now:     time.Now,
	}
}

// Config returns the schedule the runner was built with.
func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithComponent("jobs").With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Info("Starting job")
	started := time.Now()
	jobFunc()
	log.Info("Job completed", "duration", time.Since(started))
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkLateReturns()
}
