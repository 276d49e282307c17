// Package scheduler runs periodic maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"learnhub/internal/application/subscription/usecases"
	"learnhub/internal/shared/biztime"
	"learnhub/internal/shared/logger"
)

// SweepJob runs one reconciliation sweep.
type SweepJob interface {
	Execute(ctx context.Context) (*usecases.SweepResult, error)
}

// SchedulerManager owns the process-wide gocron scheduler.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSweepJob runs the reconciliation sweep every interval, starting
// immediately. A run still in progress when the next is due pushes the next
// one back rather than overlapping it.
func (m *SchedulerManager) RegisterSweepJob(job SweepJob, interval, timeout time.Duration) error {
	if interval <= 0 {
		return errors.New("sweep interval must be positive")
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runSweep(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "sweep"),
		gocron.WithName("subscription-reconciliation"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription sweep job", "interval", interval, "timeout", timeout)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, job SweepJob) {
	startTime := biztime.NowUTC()

	result, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("subscription sweep finished with errors",
			"error", err,
			"duration", time.Since(startTime),
		)
	}
	if result == nil {
		return
	}
	if result.Skipped {
		m.logger.Debugw("subscription sweep skipped, lock held elsewhere")
		return
	}
	if result.ExpiredCount > 0 || result.NotifiedCount > 0 || result.Failed > 0 {
		m.logger.Infow("subscription sweep completed",
			"expired", result.ExpiredCount,
			"notified", result.NotifiedCount,
			"failed", result.Failed,
			"duration", result.Duration,
		)
	}
}

// Start starts the scheduler. Calling it twice is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
