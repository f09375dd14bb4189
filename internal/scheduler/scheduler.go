// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"InsideX/pkg/logger"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunRecorder counts job outcomes.
type RunRecorder interface {
	RecordJobRun(job string, err error)
}

// Scheduler runs jobs on six-field cron specs (seconds first).
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	runs    RunRecorder
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *logger.Logger, runs RunRecorder, timeout time.Duration) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log.With(logger.String("component", "scheduler")),
		runs:    runs,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob registers job under schedule, e.g. "0 */15 * * * *" or "@every 30s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if _, err := s.cron.AddFunc(schedule, func() { _ = s.run(job) }); err != nil {
		return err
	}
	s.log.Info("job registered", logger.String("job", job.Name()), logger.String("schedule", schedule))
	return nil
}

// RunNow executes job once outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	if s.runs != nil {
		s.runs.RecordJobRun(job.Name(), err)
	}
	if err != nil {
		s.log.Error("job failed", logger.String("job", job.Name()), logger.Error(err))
		return err
	}
	s.log.Debug("job completed", logger.String("job", job.Name()), logger.Duration("took", time.Since(start)))
	return nil
}

func (s *Scheduler) Start() error {
	s.cron.Start()
	s.log.Info("scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.log.Info("scheduler stopped")
	return nil
}
