// Package scheduler runs a background job, such as the periodic backup, on
// a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Job is the work run on each tick.
type Job func(ctx context.Context) error

// Status holds the result of the last run.
type Status struct {
	Runs      int
	LastRun   time.Time
	NextRun   time.Time
	LastError string
}

// Scheduler runs one job on a cron schedule in the background.
type Scheduler struct {
	name     string
	schedule cron.Schedule
	job      Job
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	status Status
}

// New parses a standard five-field cron spec (or a descriptor such as
// "@daily") and returns a Scheduler that runs job on it.
func New(name, spec string, job Job, log *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("scheduler: parse %q: %w", spec, err)
	}
	return NewWithSchedule(name, schedule, job, log), nil
}

// NewWithSchedule returns a Scheduler driven by an already built schedule.
func NewWithSchedule(name string, schedule cron.Schedule, job Job, log *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		name:     name,
		schedule: schedule,
		job:      job,
		log:      log.With("job", name),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins running the job at each scheduled time. Call Stop to shut
// down gracefully.
func (s *Scheduler) Start() {
	go s.run()
	s.log.Info("scheduler started", "next_run", s.schedule.Next(time.Now()))
}

// Stop cancels any in-flight run and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.done
}

// Status returns the result of the last run.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) run() {
	defer close(s.done)

	for {
		now := time.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.log.Warn("schedule has no future runs, stopping")
			return
		}
		s.setNext(next)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-timer.C:
			s.runJob()
		case <-s.ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) setNext(next time.Time) {
	s.mu.Lock()
	s.status.NextRun = next
	s.mu.Unlock()
}

func (s *Scheduler) runJob() {
	start := time.Now()
	err := s.job(s.ctx)

	s.mu.Lock()
	s.status.Runs++
	s.status.LastRun = start
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("scheduled job failed", "error", err)
		return
	}
	s.log.Info("scheduled job complete", "duration", time.Since(start))
}
