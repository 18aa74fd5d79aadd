package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler fires a job on a cron expression in a fixed time zone.
// A run still in progress when the next tick arrives makes that tick a no-op.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	log      *zap.Logger
}

// New parses a standard five-field expression or a descriptor such as @daily
func New(expr string, loc *time.Location, job func(), log *zap.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("job must not be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(schedule, cron.FuncJob(job))

	return &Scheduler{cron: c, schedule: schedule, location: loc, log: log}, nil
}

// Next returns the first activation strictly after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Start runs the cron loop in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("⏰ Scheduler started", zap.Time("next_run", s.Next(time.Now())))
}

// Stop waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("⏹️ Scheduler stopped")
}
