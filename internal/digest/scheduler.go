package digest

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
	job  *Job
}

// NewScheduler registers job on spec, a six-field cron expression with a
// leading seconds field.
func NewScheduler(spec string, job *Job) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	s := &Scheduler{cron: c, job: job}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	if _, err := s.job.Run(context.Background()); err != nil {
		s.job.out.Printf("[digest] run failed: %v", err)
	}
}

// Start runs the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.job.out.Println("[digest] scheduler started")
}

// Stop halts the schedule and returns a context done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
