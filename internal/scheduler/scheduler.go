// Package scheduler wires up the cron job that periodically re-verifies
// ghost signals for every active posting.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type reverifier interface {
	ReverifyActive(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron   *cron.Cron
	ghost  reverifier
	spec   string
	logger *log.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(ghost reverifier, intervalHours int, logger *log.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 12
	}
	return &Scheduler{
		cron:   cron.New(),
		ghost:  ghost,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		logger: logger,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runSweep)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	if s.logger != nil {
		s.logger.Printf("[Scheduler] started | spec=%s", s.spec)
	}
	return nil
}

// Stop waits for a running sweep to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	if s.logger != nil {
		s.logger.Printf("[Scheduler] stopped")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	processed, err := s.ghost.ReverifyActive(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Scheduler] ghost sweep failed | error=%v", err)
		}
		return
	}
	if s.logger != nil {
		s.logger.Printf("[Scheduler] ghost sweep done | postings=%d duration=%s", processed, time.Since(start).Round(time.Millisecond))
	}
}
