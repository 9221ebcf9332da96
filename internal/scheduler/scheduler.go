// Package scheduler runs the periodic idle-session sweep.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts idle sessions and reports how many it removed.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Scheduler wraps robfig/cron and manages the sweep loop.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string // cron spec, e.g. "@every 10m"
}

// New creates a Scheduler that sweeps on the given cron spec.
func New(sweeper Sweeper, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		sweeper: sweeper,
		spec:    spec,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler and waits for a running sweep.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if n := s.sweeper.Sweep(ctx); n > 0 {
		log.Printf("[scheduler] Evicted %d idle session(s)", n)
	}
}
