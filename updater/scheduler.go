package updater

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/real8co/real8-price-updater/pricefeed"
)

// Scheduler owns the recurring price update trigger. Runs never overlap:
// a tick that fires while the previous run is still going is skipped.
type Scheduler struct {
	updater  *Updater
	cache    pricefeed.SnapshotCache
	interval time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewScheduler creates a lifecycle-managed trigger for the updater
func NewScheduler(u *Updater, cache pricefeed.SnapshotCache, interval time.Duration) *Scheduler {
	return &Scheduler{
		updater:  u,
		cache:    cache,
		interval: interval,
	}
}

// Start registers the recurring entry and fires one immediate run. Calling
// Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := c.AddFunc(spec, func() { s.updater.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule price update: %w", err)
	}

	c.Start()
	s.cron = c
	s.running = true

	log.Printf("⏰ price update scheduled every %s", s.interval)

	// The first update should not wait a full interval
	go s.updater.Run(ctx)

	return nil
}

// Stop clears the pending schedule, waits for an in-flight run to finish,
// and drops the cached snapshot.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()

	if !s.running {
		s.mu.Unlock()

		return nil
	}

	c := s.cron
	s.cron = nil
	s.running = false
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := s.cache.Clear(ctx); err != nil {
		log.Printf("⚠️ failed to clear price cache on shutdown: %v", err)
	}

	log.Println("🛑 price update scheduler stopped")

	return nil
}
