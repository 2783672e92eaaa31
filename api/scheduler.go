/*
scheduler.go - Automated recompute scheduler

PURPOSE:
  Periodically triggers a full batch recompute so derived results follow
  new attendance and overtime data without manual intervention.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Delegates to Handler.RunBatch, which serializes runs and records
    the run in the audit table
  - A tick that collides with a manual run is skipped, not queued

CONFIGURATION:
  - CheckInterval: How often to run (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRecomputeScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRecompute endpoint (manual trigger)
  - gamification/orchestrator.go: batch run semantics
*/
package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/warp/points-engine/gamification"
)

// RecomputeScheduler triggers periodic batch recomputes.
type RecomputeScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRecomputeScheduler creates a new scheduler.
func NewRecomputeScheduler(handler *Handler) *RecomputeScheduler {
	return &RecomputeScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *RecomputeScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *RecomputeScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RecomputeScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.runOnce()

	for {
		select {
		case <-rs.ticker.C:
			rs.runOnce()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RecomputeScheduler) runOnce() {
	ctx := context.Background()

	report, err := rs.Handler.RunBatch(ctx)
	if errors.Is(err, gamification.ErrRunInProgress) {
		log.Println("[Scheduler] Run already in progress, skipping tick")
		return
	}
	if err != nil {
		log.Printf("[Scheduler] Recompute failed: %v", err)
		return
	}

	log.Printf("[Scheduler] Run %s completed: %d/%d processed, %d failed",
		report.RunID, report.Processed, report.Total, report.Failed)
}

// RunNow triggers an immediate run (for testing/admin).
func (rs *RecomputeScheduler) RunNow() {
	rs.runOnce()
}

// GetNextRunTime returns when the next scheduled run will occur.
func (rs *RecomputeScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(rs.CheckInterval)
}
