/*
scheduler.go - Automated punch processing scheduler

PURPOSE:
  Periodically scans the punch queue for employee-days with unprocessed
  punches and runs the attendance computation for them. This is how raw
  punches become records without anyone calling /api/process.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Groups unprocessed punches into (employee, date) units
  - Each unit is recomputed from scratch; reprocessing a day that
    already has a record simply replaces it
  - Failed days keep their punches unprocessed and are retried on the
    next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 5 minutes)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewProcessingScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ProcessBatch endpoint (manual trigger, same path)
  - store/sqlite/punches.go: UnprocessedDays query
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

// ProcessingScheduler turns unprocessed punches into attendance records
// on a timer.
type ProcessingScheduler struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewProcessingScheduler creates a new scheduler.
func NewProcessingScheduler(store *sqlite.Store, handler *Handler) *ProcessingScheduler {
	return &ProcessingScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 5 * time.Minute,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *ProcessingScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *ProcessingScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *ProcessingScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndProcess()

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndProcess()
		case <-ps.stop:
			return
		}
	}
}

func (ps *ProcessingScheduler) checkAndProcess() {
	ctx := context.Background()

	pending, err := ps.Store.UnprocessedDays(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error scanning punch queue: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("[Scheduler] Found %d pending employee-days", len(pending))

	processed := 0
	failed := 0

	for _, unit := range pending {
		result, err := ps.Handler.runBatch(ctx, []engine.EmployeeID{unit.EmployeeID}, unit.Date, unit.Date)
		if err != nil {
			log.Printf("[Scheduler] Error processing %s/%s: %v", unit.EmployeeID, unit.Date, err)
			failed++
			continue
		}
		if len(result.Failures) > 0 {
			log.Printf("[Scheduler] Computation failed for %s/%s: %v",
				unit.EmployeeID, unit.Date, result.Failures[0].Err)
			failed++
			continue
		}
		processed++
	}

	log.Printf("[Scheduler] Completed: %d processed, %d failed", processed, failed)
}

// RunNow triggers an immediate check (for testing/admin).
func (ps *ProcessingScheduler) RunNow() {
	ps.checkAndProcess()
}

// GetNextRunTime returns when the next scheduled check will occur.
func (ps *ProcessingScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(ps.CheckInterval)
}
