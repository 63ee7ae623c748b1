/*
Package batch drives attendance computation across many employee-days.

PURPOSE:
  The engine computes one (employee, date) at a time and is embarrassingly
  parallel: invocations share nothing but the read-only snapshot. The
  runner fans tasks out over a bounded worker pool, one task per
  employee-day, and collects per-day failures without aborting the run.

GUARANTEES:
  - A failed employee-day never blocks or corrupts others in the batch.
  - Reprocessing is idempotent: the sink upserts per (employee, date).
  - Cancellation simply stops launching new tasks; no partial record is
    ever emitted.
*/
package batch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// PunchSource supplies raw punches for an employee within a time window.
// The runner does not care whether they came from a biometric device,
// RFID, or manual entry.
type PunchSource interface {
	PunchesFor(ctx context.Context, employeeID engine.EmployeeID, from, to time.Time) ([]engine.PunchEvent, error)
}

// RecordSink receives one record per computed employee-day. Persistence,
// deduplication against prior records, and audit logging are its job.
type RecordSink interface {
	SaveRecord(ctx context.Context, rec *engine.AttendanceRecord) error
}

// =============================================================================
// RESULT
// =============================================================================

// Failure records one employee-day that could not be computed or stored.
type Failure struct {
	EmployeeID engine.EmployeeID
	Date       engine.Date
	Err        error
}

type Result struct {
	Computed int // records produced and stored
	Skipped  int // days with no attendance expectation and no punches
	Failures []Failure
}

// =============================================================================
// RUNNER
// =============================================================================

type Runner struct {
	Engine  *engine.Engine
	Punches PunchSource
	Sink    RecordSink

	// Concurrency bounds the worker pool. Values below 1 run serially.
	Concurrency int
}

// Run computes every (employee, date) pair in the cross product of
// employees and [from, to]. A nil employees slice means every active
// employee in the snapshot, in deterministic order.
func (r *Runner) Run(ctx context.Context, employees []engine.EmployeeID, from, to engine.Date) *Result {
	if employees == nil {
		employees = r.activeEmployees()
	}

	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result Result
	)

	for _, d := range engine.DatesBetween(from, to) {
		for _, empID := range employees {
			select {
			case <-ctx.Done():
				wg.Wait()
				return &result
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(empID engine.EmployeeID, d engine.Date) {
				defer wg.Done()
				defer func() { <-sem }()

				computed, err := r.runOne(ctx, empID, d)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					result.Failures = append(result.Failures, Failure{EmployeeID: empID, Date: d, Err: err})
				case computed:
					result.Computed++
				default:
					result.Skipped++
				}
			}(empID, d)
		}
	}

	wg.Wait()
	return &result
}

// runOne computes and stores a single employee-day. All-or-nothing: an
// error at any step leaves no partial output.
func (r *Runner) runOne(ctx context.Context, empID engine.EmployeeID, d engine.Date) (bool, error) {
	winStart, winEnd := r.Engine.PunchWindow(empID, d)
	punches, err := r.Punches.PunchesFor(ctx, empID, winStart, winEnd)
	if err != nil {
		return false, err
	}

	rec, err := r.Engine.ComputeDay(empID, d, punches)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	if err := r.Sink.SaveRecord(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Runner) activeEmployees() []engine.EmployeeID {
	var ids []engine.EmployeeID
	for id, emp := range r.Engine.Snapshot.Employees {
		if emp.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
