/*
Punch queue operations.

PURPOSE:
  The punch_events table is the append-only intake for raw clock events.
  Devices and manual-entry endpoints insert rows; the batch scheduler
  reads unprocessed ones to decide which employee-days need computing,
  and flags them once the day's record is stored.

TIMESTAMPS:
  Stored as UTC RFC3339 strings. With a fixed zone and second precision
  the lexicographic ordering matches chronological ordering, so window
  queries are plain string range comparisons.

SEE ALSO:
  - batch/runner.go: PunchSource interface this file satisfies
  - api/scheduler.go: Consumer of UnprocessedDays
*/
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/attendance-engine/engine"
)

// EmployeeDay identifies one pending unit of computation.
type EmployeeDay struct {
	EmployeeID engine.EmployeeID
	Date       engine.Date
}

// InsertPunch appends a raw punch event and returns its id.
func (s *Store) InsertPunch(ctx context.Context, p engine.PunchEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Type != engine.PunchIn && p.Type != engine.PunchOut {
		return 0, fmt.Errorf("invalid punch type %q", p.Type)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO punch_events (employee_id, device_id, timestamp, punch_type, is_processed)
		VALUES (?, ?, ?, ?, ?)`,
		string(p.EmployeeID), p.DeviceID, p.Timestamp.UTC().Format(time.RFC3339),
		string(p.Type), boolToInt(p.Processed))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PunchesFor returns the employee's punches with from <= timestamp < to,
// ordered by timestamp then id. Satisfies batch.PunchSource.
func (s *Store) PunchesFor(ctx context.Context, employeeID engine.EmployeeID, from, to time.Time) ([]engine.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, device_id, timestamp, punch_type, is_processed
		FROM punch_events
		WHERE employee_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp, id`,
		string(employeeID), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.PunchEvent
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// MarkProcessed flags all of the employee's punches inside the window.
// Called after the day's record has been stored.
func (s *Store) MarkProcessed(ctx context.Context, employeeID engine.EmployeeID, from, to time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE punch_events SET is_processed = 1
		WHERE employee_id = ? AND timestamp >= ? AND timestamp < ?`,
		string(employeeID), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	return err
}

// UnprocessedDays returns the distinct (employee, calendar date) pairs
// that still have unprocessed punches, oldest first. The scheduler
// feeds these to the batch runner.
func (s *Store) UnprocessedDays(ctx context.Context) ([]EmployeeDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT employee_id, substr(timestamp, 1, 10) AS day
		FROM punch_events
		WHERE is_processed = 0
		ORDER BY day, employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeDay
	for rows.Next() {
		var empID, day string
		if err := rows.Scan(&empID, &day); err != nil {
			return nil, err
		}
		d, err := engine.ParseDate(day)
		if err != nil {
			return nil, err
		}
		result = append(result, EmployeeDay{EmployeeID: engine.EmployeeID(empID), Date: d})
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPunch(row rowScanner) (engine.PunchEvent, error) {
	var (
		p         engine.PunchEvent
		empID     string
		ts        string
		punchType string
		processed int
	)
	if err := row.Scan(&p.ID, &empID, &p.DeviceID, &ts, &punchType, &processed); err != nil {
		return engine.PunchEvent{}, err
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return engine.PunchEvent{}, fmt.Errorf("bad punch timestamp %q: %w", ts, err)
	}
	p.EmployeeID = engine.EmployeeID(empID)
	p.Timestamp = t
	p.Type = engine.PunchType(punchType)
	p.Processed = processed != 0
	return p, nil
}
