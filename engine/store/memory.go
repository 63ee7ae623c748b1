// Package store provides an in-memory punch source and record sink for
// testing and development. The SQLite-backed implementation lives in
// store/sqlite.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	punches     map[engine.EmployeeID][]engine.PunchEvent
	records     map[recordKey]engine.AttendanceRecord
	nextPunchID int64
}

type recordKey struct {
	EmployeeID engine.EmployeeID
	Date       engine.Date
}

func NewMemory() *Memory {
	return &Memory{
		punches: make(map[engine.EmployeeID][]engine.PunchEvent),
		records: make(map[recordKey]engine.AttendanceRecord),
	}
}

// AddPunch records a raw punch and assigns it an identity.
func (m *Memory) AddPunch(_ context.Context, p engine.PunchEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPunchID++
	p.ID = m.nextPunchID

	list := m.punches[p.EmployeeID]

	// Binary search for insertion point keeps each employee's punches
	// ordered by timestamp.
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Timestamp.After(p.Timestamp)
	})
	list = append(list, engine.PunchEvent{})
	copy(list[i+1:], list[i:])
	list[i] = p
	m.punches[p.EmployeeID] = list

	return p.ID, nil
}

// PunchesFor returns the employee's punches inside [from, to].
func (m *Memory) PunchesFor(_ context.Context, employeeID engine.EmployeeID, from, to time.Time) ([]engine.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.PunchEvent
	for _, p := range m.punches[employeeID] {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// MarkProcessed flags punches as consumed by a record computation.
func (m *Memory) MarkProcessed(_ context.Context, employeeID engine.EmployeeID, from, to time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.punches[employeeID]
	for i := range list {
		if !list[i].Timestamp.Before(from) && !list[i].Timestamp.After(to) {
			list[i].Processed = true
		}
	}
	return nil
}

// SaveRecord upserts the record for its (employee, date). Writing the
// same record twice is a no-op, which keeps batch reprocessing
// re-entrant.
func (m *Memory) SaveRecord(_ context.Context, rec *engine.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[recordKey{EmployeeID: rec.EmployeeID, Date: rec.Date}] = *rec
	return nil
}

// Record returns the stored record for an employee-day.
func (m *Memory) Record(employeeID engine.EmployeeID, d engine.Date) (engine.AttendanceRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[recordKey{EmployeeID: employeeID, Date: d}]
	return rec, ok
}

// Records returns all stored records, ordered by employee then date.
func (m *Memory) Records() []engine.AttendanceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.AttendanceRecord, 0, len(m.records))
	for _, rec := range m.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
