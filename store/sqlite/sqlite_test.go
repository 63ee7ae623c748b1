package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEmployee(id engine.EmployeeID) engine.Employee {
	return engine.Employee{
		ID:                      id,
		Name:                    "Dana",
		Department:              "Assembly",
		CurrentShiftID:          1,
		EligibleWeekdayOvertime: true,
		EligibleWeekendOvertime: true,
		EligibleHolidayOvertime: true,
		IsActive:                true,
	}
}

func testShift() engine.ShiftDefinition {
	return engine.ShiftDefinition{
		Name:         "Day",
		Start:        engine.NewTimeOfDay(8, 0),
		End:          engine.NewTimeOfDay(17, 0),
		BreakHours:   engine.HoursFromInt(1),
		GraceMinutes: 15,
		IsActive:     true,
	}
}

func monday() engine.Date { return engine.NewDate(2026, time.March, 9) }

// =============================================================================
// SNAPSHOT ROUNDTRIP
// =============================================================================

func TestSnapshot_RoundTripsReferenceData(t *testing.T) {
	// GIVEN: One of everything saved through the store
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-001")))

	shiftID, err := store.SaveShift(ctx, testShift())
	require.NoError(t, err)
	require.Equal(t, int64(1), shiftID)

	from := monday()
	_, err = store.SaveAssignment(ctx, engine.ShiftAssignment{
		EmployeeID: "emp-001",
		ShiftID:    shiftID,
		StartDate:  from,
		IsActive:   true,
	})
	require.NoError(t, err)

	nightStart := engine.NewTimeOfDay(22, 0)
	nightEnd := engine.NewTimeOfDay(6, 0)
	maxDaily := engine.HoursFromInt(3)
	_, err = store.SaveRule(ctx, engine.OvertimeRule{
		Name:              "Standard",
		Departments:       []string{"Assembly"},
		ApplyOnWeekday:    true,
		ApplyOnWeekend:    true,
		ApplyOnHoliday:    true,
		DailyRegularHours: engine.HoursFromInt(8),
		WeekdayMultiplier: decimal.NewFromFloat(1.5),
		WeekendMultiplier: decimal.NewFromFloat(2.0),
		HolidayMultiplier: decimal.NewFromFloat(2.5),
		NightMultiplier:   decimal.NewFromFloat(1.2),
		NightWindow:       &engine.ClockWindow{Start: nightStart, End: nightEnd},
		MaxDailyOvertime:  &maxDaily,
		Priority:          10,
		IsActive:          true,
	})
	require.NoError(t, err)

	_, err = store.SaveHoliday(ctx, engine.Holiday{
		Name: "Founding Day",
		Date: engine.NewDate(2026, time.March, 20),
	})
	require.NoError(t, err)

	// WHEN: Loading a snapshot
	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)

	// THEN: Every entity survives with its semantics intact
	emp, ok := snap.Employee("emp-001")
	require.True(t, ok)
	assert.Equal(t, "Dana", emp.Name)
	assert.True(t, emp.EligibleWeekendOvertime)

	shift, ok := snap.Shifts[shiftID]
	require.True(t, ok)
	assert.Equal(t, engine.NewTimeOfDay(8, 0), shift.Start)
	assert.True(t, shift.BreakHours.Equal(engine.HoursFromInt(1)))

	require.Len(t, snap.Rules, 1)
	rule := snap.Rules[0]
	assert.True(t, rule.WeekendMultiplier.Equal(decimal.NewFromFloat(2.0)))
	require.NotNil(t, rule.NightWindow)
	assert.Equal(t, nightStart, rule.NightWindow.Start)
	require.NotNil(t, rule.MaxDailyOvertime)
	assert.True(t, rule.MaxDailyOvertime.Equal(maxDaily))

	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, engine.EmployeeID("emp-001"), snap.Assignments[0].EmployeeID)
	assert.Equal(t, shiftID, snap.Assignments[0].ShiftID)

	require.Len(t, snap.Holidays, 1)
	assert.Equal(t, "Founding Day", snap.Holidays[0].Name)
}

func TestSnapshot_DefaultsWhenUnconfigured(t *testing.T) {
	// A fresh database serves the built-in system defaults.
	store := newTestStore(t)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)

	want := engine.DefaultSystemDefaults()
	assert.Equal(t, want.WeekendDays, snap.Defaults.WeekendDays)
	assert.True(t, snap.Defaults.StandardDailyHours.Equal(want.StandardDailyHours))
}

func TestSaveDefaults_OverridesSystemConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := engine.DefaultSystemDefaults()
	d.WeekendDays = []time.Weekday{time.Friday, time.Saturday}
	d.StandardDailyHours = engine.HoursOf(7.5)
	require.NoError(t, store.SaveDefaults(ctx, d))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, snap.Defaults.WeekendDays)
	assert.True(t, snap.Defaults.StandardDailyHours.Equal(engine.HoursOf(7.5)))
}

func TestSaveEmployee_UpsertsInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee("emp-001")
	require.NoError(t, store.SaveEmployee(ctx, emp))

	emp.Department = "Packing"
	emp.EligibleWeekendOvertime = false
	require.NoError(t, store.SaveEmployee(ctx, emp))

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Packing", list[0].Department)
	assert.False(t, list[0].EligibleWeekendOvertime)
}

func TestSaveShift_UpdateByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveShift(ctx, testShift())
	require.NoError(t, err)

	updated := testShift()
	updated.ID = id
	updated.GraceMinutes = 30
	sameID, err := store.SaveShift(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, id, sameID)

	shifts, err := store.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, 30, shifts[0].GraceMinutes)
}

// =============================================================================
// PUNCH QUEUE
// =============================================================================

func TestPunches_WindowQueryAndProcessing(t *testing.T) {
	// GIVEN: Punches on two consecutive days
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-001")))

	d := monday()
	in := engine.NewTimeOfDay(8, 0).On(d)
	out := engine.NewTimeOfDay(17, 0).On(d)
	nextIn := engine.NewTimeOfDay(8, 0).On(d.AddDays(1))

	for _, p := range []engine.PunchEvent{
		{EmployeeID: "emp-001", Timestamp: in, Type: engine.PunchIn},
		{EmployeeID: "emp-001", Timestamp: out, Type: engine.PunchOut},
		{EmployeeID: "emp-001", Timestamp: nextIn, Type: engine.PunchIn},
	} {
		id, err := store.InsertPunch(ctx, p)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	// WHEN: Querying Monday's window only
	winFrom := engine.NewTimeOfDay(6, 0).On(d)
	winTo := engine.NewTimeOfDay(21, 0).On(d)
	punches, err := store.PunchesFor(ctx, "emp-001", winFrom, winTo)
	require.NoError(t, err)

	// THEN: Tuesday's punch stays out, order is chronological
	require.Len(t, punches, 2)
	assert.Equal(t, engine.PunchIn, punches[0].Type)
	assert.True(t, punches[0].Timestamp.Equal(in))
	assert.Equal(t, engine.PunchOut, punches[1].Type)

	// Marking Monday processed leaves Tuesday pending.
	require.NoError(t, store.MarkProcessed(ctx, "emp-001", winFrom, winTo))

	days, err := store.UnprocessedDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, engine.EmployeeID("emp-001"), days[0].EmployeeID)
	assert.True(t, days[0].Date.Equal(d.AddDays(1)))
}

func TestInsertPunch_RejectsUnknownType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertPunch(context.Background(), engine.PunchEvent{
		EmployeeID: "emp-001",
		Timestamp:  engine.NewTimeOfDay(8, 0).On(monday()),
		Type:       "sideways",
	})
	assert.Error(t, err)
}

// =============================================================================
// ATTENDANCE RECORDS
// =============================================================================

func sampleRecord(d engine.Date) *engine.AttendanceRecord {
	in := engine.NewTimeOfDay(8, 0).On(d)
	out := engine.NewTimeOfDay(18, 0).On(d)
	return &engine.AttendanceRecord{
		EmployeeID:           "emp-001",
		Date:                 d,
		ShiftID:              1,
		RuleID:               1,
		CheckIn:              &in,
		CheckOut:             &out,
		TotalHours:           engine.HoursFromInt(10),
		BreakHours:           engine.HoursFromInt(1),
		WorkHours:            engine.HoursFromInt(9),
		OvertimeHours:        engine.HoursFromInt(1),
		RegularOvertimeHours: engine.HoursFromInt(1),
		RawOvertimeHours:     engine.HoursFromInt(1),
		OvertimeRate:         decimal.NewFromFloat(1.5),
		WeightedOvertime:     engine.HoursOf(1.5),
		Status:               engine.StatusPresent,
		ShiftType:            engine.ShiftDay,
	}
}

func TestRecords_UpsertIsIdempotent(t *testing.T) {
	// GIVEN: A stored record
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-001")))

	d := monday()
	require.NoError(t, store.SaveRecord(ctx, sampleRecord(d)))

	// WHEN: Saving a revised record for the same employee-day
	revised := sampleRecord(d)
	revised.Status = engine.StatusLate
	revised.LateMinutes = 20
	require.NoError(t, store.SaveRecord(ctx, revised))

	// THEN: One row, holding the latest computation
	got, err := store.GetRecord(ctx, "emp-001", d)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, engine.StatusLate, got.Status)
	assert.Equal(t, 20, got.LateMinutes)
	assert.True(t, got.WorkHours.Equal(engine.HoursFromInt(9)))
	require.NotNil(t, got.CheckIn)
	assert.True(t, got.CheckIn.Equal(engine.NewTimeOfDay(8, 0).On(d)))

	all, err := store.ListRecords(ctx, "", d.AddDays(-1), d.AddDays(1))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetRecord_MissingDayIsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetRecord(context.Background(), "emp-001", monday())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRecords_FiltersByEmployeeAndRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-001")))
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-002")))

	d := monday()
	for _, day := range []engine.Date{d, d.AddDays(1), d.AddDays(2)} {
		rec := sampleRecord(day)
		require.NoError(t, store.SaveRecord(ctx, rec))
	}
	other := sampleRecord(d)
	other.EmployeeID = "emp-002"
	require.NoError(t, store.SaveRecord(ctx, other))

	// Range clips the third day; employee filter excludes emp-002.
	recs, err := store.ListRecords(ctx, "emp-001", d, d.AddDays(1))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, engine.EmployeeID("emp-001"), r.EmployeeID)
	}

	// Empty employee returns everything in range.
	recs, err = store.ListRecords(ctx, "", d, d)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
