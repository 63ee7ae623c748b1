package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

func newCalculator() *engine.RecordCalculator {
	return &engine.RecordCalculator{Defaults: engine.DefaultSystemDefaults()}
}

func normalized(in, out time.Time) engine.NormalizedPunches {
	return engine.NormalizedPunches{CheckIn: &in, CheckOut: &out}
}

func weekdayInput(shift engine.ShiftDefinition, rule engine.OvertimeRule, punches engine.NormalizedPunches) engine.ComputeInput {
	return engine.ComputeInput{
		Employee: testEmployee(),
		Date:     monday(),
		Shift:    &shift,
		Punches:  punches,
		Rule:     &rule,
	}
}

// =============================================================================
// LATENESS AND GRACE
// =============================================================================

func TestCompute_CheckInWithinGrace_NotLate(t *testing.T) {
	// GIVEN: Shift starts 08:00 with 15 minutes grace, check-in 08:10
	// THEN: Zero late minutes, status present

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 10), at(d, 17, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.LateMinutes != 0 {
		t.Errorf("late minutes = %d, want 0", rec.LateMinutes)
	}
	if rec.Status != engine.StatusPresent {
		t.Errorf("status = %s, want present", rec.Status)
	}
}

func TestCompute_CheckInPastGrace_Late(t *testing.T) {
	// GIVEN: Check-in 08:20 against an 08:15 grace deadline
	// THEN: 5 late minutes, status late

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 20), at(d, 17, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.LateMinutes != 5 {
		t.Errorf("late minutes = %d, want 5", rec.LateMinutes)
	}
	if rec.Status != engine.StatusLate {
		t.Errorf("status = %s, want late", rec.Status)
	}
}

func TestCompute_LateBeatsHalfDay(t *testing.T) {
	// A late arrival that also worked a short day is late, not half-day.

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 10, 0), at(d, 12, 30)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.Status != engine.StatusLate {
		t.Errorf("status = %s, want late", rec.Status)
	}
	if rec.LateMinutes != 105 {
		t.Errorf("late minutes = %d, want 105", rec.LateMinutes)
	}
}

// =============================================================================
// STATUS LADDER
// =============================================================================

func TestCompute_ShortDay_HalfDay(t *testing.T) {
	// GIVEN: On-time arrival but only 2 net work hours against an 8h standard
	// THEN: Status half-day

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 0), at(d, 11, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "work", rec.WorkHours, 2) // 3h total minus the shift's 1h default break
	if rec.Status != engine.StatusHalfDay {
		t.Errorf("status = %s, want half-day", rec.Status)
	}
}

func TestCompute_StayShorterThanDefaultBreak_BreakClampedToTotal(t *testing.T) {
	// GIVEN: A 30-minute stay against a shift with a 1h default break
	// THEN: The break is clamped to the total so work + break never
	// exceeds total

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 0), at(d, 8, 30)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "total", rec.TotalHours, 0.5)
	assertHours(t, "break", rec.BreakHours, 0.5)
	assertHours(t, "work", rec.WorkHours, 0)
	if sum := rec.WorkHours.Add(rec.BreakHours); sum.GreaterThan(rec.TotalHours) {
		t.Errorf("work + break = %s exceeds total %s", sum, rec.TotalHours)
	}
	if rec.Status != engine.StatusHalfDay {
		t.Errorf("status = %s, want half-day", rec.Status)
	}
}

func TestCompute_MissingCheckOut_PendingNeverPresent(t *testing.T) {
	// GIVEN: A check-in with no qualifying check-out
	// THEN: Status pending with a note, zero hours, no overtime

	c := newCalculator()
	d := monday()
	checkIn := at(d, 8, 0)
	in := weekdayInput(dayShift(), standardRule(), engine.NormalizedPunches{
		CheckIn:         &checkIn,
		MissingCheckOut: true,
	})

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.Status != engine.StatusPending {
		t.Errorf("status = %s, want pending", rec.Status)
	}
	if rec.Notes == "" {
		t.Error("anomaly note must be set")
	}
	if !rec.WorkHours.IsZero() || !rec.OvertimeHours.IsZero() {
		t.Error("missing check-out must leave hours at zero")
	}
	if rec.CheckOut != nil {
		t.Errorf("check-out = %v, want nil", rec.CheckOut)
	}
}

func TestCompute_ReversedPairOnDayShift_Pending(t *testing.T) {
	// A check-out clock-time before check-in on a non-overnight shift is
	// a missing-punch anomaly, not a negative duration.

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 17, 0), at(d, 8, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.Status != engine.StatusPending {
		t.Errorf("status = %s, want pending", rec.Status)
	}
	if !rec.TotalHours.IsZero() {
		t.Errorf("total = %s, want 0", rec.TotalHours)
	}
}

func TestCompute_NoShift_Pending(t *testing.T) {
	c := newCalculator()
	d := monday()
	rule := standardRule()
	in := engine.ComputeInput{
		Employee: testEmployee(),
		Date:     d,
		Punches:  normalized(at(d, 9, 0), at(d, 17, 0)),
		Rule:     &rule,
	}

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rec.Status != engine.StatusPending {
		t.Errorf("status = %s, want pending", rec.Status)
	}
	if rec.ShiftID != 0 {
		t.Errorf("shift id = %d, want 0", rec.ShiftID)
	}
}

// =============================================================================
// OVERNIGHT SHIFTS
// =============================================================================

func TestCompute_OvernightShift_FullEightHours(t *testing.T) {
	// GIVEN: Night shift 22:00-06:00, check-out clock-time precedes check-in
	// THEN: The check-out is carried to the next day; total is 8h

	c := newCalculator()
	d := monday()
	in := weekdayInput(nightShift(), standardRule(), normalized(at(d, 22, 0), at(d, 6, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "total", rec.TotalHours, 8)
	assertHours(t, "work", rec.WorkHours, 8)
	if rec.Status != engine.StatusPresent {
		t.Errorf("status = %s, want present", rec.Status)
	}
	if rec.ShiftType != engine.ShiftNight {
		t.Errorf("shift type = %s, want night", rec.ShiftType)
	}
	if rec.CheckOut == nil || rec.CheckOut.Sub(*rec.CheckIn) != 8*time.Hour {
		t.Errorf("check-out = %v, want 8h after check-in %v", rec.CheckOut, rec.CheckIn)
	}
}

// =============================================================================
// OVERTIME SPLIT
// =============================================================================

func TestCompute_WeekendAllWorkIsOvertime(t *testing.T) {
	// GIVEN: 6 net work hours on a Saturday
	// THEN: All 6 land in the weekend bucket at the weekend multiplier

	c := newCalculator()
	d := saturday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 0), at(d, 15, 0)))
	in.Date = d
	in.IsWeekend = true

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "work", rec.WorkHours, 6)
	assertHours(t, "weekend overtime", rec.WeekendOvertimeHours, 6)
	assertHours(t, "overtime", rec.OvertimeHours, 6)
	assertHours(t, "raw overtime", rec.RawOvertimeHours, 6)
	if !rec.RegularOvertimeHours.IsZero() || !rec.HolidayOvertimeHours.IsZero() {
		t.Error("only the weekend bucket may be populated")
	}
	if !rec.OvertimeRate.Equal(decimal.NewFromFloat(2.0)) {
		t.Errorf("rate = %s, want 2.0", rec.OvertimeRate)
	}
	assertHours(t, "weighted", rec.WeightedOvertime, 12)
}

func TestCompute_HolidayBeatsWeekendBucket(t *testing.T) {
	// A holiday falling on a weekend populates the holiday bucket only.

	c := newCalculator()
	d := saturday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 0), at(d, 15, 0)))
	in.Date = d
	in.IsWeekend = true
	in.IsHoliday = true

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "holiday overtime", rec.HolidayOvertimeHours, 6)
	if !rec.WeekendOvertimeHours.IsZero() {
		t.Error("weekend bucket must stay empty on a holiday")
	}
	if !rec.OvertimeRate.Equal(decimal.NewFromFloat(2.5)) {
		t.Errorf("rate = %s, want the holiday multiplier 2.5", rec.OvertimeRate)
	}
}

func TestCompute_IneligibleCategory_NoOvertimeButFullWork(t *testing.T) {
	// GIVEN: Weekend work by an employee ineligible for weekend overtime
	// THEN: Work hours unaffected, every overtime field zero

	c := newCalculator()
	d := saturday()
	in := weekdayInput(dayShift(), standardRule(), normalized(at(d, 8, 0), at(d, 15, 0)))
	in.Date = d
	in.IsWeekend = true
	in.Employee.EligibleWeekendOvertime = false

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "work", rec.WorkHours, 6)
	if !rec.OvertimeHours.IsZero() || !rec.WeekendOvertimeHours.IsZero() || !rec.RawOvertimeHours.IsZero() {
		t.Error("ineligible category must leave all overtime fields at zero")
	}
	if !rec.OvertimeRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("rate = %s, want neutral 1", rec.OvertimeRate)
	}
}

func TestCompute_DailyCapBoundsBucketKeepsRaw(t *testing.T) {
	// GIVEN: 3h of raw weekday overtime against a 2h daily cap
	// THEN: Bucket holds 2h, RawOvertimeHours keeps the pre-cap 3h

	capHours := engine.HoursFromInt(2)
	weekly := engine.HoursFromInt(10)

	rule := standardRule()
	rule.MaxDailyOvertime = &capHours
	rule.MaxWeeklyOvertime = &weekly

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), rule, normalized(at(d, 8, 0), at(d, 20, 0)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "work", rec.WorkHours, 11)
	assertHours(t, "overtime", rec.OvertimeHours, 2)
	assertHours(t, "regular overtime", rec.RegularOvertimeHours, 2)
	assertHours(t, "raw overtime", rec.RawOvertimeHours, 3)
	if rec.MaxWeeklyOvertime == nil || !rec.MaxWeeklyOvertime.Equal(weekly) {
		t.Errorf("weekly cap = %v, want 10 surfaced from the rule", rec.MaxWeeklyOvertime)
	}
}

func TestCompute_NightOvertimeNeverExceedsBucket(t *testing.T) {
	// GIVEN: Work 08:00-23:30 with a 22:00-06:00 night window
	// THEN: Night overtime is the 1.5h window overlap capped at the
	//       populated bucket

	rule := standardRule()
	rule.NightWindow = &engine.ClockWindow{
		Start: engine.NewTimeOfDay(22, 0),
		End:   engine.NewTimeOfDay(6, 0),
	}

	c := newCalculator()
	d := monday()
	in := weekdayInput(dayShift(), rule, normalized(at(d, 8, 0), at(d, 23, 30)))

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	// 15.5h total - 1h break = 14.5h work, 6.5h weekday overtime.
	assertHours(t, "overtime", rec.OvertimeHours, 6.5)
	assertHours(t, "night overtime", rec.NightOvertimeHours, 1.5)
	if rec.NightOvertimeHours.GreaterThan(rec.OvertimeHours) {
		t.Error("night overtime must never exceed the populated bucket")
	}
}

func TestCompute_NoRule_NoOvertime(t *testing.T) {
	c := newCalculator()
	d := monday()
	shift := dayShift()
	in := engine.ComputeInput{
		Employee: testEmployee(),
		Date:     d,
		Shift:    &shift,
		Punches:  normalized(at(d, 8, 0), at(d, 20, 0)),
	}

	rec, err := c.Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	assertHours(t, "work", rec.WorkHours, 11)
	if !rec.OvertimeHours.IsZero() {
		t.Errorf("overtime = %s, want 0 without a rule", rec.OvertimeHours)
	}
	if rec.RuleID != 0 {
		t.Errorf("rule id = %d, want 0", rec.RuleID)
	}
}

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

func TestCompute_InvalidShift_ConfigErrorWithContext(t *testing.T) {
	// GIVEN: A structurally invalid shift definition
	// THEN: A config error naming the employee and date, no record

	bad := dayShift()
	bad.End = bad.Start

	c := newCalculator()
	d := monday()
	in := weekdayInput(bad, standardRule(), normalized(at(d, 8, 0), at(d, 17, 0)))

	rec, err := c.Compute(in)
	if rec != nil {
		t.Fatalf("got a record %+v, want none", rec)
	}
	if !engine.IsConfigError(err) {
		t.Fatalf("err = %v, want a config error", err)
	}

	var cfg *engine.ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("err = %v, want *ConfigError", err)
	}
	if cfg.EmployeeID != "emp-001" || !cfg.Date.Equal(d) {
		t.Errorf("config error context = %s/%s, want emp-001/%s", cfg.EmployeeID, cfg.Date, d)
	}
}
