/*
record.go - The record calculator

PURPOSE:
  Combines a resolved shift, normalized punches, day classification, and
  the selected overtime rule into one AttendanceRecord. This is the core
  algorithm of the engine; everything else feeds it.

ALGORITHM (in order):
  1. Total duration  = check-out - check-in, +24h for overnight shifts
                       whose check-out clock-time precedes check-in.
  2. Break duration  = punch-detected breaks clamped to the system bounds,
                       else the shift's configured default.
  3. Work hours      = total - break, floored at zero.
  4. Late minutes    = minutes past scheduled start + grace, floored at zero.
  5. Status          = absent / pending / late / half-day / present.
  6. Overtime split  = exactly one of the holiday/weekend/weekday buckets,
                       holiday > weekend > weekday; night overtime is a
                       sub-split of the populated bucket.

FAILURE SEMANTICS:
  Never raises for missing data - absent, pending, and missing-shift cases
  become status values. Fails only on structurally invalid reference data,
  surfaced as a *ConfigError naming the employee, date, and definition.
*/
package engine

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPUTE INPUT
// =============================================================================

// ComputeInput is everything the calculator needs for one employee-day.
// All fields are already-resolved snapshots; Compute performs no lookups.
type ComputeInput struct {
	Employee Employee
	Date     Date

	Shift   *ShiftDefinition // nil = unresolvable, record flagged pending
	Punches NormalizedPunches

	IsHoliday bool
	IsWeekend bool

	Rule *OvertimeRule // nil = no overtime computed
}

// Class returns the day classification: holiday > weekend > weekday.
func (in ComputeInput) Class() DayClass {
	switch {
	case in.IsHoliday:
		return DayHoliday
	case in.IsWeekend:
		return DayWeekend
	default:
		return DayWeekday
	}
}

// =============================================================================
// RECORD CALCULATOR
// =============================================================================

type RecordCalculator struct {
	Defaults SystemDefaults
}

// Compute derives the attendance record for one employee-day.
//
// Returns (nil, nil) when no record should exist: a holiday or weekend
// with no punches carries no attendance expectation. Returns an error
// only for invalid reference data; every data anomaly resolves to a
// status or note on the record.
func (c *RecordCalculator) Compute(in ComputeInput) (*AttendanceRecord, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}

	class := in.Class()

	rec := &AttendanceRecord{
		EmployeeID:   in.Employee.ID,
		Date:         in.Date,
		IsHoliday:    in.IsHoliday,
		IsWeekend:    in.IsWeekend,
		OvertimeRate: decimal.NewFromInt(1),
	}
	if in.Shift != nil {
		rec.ShiftID = in.Shift.ID
	}
	if in.Rule != nil {
		rec.RuleID = in.Rule.ID
	}

	checkIn := in.Punches.CheckIn
	if checkIn == nil {
		if class != DayWeekday {
			// No attendance expectation: no record at all.
			return nil, nil
		}
		rec.Status = StatusAbsent
		rec.ShiftType = c.shiftType(in.Shift, nil)
		return rec, nil
	}
	rec.CheckIn = checkIn

	checkOut, missingOut := c.effectiveCheckOut(in, *checkIn)

	// Steps 1-3: durations. A missing check-out leaves work at zero
	// pending manual resolution; break must follow total down to keep
	// work + break <= total.
	if checkOut != nil {
		// Store the effective instant so CheckOut-CheckIn always equals
		// the total duration, including the overnight-adjusted path.
		rec.CheckOut = checkOut
		rec.TotalHours = HoursBetween(*checkIn, *checkOut)
		rec.BreakHours = c.breakHours(in).Min(rec.TotalHours)
		rec.WorkHours = rec.TotalHours.Sub(rec.BreakHours).FloorZero()
		rec.BreakStart = in.Punches.BreakStart
		rec.BreakEnd = in.Punches.BreakEnd
	}

	// Step 4: lateness.
	rec.LateMinutes = c.lateMinutes(in.Date, in.Shift, *checkIn)

	// Step 5: status ladder.
	rec.Status = c.status(in, rec, missingOut)
	if missingOut {
		rec.Notes = "missing check-out punch; work hours pending manual resolution"
	}

	// Step 6: overtime split.
	if in.Rule != nil && checkOut != nil {
		c.splitOvertime(in, rec, class, *checkIn, *checkOut)
	}

	rec.ShiftType = c.shiftType(in.Shift, checkIn)
	return rec, nil
}

func (c *RecordCalculator) validate(in ComputeInput) error {
	if in.Shift != nil {
		if err := in.Shift.Validate(); err != nil {
			return c.withContext(err, in)
		}
	}
	if in.Rule != nil {
		if err := in.Rule.Validate(); err != nil {
			return c.withContext(err, in)
		}
	}
	return nil
}

func (c *RecordCalculator) withContext(err error, in ComputeInput) error {
	var cfg *ConfigError
	if errors.As(err, &cfg) {
		cfg.EmployeeID = in.Employee.ID
		cfg.Date = in.Date
		return cfg
	}
	return err
}

// effectiveCheckOut returns the instant to subtract from, adjusted +24h
// when an overnight shift's check-out clock-time precedes check-in. A
// reversed pair on a non-overnight shift is a missing-punch anomaly.
func (c *RecordCalculator) effectiveCheckOut(in ComputeInput, checkIn time.Time) (*time.Time, bool) {
	out := in.Punches.CheckOut
	if out == nil {
		return nil, true
	}
	if out.After(checkIn) {
		return out, false
	}
	if in.Shift != nil && in.Shift.IsOvernight {
		adjusted := out.Add(24 * time.Hour)
		return &adjusted, false
	}
	return nil, true
}

// breakHours applies step 2: detected breaks clamped to system bounds,
// else the shift default.
func (c *RecordCalculator) breakHours(in ComputeInput) Hours {
	if in.Punches.DetectedBreakHours.IsPositive() {
		return in.Punches.DetectedBreakHours.Clamp(c.Defaults.MinBreak, c.Defaults.MaxBreak)
	}
	if in.Shift != nil {
		return in.Shift.BreakHours
	}
	return ZeroHours()
}

func (c *RecordCalculator) lateMinutes(d Date, shift *ShiftDefinition, checkIn time.Time) int {
	if shift == nil {
		return 0
	}
	deadline := shift.Start.On(d).Add(time.Duration(shift.GraceMinutes) * time.Minute)
	if !checkIn.After(deadline) {
		return 0
	}
	return int(checkIn.Sub(deadline) / time.Minute)
}

func (c *RecordCalculator) status(in ComputeInput, rec *AttendanceRecord, missingOut bool) Status {
	switch {
	case in.Shift == nil:
		// Cannot classify attendance against a shift.
		return StatusPending
	case missingOut:
		return StatusPending
	case rec.LateMinutes > 0:
		return StatusLate
	case rec.WorkHours.LessThan(c.standardHours(in).Half()):
		return StatusHalfDay
	default:
		return StatusPresent
	}
}

// standardHours picks the daily-hours threshold: the rule's, else the
// shift's nominal duration, else the system default.
func (c *RecordCalculator) standardHours(in ComputeInput) Hours {
	if in.Rule != nil && in.Rule.DailyRegularHours.IsPositive() {
		return in.Rule.DailyRegularHours
	}
	if in.Shift != nil {
		return in.Shift.DurationHours()
	}
	return c.Defaults.StandardDailyHours
}

// splitOvertime applies step 6. The three day-class buckets are mutually
// exclusive; eligibility gates whether a bucket is populated at all
// (work hours are unaffected either way).
func (c *RecordCalculator) splitOvertime(in ComputeInput, rec *AttendanceRecord, class DayClass, checkIn, checkOut time.Time) {
	rule := in.Rule

	var raw Hours
	if class == DayHoliday || class == DayWeekend {
		// All worked hours are overtime on holidays and weekends.
		raw = rec.WorkHours
	} else {
		raw = rec.WorkHours.Sub(rule.DailyRegularHours).FloorZero()
	}

	if !raw.IsPositive() || !c.eligible(in.Employee, class) {
		return
	}
	rec.RawOvertimeHours = raw

	capped := raw
	if rule.MaxDailyOvertime != nil {
		capped = raw.Min(*rule.MaxDailyOvertime)
	}

	switch class {
	case DayHoliday:
		rec.HolidayOvertimeHours = capped
	case DayWeekend:
		rec.WeekendOvertimeHours = capped
	default:
		rec.RegularOvertimeHours = capped
	}
	rec.OvertimeHours = capped
	rec.OvertimeRate = rule.MultiplierFor(class)
	rec.WeightedOvertime = capped.Mul(rec.OvertimeRate)

	// Night sub-split: the portion of worked time inside the night
	// window, viewed into the populated bucket. Never exceeds it.
	if rule.NightWindow != nil {
		overlap := rule.NightWindow.OverlapHours(in.Date, checkIn, checkOut)
		rec.NightOvertimeHours = overlap.Min(capped)
	}

	if rule.MaxWeeklyOvertime != nil {
		v := *rule.MaxWeeklyOvertime
		rec.MaxWeeklyOvertime = &v
	}
	if rule.MaxMonthlyOvertime != nil {
		v := *rule.MaxMonthlyOvertime
		rec.MaxMonthlyOvertime = &v
	}
}

func (c *RecordCalculator) eligible(emp Employee, class DayClass) bool {
	switch class {
	case DayHoliday:
		return emp.EligibleHolidayOvertime
	case DayWeekend:
		return emp.EligibleWeekendOvertime
	default:
		return emp.EligibleWeekdayOvertime
	}
}

func (c *RecordCalculator) shiftType(shift *ShiftDefinition, checkIn *time.Time) ShiftType {
	if shift != nil {
		return shift.Type()
	}
	if checkIn != nil {
		h := checkIn.Hour()
		if h >= 18 || h < 5 {
			return ShiftNight
		}
	}
	return ShiftDay
}
