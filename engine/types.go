/*
Package engine provides the attendance record computation core.

PURPOSE:
  This package contains the types and algorithms that turn raw clock-in /
  clock-out punch events into payroll-relevant attendance records: work
  hours, break time, lateness, and per-category overtime (weekday, weekend,
  holiday, night).

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A fractional-hour quantity (decimal-backed, no float drift)
  - PunchEvent: A raw punch from any source (biometric, RFID, manual)
  - AttendanceRecord: The single derived record per employee per day
  - Employee / SystemDefaults: Read-only reference data

DESIGN PRINCIPLES:
  1. Purity: Every component is a pure function of its inputs plus an
     immutable ReferenceSnapshot. No global state, no I/O.
  2. Determinism: Re-running a computation with identical inputs yields an
     identical record. All tie-breaks are explicit and documented.
  3. Precision: Uses decimal.Decimal for hour arithmetic to avoid
     floating-point errors in payroll figures.
  4. Tolerance: Missing or duplicate punches are data anomalies, not
     errors. Only structurally invalid reference data fails a computation.

USAGE:
  eng := engine.New(snapshot)
  rec, err := eng.ComputeDay("emp-042", engine.NewDate(2026, time.March, 9), punches)

SEE ALSO:
  - record.go: The record calculator (the orchestrating algorithm)
  - punch.go: Punch normalization and break detection
  - rule.go: Overtime rule selection
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Fractional-hour quantity
// =============================================================================

// Hours is a duration expressed in fractional hours (e.g. 7.75).
type Hours struct {
	Value decimal.Decimal
}

func HoursOf(v float64) Hours    { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFromInt(v int) Hours   { return Hours{Value: decimal.NewFromInt(int64(v))} }
func ZeroHours() Hours           { return Hours{Value: decimal.Zero} }

// HoursBetween converts the span between two instants to Hours,
// rounded to two decimal places.
func HoursBetween(from, to time.Time) Hours {
	h := to.Sub(from).Hours()
	return Hours{Value: decimal.NewFromFloat(h).Round(2)}
}

func (h Hours) Add(o Hours) Hours            { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours            { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Mul(s decimal.Decimal) Hours  { return Hours{Value: h.Value.Mul(s)} }
func (h Hours) Div(s decimal.Decimal) Hours  { return Hours{Value: h.Value.Div(s)} }
func (h Hours) Half() Hours                  { return Hours{Value: h.Value.Div(decimal.NewFromInt(2))} }
func (h Hours) IsZero() bool                 { return h.Value.IsZero() }
func (h Hours) IsNegative() bool             { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool             { return h.Value.IsPositive() }
func (h Hours) GreaterThan(o Hours) bool     { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool        { return h.Value.LessThan(o.Value) }
func (h Hours) Equal(o Hours) bool           { return h.Value.Equal(o.Value) }
func (h Hours) Min(o Hours) Hours            { if h.LessThan(o) { return h }; return o }
func (h Hours) Max(o Hours) Hours            { if h.GreaterThan(o) { return h }; return o }
func (h Hours) Float64() float64             { f, _ := h.Value.Float64(); return f }
func (h Hours) String() string               { return h.Value.StringFixed(2) }

// FloorZero clamps a negative quantity to zero. Work hours and overtime
// are never negative on a record.
func (h Hours) FloorZero() Hours {
	if h.IsNegative() {
		return ZeroHours()
	}
	return h
}

// Clamp bounds h to [lo, hi].
func (h Hours) Clamp(lo, hi Hours) Hours {
	if h.LessThan(lo) {
		return lo
	}
	if h.GreaterThan(hi) {
		return hi
	}
	return h
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID identifies an employee. It is opaque to the engine; punch
// sources typically use badge or payroll codes.
type EmployeeID string

// Reference rows (shifts, assignments, rules, holidays) carry int64
// identities assigned by the configuration store. Identity ordering is
// load-bearing: it is the documented tie-break for ambiguous assignments
// (highest wins) and equal-priority rules (lowest wins).

// =============================================================================
// PUNCH EVENT - Raw clock event from any source
// =============================================================================

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

// PunchEvent is a raw punch as delivered by a punch source. The engine
// does not care whether it came from a biometric device, RFID, or manual
// entry.
type PunchEvent struct {
	ID         int64
	EmployeeID EmployeeID
	DeviceID   int64
	Timestamp  time.Time
	Type       PunchType
	Processed  bool
}

// =============================================================================
// EMPLOYEE - Reference data
// =============================================================================

type Employee struct {
	ID         EmployeeID
	Name       string
	Department string

	// CurrentShiftID is the fallback shift when no dated assignment covers
	// a day. Zero means none.
	CurrentShiftID int64

	// WeekendDays overrides the shift/system weekend set when non-nil.
	WeekendDays []time.Weekday

	// Per-category overtime eligibility. An ineligible category still
	// counts toward work hours; only the overtime bucket stays empty.
	EligibleWeekdayOvertime bool
	EligibleWeekendOvertime bool
	EligibleHolidayOvertime bool

	IsActive bool
}

// =============================================================================
// DAY CLASSIFICATION AND STATUS
// =============================================================================

// DayClass categorizes a date for overtime purposes. Exactly one class
// applies to any day: holiday takes precedence over weekend, which takes
// precedence over weekday.
type DayClass string

const (
	DayWeekday DayClass = "weekday"
	DayWeekend DayClass = "weekend"
	DayHoliday DayClass = "holiday"
)

// Status is a classification label, not a workflow state. Each run
// recomputes it from scratch.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
	StatusPending Status = "pending"
)

type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

// =============================================================================
// SYSTEM DEFAULTS - Immutable configuration snapshot
// =============================================================================

// SystemDefaults carries the system-wide settings the engine needs.
// Callers pass it by value inside a ReferenceSnapshot; the engine never
// reads live configuration.
type SystemDefaults struct {
	// WeekendDays is the last-resort weekend set when neither the
	// employee nor the shift overrides it.
	WeekendDays []time.Weekday

	// StandardDailyHours is used for half-day classification when neither
	// rule nor shift supplies a threshold.
	StandardDailyHours Hours

	// Break bounds applied to punch-detected break durations.
	MinBreak Hours
	MaxBreak Hours

	// DefaultShiftID is the system fallback shift. Zero means none.
	DefaultShiftID int64

	// Punch window buffers around the nominal shift interval.
	PunchLookback time.Duration
	PunchTrailing time.Duration

	// DuplicatePunchGap collapses repeated badge taps of the same type.
	DuplicatePunchGap time.Duration
}

// DefaultSystemDefaults returns the stock configuration: Saturday/Sunday
// weekends, 8h standard day, 15min-5h break bounds.
func DefaultSystemDefaults() SystemDefaults {
	return SystemDefaults{
		WeekendDays:        []time.Weekday{time.Saturday, time.Sunday},
		StandardDailyHours: HoursFromInt(8),
		MinBreak:           HoursOf(0.25),
		MaxBreak:           HoursFromInt(5),
		PunchLookback:      2 * time.Hour,
		PunchTrailing:      4 * time.Hour,
		DuplicatePunchGap:  2 * time.Minute,
	}
}

// =============================================================================
// ATTENDANCE RECORD - The derived output, one per employee per day
// =============================================================================

// AttendanceRecord is the engine's sole output. It is a derived,
// recomputable artifact: re-running the engine with the same inputs
// produces an identical record. Persistence and deduplication against
// prior records are the output sink's responsibility.
type AttendanceRecord struct {
	EmployeeID EmployeeID
	Date       Date

	// ShiftID is zero when no shift could be resolved (status pending).
	ShiftID int64
	// RuleID is zero when no overtime rule applied.
	RuleID int64

	CheckIn  *time.Time
	CheckOut *time.Time

	Status    Status
	IsHoliday bool
	IsWeekend bool
	ShiftType ShiftType

	TotalHours  Hours // check-out minus check-in, breaks included
	BreakHours  Hours
	WorkHours   Hours // TotalHours - BreakHours, floored at zero
	LateMinutes int

	// Primary break interval when detected from punch pairs.
	BreakStart *time.Time
	BreakEnd   *time.Time

	// Overtime split. The three day-class buckets are mutually exclusive:
	// exactly one is populated per day. Night overtime is a view into the
	// populated bucket, never additive to it.
	OvertimeHours        Hours // sum of the three buckets
	RegularOvertimeHours Hours // weekday bucket
	WeekendOvertimeHours Hours
	HolidayOvertimeHours Hours
	NightOvertimeHours   Hours

	// RawOvertimeHours is the pre-cap figure; the daily cap is
	// informational and the excess is kept for the caller.
	RawOvertimeHours Hours

	// OvertimeRate is the multiplier of the selected rule for this day
	// class. WeightedOvertime = OvertimeHours * OvertimeRate.
	OvertimeRate     decimal.Decimal
	WeightedOvertime Hours

	// Weekly/monthly caps surfaced unchanged from the rule so the caller
	// can enforce them across multiple records. Nil means uncapped.
	MaxWeeklyOvertime  *Hours
	MaxMonthlyOvertime *Hours

	Notes string
}
