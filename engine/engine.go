/*
engine.go - The engine facade

PURPOSE:
  Wires the five components together for a single employee-day: calendar
  resolution, shift resolution, punch normalization, rule selection, and
  record calculation. One Engine serves one ReferenceSnapshot; invocations
  share no mutable state and are safe to run concurrently.
*/
package engine

import "time"

// Engine computes attendance records against one immutable snapshot.
type Engine struct {
	Snapshot *ReferenceSnapshot

	calendar   CalendarResolver
	shifts     ShiftResolver
	rules      RuleSelector
	normalizer PunchNormalizer
	calculator RecordCalculator
}

// New builds an engine over the snapshot.
func New(snapshot *ReferenceSnapshot) *Engine {
	return &Engine{
		Snapshot:   snapshot,
		calendar:   CalendarResolver{Snapshot: snapshot},
		shifts:     ShiftResolver{Snapshot: snapshot},
		rules:      RuleSelector{Snapshot: snapshot},
		normalizer: PunchNormalizer{Defaults: snapshot.Defaults},
		calculator: RecordCalculator{Defaults: snapshot.Defaults},
	}
}

// ComputeDay derives the attendance record for one employee-day from the
// raw punches supplied by the punch source. The punches may span
// neighboring calendar days; windowing decides which belong to this day.
//
// Returns (nil, nil) when no record should exist for the day (holiday or
// weekend with no punches). Errors are configuration errors only.
func (e *Engine) ComputeDay(employeeID EmployeeID, d Date, punches []PunchEvent) (*AttendanceRecord, error) {
	emp, ok := e.Snapshot.Employee(employeeID)
	if !ok {
		return nil, ErrEmployeeNotFound
	}

	shift := e.shifts.Resolve(employeeID, d)
	isHoliday := e.calendar.IsHoliday(employeeID, d)
	isWeekend := e.calendar.IsWeekend(employeeID, d)

	normalized := e.normalizer.Normalize(d, shift, punches)

	in := ComputeInput{
		Employee:  emp,
		Date:      d,
		Shift:     shift,
		Punches:   normalized,
		IsHoliday: isHoliday,
		IsWeekend: isWeekend,
	}
	in.Rule = e.rules.Select(emp.Department, in.Class(), d)

	return e.calculator.Compute(in)
}

// PunchWindow exposes the qualifying punch window for an employee-day so
// punch sources know how much surrounding data to fetch.
func (e *Engine) PunchWindow(employeeID EmployeeID, d Date) (time.Time, time.Time) {
	return e.normalizer.Window(d, e.shifts.Resolve(employeeID, d))
}
