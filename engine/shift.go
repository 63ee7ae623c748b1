/*
shift.go - Shift definitions, dated assignments, and the shift resolver

PURPOSE:
  Determines which shift applies to an employee on a given date. Shift
  assignments are dated rows that may overlap in badly-maintained source
  data; the resolver turns that ambiguity into a documented deterministic
  choice instead of a silently arbitrary one.

RESOLUTION ORDER:
  1. Active dated assignments covering the date. If several cover it, the
     latest start_date wins, tie-broken by highest identity (most recently
     created row wins).
  2. The employee's current shift, if set.
  3. The system default shift, if set.
  4. None - attendance for that day cannot be classified against a shift
     and is flagged pending by the calculator.

SEE ALSO:
  - record.go: Uses the resolved shift for lateness/break/status
  - calendar.go: Uses the shift's weekend-day override
*/
package engine

import "time"

// =============================================================================
// SHIFT DEFINITION
// =============================================================================

type ShiftDefinition struct {
	ID   int64
	Name string

	Start TimeOfDay
	End   TimeOfDay

	// IsOvernight marks a shift whose end clock-time precedes its start,
	// spanning midnight (e.g. 22:00-06:00).
	IsOvernight bool

	// BreakHours is the configured default break, used when no break can
	// be detected from punch pairs.
	BreakHours Hours

	// GraceMinutes is the tolerance after the scheduled start before
	// lateness is counted.
	GraceMinutes int

	// WeekendDays overrides the system weekend set when non-nil.
	WeekendDays []time.Weekday

	IsActive bool
}

// Validate reports a configuration error for structurally invalid
// definitions. A non-overnight shift whose end precedes its start is bad
// data that must be surfaced, not coerced.
func (s ShiftDefinition) Validate() error {
	if s.Start.Equal(s.End) {
		return &ConfigError{Kind: "shift", DefinitionID: s.ID, Reason: "start equals end"}
	}
	if !s.IsOvernight && s.End.Before(s.Start) {
		return &ConfigError{Kind: "shift", DefinitionID: s.ID, Reason: "end precedes start but shift is not overnight"}
	}
	return nil
}

// Interval anchors the shift to a day. Overnight shifts end on the
// following calendar day.
func (s ShiftDefinition) Interval(d Date) (time.Time, time.Time) {
	start := s.Start.On(d)
	end := s.End.On(d)
	if s.IsOvernight {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// DurationHours is the nominal shift length, breaks included.
func (s ShiftDefinition) DurationHours() Hours {
	start, end := s.Interval(Date{Year: 2000, Month: time.January, Day: 1})
	return HoursBetween(start, end)
}

// Type classifies the shift as day or night. Overnight shifts and shifts
// starting in the evening or small hours are night shifts.
func (s ShiftDefinition) Type() ShiftType {
	if s.IsOvernight || s.Start.Hour >= 17 || s.Start.Hour < 5 {
		return ShiftNight
	}
	return ShiftDay
}

// =============================================================================
// SHIFT ASSIGNMENT - Dated employee-to-shift link
// =============================================================================

type ShiftAssignment struct {
	ID         int64
	EmployeeID EmployeeID
	ShiftID    int64
	StartDate  Date
	EndDate    *Date // nil = open-ended
	IsActive   bool
}

// Covers reports whether the assignment is in effect on the date.
func (a ShiftAssignment) Covers(d Date) bool {
	if !a.IsActive {
		return false
	}
	if d.Before(a.StartDate) {
		return false
	}
	if a.EndDate != nil && d.After(*a.EndDate) {
		return false
	}
	return true
}

// =============================================================================
// SHIFT RESOLVER
// =============================================================================

type ShiftResolver struct {
	Snapshot *ReferenceSnapshot
}

// Resolve returns the shift in effect for the employee on the date, or
// nil when none can be determined.
func (r *ShiftResolver) Resolve(employeeID EmployeeID, d Date) *ShiftDefinition {
	if a := r.resolveAssignment(employeeID, d); a != nil {
		if shift, ok := r.Snapshot.Shift(a.ShiftID); ok {
			return shift
		}
	}

	emp, ok := r.Snapshot.Employees[employeeID]
	if ok && emp.CurrentShiftID != 0 {
		if shift, ok := r.Snapshot.Shift(emp.CurrentShiftID); ok {
			return shift
		}
	}

	if id := r.Snapshot.Defaults.DefaultShiftID; id != 0 {
		if shift, ok := r.Snapshot.Shift(id); ok {
			return shift
		}
	}

	return nil
}

// resolveAssignment picks among possibly overlapping assignments. At most
// one active assignment should cover any (employee, date); when the source
// data violates that, the latest start date wins, then the highest id.
func (r *ShiftResolver) resolveAssignment(employeeID EmployeeID, d Date) *ShiftAssignment {
	var best *ShiftAssignment
	for i := range r.Snapshot.Assignments {
		a := &r.Snapshot.Assignments[i]
		if a.EmployeeID != employeeID || !a.Covers(d) {
			continue
		}
		if best == nil ||
			a.StartDate.After(best.StartDate) ||
			(a.StartDate.Equal(best.StartDate) && a.ID > best.ID) {
			best = a
		}
	}
	return best
}
