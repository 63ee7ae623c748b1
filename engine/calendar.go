/*
calendar.go - Holiday and weekend resolution

PURPOSE:
  Determines whether a date is a holiday or a weekend for a given
  employee. Pure lookup over the reference snapshot: no side effects, and
  "not found" simply means false/default.

WEEKEND PRECEDENCE:
  The first non-nil source wins, in this order:
  1. The employee's own weekend-day override
  2. The resolved shift's weekend-day override
  3. The system-wide default weekend set

DAY CLASSIFICATION:
  Exactly one class applies to any date. Holiday takes precedence over
  weekend, which takes precedence over weekday.
*/
package engine

import "time"

// =============================================================================
// HOLIDAY
// =============================================================================

type Holiday struct {
	ID   int64
	Name string
	Date Date

	// Recurring holidays match month+day every year.
	Recurring bool

	// EmployeeID scopes the holiday to one employee. Empty = global.
	EmployeeID EmployeeID
}

// Matches reports whether the holiday applies to the employee on the date.
func (h Holiday) Matches(employeeID EmployeeID, d Date) bool {
	if h.EmployeeID != "" && h.EmployeeID != employeeID {
		return false
	}
	if h.Recurring {
		return h.Date.Month == d.Month && h.Date.Day == d.Day
	}
	return h.Date.Equal(d)
}

// =============================================================================
// CALENDAR RESOLVER
// =============================================================================

type CalendarResolver struct {
	Snapshot *ReferenceSnapshot
}

func (c *CalendarResolver) IsHoliday(employeeID EmployeeID, d Date) bool {
	for _, h := range c.Snapshot.Holidays {
		if h.Matches(employeeID, d) {
			return true
		}
	}
	return false
}

func (c *CalendarResolver) IsWeekend(employeeID EmployeeID, d Date) bool {
	return WeekdayIn(d.Weekday(), c.WeekendDays(employeeID, d))
}

// WeekendDays returns the weekend set in effect for the employee on the
// date, following the employee > shift > system precedence.
func (c *CalendarResolver) WeekendDays(employeeID EmployeeID, d Date) []time.Weekday {
	if emp, ok := c.Snapshot.Employees[employeeID]; ok && emp.WeekendDays != nil {
		return emp.WeekendDays
	}

	resolver := &ShiftResolver{Snapshot: c.Snapshot}
	if shift := resolver.Resolve(employeeID, d); shift != nil && shift.WeekendDays != nil {
		return shift.WeekendDays
	}

	return c.Snapshot.Defaults.WeekendDays
}

// Classify categorizes the date for overtime purposes.
func (c *CalendarResolver) Classify(employeeID EmployeeID, d Date) DayClass {
	if c.IsHoliday(employeeID, d) {
		return DayHoliday
	}
	if c.IsWeekend(employeeID, d) {
		return DayWeekend
	}
	return DayWeekday
}
