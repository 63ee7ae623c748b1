/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:
    EmployeeDTO, SaveEmployeeRequest

  Shifts:
    ShiftDTO, SaveShiftRequest, AssignmentDTO, SaveAssignmentRequest

  Rules and holidays:
    RuleDTO, SaveRuleRequest, HolidayDTO, SaveHolidayRequest

  Punches and records:
    PunchRequest, PunchDTO, RecordDTO

  Processing:
    ProcessRequest, ProcessResultDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Domain model these types mirror
*/
package api

import (
	"time"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Department              string `json:"department,omitempty"`
	CurrentShiftID          int64  `json:"current_shift_id,omitempty"`
	WeekendDays             []int  `json:"weekend_days,omitempty"`
	EligibleWeekdayOvertime bool   `json:"eligible_weekday_overtime"`
	EligibleWeekendOvertime bool   `json:"eligible_weekend_overtime"`
	EligibleHolidayOvertime bool   `json:"eligible_holiday_overtime"`
	IsActive                bool   `json:"is_active"`
}

// SaveEmployeeRequest creates or replaces an employee.
type SaveEmployeeRequest struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Department              string `json:"department,omitempty"`
	CurrentShiftID          int64  `json:"current_shift_id,omitempty"`
	WeekendDays             []int  `json:"weekend_days,omitempty"`
	EligibleWeekdayOvertime *bool  `json:"eligible_weekday_overtime,omitempty"`
	EligibleWeekendOvertime *bool  `json:"eligible_weekend_overtime,omitempty"`
	EligibleHolidayOvertime *bool  `json:"eligible_holiday_overtime,omitempty"`
	IsActive                *bool  `json:"is_active,omitempty"`
}

// =============================================================================
// SHIFTS AND ASSIGNMENTS
// =============================================================================

// ShiftDTO represents a shift definition.
type ShiftDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	StartTime    string  `json:"start_time"` // "HH:MM"
	EndTime      string  `json:"end_time"`
	IsOvernight  bool    `json:"is_overnight"`
	BreakHours   float64 `json:"break_hours"`
	GraceMinutes int     `json:"grace_minutes"`
	WeekendDays  []int   `json:"weekend_days,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// SaveShiftRequest creates (id absent/zero) or updates a shift.
type SaveShiftRequest struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	IsOvernight  bool    `json:"is_overnight"`
	BreakHours   float64 `json:"break_hours"`
	GraceMinutes int     `json:"grace_minutes"`
	WeekendDays  []int   `json:"weekend_days,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// AssignmentDTO represents a dated shift assignment.
type AssignmentDTO struct {
	ID         int64   `json:"id"`
	EmployeeID string  `json:"employee_id"`
	ShiftID    int64   `json:"shift_id"`
	StartDate  string  `json:"start_date"` // ISO date
	EndDate    *string `json:"end_date,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// SaveAssignmentRequest creates (id absent/zero) or updates an assignment.
type SaveAssignmentRequest struct {
	ID         int64   `json:"id,omitempty"`
	EmployeeID string  `json:"employee_id"`
	ShiftID    int64   `json:"shift_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// =============================================================================
// OVERTIME RULES
// =============================================================================

// RuleDTO represents an overtime rule.
type RuleDTO struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	ApplyOnWeekday     bool     `json:"apply_on_weekday"`
	ApplyOnWeekend     bool     `json:"apply_on_weekend"`
	ApplyOnHoliday     bool     `json:"apply_on_holiday"`
	Departments        []string `json:"departments,omitempty"`
	DailyRegularHours  float64  `json:"daily_regular_hours"`
	WeekdayMultiplier  float64  `json:"weekday_multiplier"`
	WeekendMultiplier  float64  `json:"weekend_multiplier"`
	HolidayMultiplier  float64  `json:"holiday_multiplier"`
	NightStart         *string  `json:"night_start,omitempty"`
	NightEnd           *string  `json:"night_end,omitempty"`
	NightMultiplier    float64  `json:"night_multiplier"`
	MaxDailyOvertime   *float64 `json:"max_daily_overtime,omitempty"`
	MaxWeeklyOvertime  *float64 `json:"max_weekly_overtime,omitempty"`
	MaxMonthlyOvertime *float64 `json:"max_monthly_overtime,omitempty"`
	Priority           int      `json:"priority"`
	IsActive           bool     `json:"is_active"`
	ValidFrom          *string  `json:"valid_from,omitempty"`
	ValidUntil         *string  `json:"valid_until,omitempty"`
}

// SaveRuleRequest creates (id absent/zero) or updates a rule.
type SaveRuleRequest RuleDTO

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Date       string `json:"date"` // ISO date
	Recurring  bool   `json:"recurring"`
	EmployeeID string `json:"employee_id,omitempty"` // empty = all employees
}

// SaveHolidayRequest creates (id absent/zero) or updates a holiday.
type SaveHolidayRequest HolidayDTO

// =============================================================================
// PUNCHES
// =============================================================================

// PunchRequest is one raw clock event from a device or manual entry.
type PunchRequest struct {
	EmployeeID string `json:"employee_id"`
	DeviceID   int64  `json:"device_id,omitempty"`
	Timestamp  string `json:"timestamp"` // RFC3339
	Type       string `json:"type"`      // "in" or "out"
}

// PunchDTO represents a stored punch event.
type PunchDTO struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	DeviceID   int64  `json:"device_id,omitempty"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Processed  bool   `json:"processed"`
}

// =============================================================================
// RECORDS AND PROCESSING
// =============================================================================

// RecordDTO represents a computed attendance record.
type RecordDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ShiftID    int64  `json:"shift_id,omitempty"`
	RuleID     int64  `json:"rule_id,omitempty"`

	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`

	Status    string `json:"status"`
	IsHoliday bool   `json:"is_holiday"`
	IsWeekend bool   `json:"is_weekend"`
	ShiftType string `json:"shift_type"`

	TotalHours  float64 `json:"total_hours"`
	BreakHours  float64 `json:"break_hours"`
	WorkHours   float64 `json:"work_hours"`
	LateMinutes int     `json:"late_minutes"`

	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`

	OvertimeHours        float64 `json:"overtime_hours"`
	RegularOvertimeHours float64 `json:"regular_overtime_hours"`
	WeekendOvertimeHours float64 `json:"weekend_overtime_hours"`
	HolidayOvertimeHours float64 `json:"holiday_overtime_hours"`
	NightOvertimeHours   float64 `json:"night_overtime_hours"`
	RawOvertimeHours     float64 `json:"raw_overtime_hours"`

	OvertimeRate     float64 `json:"overtime_rate"`
	WeightedOvertime float64 `json:"weighted_overtime"`

	Notes string `json:"notes,omitempty"`
}

// ProcessRequest triggers a batch run over a date range.
type ProcessRequest struct {
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active
	FromDate    string   `json:"from_date"`              // ISO date
	ToDate      string   `json:"to_date"`
}

// ProcessResultDTO summarizes a batch run.
type ProcessResultDTO struct {
	Computed int          `json:"computed"`
	Skipped  int          `json:"skipped"`
	Failures []FailureDTO `json:"failures,omitempty"`
}

// FailureDTO is one employee-day that could not be computed.
type FailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Error      string `json:"error"`
}

// ConfigDTO represents the system-wide defaults.
type ConfigDTO struct {
	WeekendDays        []int   `json:"weekend_days"`
	StandardDailyHours float64 `json:"standard_daily_hours"`
	MinBreakHours      float64 `json:"min_break_hours"`
	MaxBreakHours      float64 `json:"max_break_hours"`
	DefaultShiftID     int64   `json:"default_shift_id,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                      string(e.ID),
		Name:                    e.Name,
		Department:              e.Department,
		CurrentShiftID:          e.CurrentShiftID,
		WeekendDays:             weekdaysToInts(e.WeekendDays),
		EligibleWeekdayOvertime: e.EligibleWeekdayOvertime,
		EligibleWeekendOvertime: e.EligibleWeekendOvertime,
		EligibleHolidayOvertime: e.EligibleHolidayOvertime,
		IsActive:                e.IsActive,
	}
}

func toShiftDTO(s engine.ShiftDefinition) ShiftDTO {
	return ShiftDTO{
		ID:           s.ID,
		Name:         s.Name,
		StartTime:    s.Start.String(),
		EndTime:      s.End.String(),
		IsOvernight:  s.IsOvernight,
		BreakHours:   s.BreakHours.Float64(),
		GraceMinutes: s.GraceMinutes,
		WeekendDays:  weekdaysToInts(s.WeekendDays),
		IsActive:     s.IsActive,
	}
}

func toAssignmentDTO(a engine.ShiftAssignment) AssignmentDTO {
	return AssignmentDTO{
		ID:         a.ID,
		EmployeeID: string(a.EmployeeID),
		ShiftID:    a.ShiftID,
		StartDate:  a.StartDate.String(),
		EndDate:    dateToStringPtr(a.EndDate),
		IsActive:   a.IsActive,
	}
}

func toRuleDTO(r engine.OvertimeRule) RuleDTO {
	dto := RuleDTO{
		ID:                r.ID,
		Name:              r.Name,
		ApplyOnWeekday:    r.ApplyOnWeekday,
		ApplyOnWeekend:    r.ApplyOnWeekend,
		ApplyOnHoliday:    r.ApplyOnHoliday,
		Departments:       r.Departments,
		DailyRegularHours: r.DailyRegularHours.Float64(),
		Priority:          r.Priority,
		IsActive:          r.IsActive,
		ValidFrom:         dateToStringPtr(r.ValidFrom),
		ValidUntil:        dateToStringPtr(r.ValidUntil),
	}
	dto.WeekdayMultiplier, _ = r.WeekdayMultiplier.Float64()
	dto.WeekendMultiplier, _ = r.WeekendMultiplier.Float64()
	dto.HolidayMultiplier, _ = r.HolidayMultiplier.Float64()
	dto.NightMultiplier, _ = r.NightMultiplier.Float64()
	if r.NightWindow != nil {
		start := r.NightWindow.Start.String()
		end := r.NightWindow.End.String()
		dto.NightStart = &start
		dto.NightEnd = &end
	}
	dto.MaxDailyOvertime = hoursToFloatPtr(r.MaxDailyOvertime)
	dto.MaxWeeklyOvertime = hoursToFloatPtr(r.MaxWeeklyOvertime)
	dto.MaxMonthlyOvertime = hoursToFloatPtr(r.MaxMonthlyOvertime)
	return dto
}

func toHolidayDTO(h engine.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:         h.ID,
		Name:       h.Name,
		Date:       h.Date.String(),
		Recurring:  h.Recurring,
		EmployeeID: string(h.EmployeeID),
	}
}

func toPunchDTO(p engine.PunchEvent) PunchDTO {
	return PunchDTO{
		ID:         p.ID,
		EmployeeID: string(p.EmployeeID),
		DeviceID:   p.DeviceID,
		Timestamp:  p.Timestamp.UTC().Format(time.RFC3339),
		Type:       string(p.Type),
		Processed:  p.Processed,
	}
}

func toRecordDTO(rec *engine.AttendanceRecord) RecordDTO {
	dto := RecordDTO{
		EmployeeID:           string(rec.EmployeeID),
		Date:                 rec.Date.String(),
		ShiftID:              rec.ShiftID,
		RuleID:               rec.RuleID,
		CheckIn:              timeToStringPtr(rec.CheckIn),
		CheckOut:             timeToStringPtr(rec.CheckOut),
		Status:               string(rec.Status),
		IsHoliday:            rec.IsHoliday,
		IsWeekend:            rec.IsWeekend,
		ShiftType:            string(rec.ShiftType),
		TotalHours:           rec.TotalHours.Float64(),
		BreakHours:           rec.BreakHours.Float64(),
		WorkHours:            rec.WorkHours.Float64(),
		LateMinutes:          rec.LateMinutes,
		BreakStart:           timeToStringPtr(rec.BreakStart),
		BreakEnd:             timeToStringPtr(rec.BreakEnd),
		OvertimeHours:        rec.OvertimeHours.Float64(),
		RegularOvertimeHours: rec.RegularOvertimeHours.Float64(),
		WeekendOvertimeHours: rec.WeekendOvertimeHours.Float64(),
		HolidayOvertimeHours: rec.HolidayOvertimeHours.Float64(),
		NightOvertimeHours:   rec.NightOvertimeHours.Float64(),
		RawOvertimeHours:     rec.RawOvertimeHours.Float64(),
		WeightedOvertime:     rec.WeightedOvertime.Float64(),
		Notes:                rec.Notes,
	}
	dto.OvertimeRate, _ = rec.OvertimeRate.Float64()
	return dto
}

func weekdaysToInts(days []time.Weekday) []int {
	if days == nil {
		return nil
	}
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	return ints
}

func intsToWeekdays(ints []int) []time.Weekday {
	if ints == nil {
		return nil
	}
	days := make([]time.Weekday, len(ints))
	for i, v := range ints {
		days[i] = time.Weekday(v)
	}
	return days
}

func dateToStringPtr(d *engine.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func timeToStringPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func hoursToFloatPtr(h *engine.Hours) *float64 {
	if h == nil {
		return nil
	}
	f := h.Float64()
	return &f
}
