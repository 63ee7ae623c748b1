/*
Attendance record persistence.

PURPOSE:
  One row per (employee, date), written with an upsert: the engine's
  output is a derived artifact, so reprocessing a day simply replaces
  the previous row. Satisfies batch.RecordSink.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// SaveRecord inserts or replaces the record for (employee, date).
func (s *Store) SaveRecord(ctx context.Context, rec *engine.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_records (employee_id, date, shift_id, rule_id,
			check_in, check_out, status, is_holiday, is_weekend, shift_type,
			total_hours, break_hours, work_hours, late_minutes, break_start, break_end,
			overtime_hours, regular_overtime_hours, weekend_overtime_hours,
			holiday_overtime_hours, night_overtime_hours, raw_overtime_hours,
			overtime_rate, weighted_overtime, max_weekly_overtime, max_monthly_overtime,
			notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			shift_id = excluded.shift_id,
			rule_id = excluded.rule_id,
			check_in = excluded.check_in,
			check_out = excluded.check_out,
			status = excluded.status,
			is_holiday = excluded.is_holiday,
			is_weekend = excluded.is_weekend,
			shift_type = excluded.shift_type,
			total_hours = excluded.total_hours,
			break_hours = excluded.break_hours,
			work_hours = excluded.work_hours,
			late_minutes = excluded.late_minutes,
			break_start = excluded.break_start,
			break_end = excluded.break_end,
			overtime_hours = excluded.overtime_hours,
			regular_overtime_hours = excluded.regular_overtime_hours,
			weekend_overtime_hours = excluded.weekend_overtime_hours,
			holiday_overtime_hours = excluded.holiday_overtime_hours,
			night_overtime_hours = excluded.night_overtime_hours,
			raw_overtime_hours = excluded.raw_overtime_hours,
			overtime_rate = excluded.overtime_rate,
			weighted_overtime = excluded.weighted_overtime,
			max_weekly_overtime = excluded.max_weekly_overtime,
			max_monthly_overtime = excluded.max_monthly_overtime,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		string(rec.EmployeeID), rec.Date.String(), rec.ShiftID, rec.RuleID,
		timePtrToString(rec.CheckIn), timePtrToString(rec.CheckOut),
		string(rec.Status), boolToInt(rec.IsHoliday), boolToInt(rec.IsWeekend), string(rec.ShiftType),
		hoursToFloat(rec.TotalHours), hoursToFloat(rec.BreakHours), hoursToFloat(rec.WorkHours),
		rec.LateMinutes, timePtrToString(rec.BreakStart), timePtrToString(rec.BreakEnd),
		hoursToFloat(rec.OvertimeHours), hoursToFloat(rec.RegularOvertimeHours),
		hoursToFloat(rec.WeekendOvertimeHours), hoursToFloat(rec.HolidayOvertimeHours),
		hoursToFloat(rec.NightOvertimeHours), hoursToFloat(rec.RawOvertimeHours),
		decimalToFloat(rec.OvertimeRate), hoursToFloat(rec.WeightedOvertime),
		hoursPtrToFloat(rec.MaxWeeklyOvertime), hoursPtrToFloat(rec.MaxMonthlyOvertime),
		rec.Notes, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetRecord returns the record for (employee, date), or (nil, nil) when
// none exists.
func (s *Store) GetRecord(ctx context.Context, employeeID engine.EmployeeID, d engine.Date) (*engine.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, recordSelect+`
		WHERE employee_id = ? AND date = ?`,
		string(employeeID), d.String())

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns the employee's records with dates in [from, to],
// ordered by date. An empty employeeID returns every employee's records.
func (s *Store) ListRecords(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Date) ([]*engine.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := recordSelect + ` WHERE date >= ? AND date <= ?`
	args := []any{from.String(), to.String()}
	if employeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, string(employeeID))
	}
	query += ` ORDER BY employee_id, date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*engine.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

const recordSelect = `
	SELECT employee_id, date, shift_id, rule_id, check_in, check_out,
		status, is_holiday, is_weekend, shift_type,
		total_hours, break_hours, work_hours, late_minutes, break_start, break_end,
		overtime_hours, regular_overtime_hours, weekend_overtime_hours,
		holiday_overtime_hours, night_overtime_hours, raw_overtime_hours,
		overtime_rate, weighted_overtime, max_weekly_overtime, max_monthly_overtime, notes
	FROM attendance_records`

func scanRecord(row rowScanner) (*engine.AttendanceRecord, error) {
	var (
		rec                  engine.AttendanceRecord
		empID, date          string
		checkIn, checkOut    sql.NullString
		status, shiftType    string
		holiday, weekend     int
		total, brk, work     float64
		breakStart, breakEnd sql.NullString
		ot, rot, wot, hot    float64
		night, raw           float64
		rate, weighted       float64
		maxW, maxM           sql.NullFloat64
	)
	err := row.Scan(&empID, &date, &rec.ShiftID, &rec.RuleID, &checkIn, &checkOut,
		&status, &holiday, &weekend, &shiftType,
		&total, &brk, &work, &rec.LateMinutes, &breakStart, &breakEnd,
		&ot, &rot, &wot, &hot, &night, &raw,
		&rate, &weighted, &maxW, &maxM, &rec.Notes)
	if err != nil {
		return nil, err
	}

	rec.EmployeeID = engine.EmployeeID(empID)
	if rec.Date, err = engine.ParseDate(date); err != nil {
		return nil, err
	}
	if rec.CheckIn, err = timePtrFromString(checkIn); err != nil {
		return nil, err
	}
	if rec.CheckOut, err = timePtrFromString(checkOut); err != nil {
		return nil, err
	}
	rec.Status = engine.Status(status)
	rec.IsHoliday = holiday != 0
	rec.IsWeekend = weekend != 0
	rec.ShiftType = engine.ShiftType(shiftType)
	rec.TotalHours = floatToHours(total)
	rec.BreakHours = floatToHours(brk)
	rec.WorkHours = floatToHours(work)
	if rec.BreakStart, err = timePtrFromString(breakStart); err != nil {
		return nil, err
	}
	if rec.BreakEnd, err = timePtrFromString(breakEnd); err != nil {
		return nil, err
	}
	rec.OvertimeHours = floatToHours(ot)
	rec.RegularOvertimeHours = floatToHours(rot)
	rec.WeekendOvertimeHours = floatToHours(wot)
	rec.HolidayOvertimeHours = floatToHours(hot)
	rec.NightOvertimeHours = floatToHours(night)
	rec.RawOvertimeHours = floatToHours(raw)
	rec.OvertimeRate = decimal.NewFromFloat(rate)
	rec.WeightedOvertime = floatToHours(weighted)
	rec.MaxWeeklyOvertime = hoursPtrFromFloat(maxW)
	rec.MaxMonthlyOvertime = hoursPtrFromFloat(maxM)
	return &rec, nil
}

func timePtrToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func timePtrFromString(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
