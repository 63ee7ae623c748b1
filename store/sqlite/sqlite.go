/*
Package sqlite provides the SQLite-backed configuration store, punch
queue, and record sink.

PURPOSE:
  Implements the engine's collaborator boundaries over one database:
  - Configuration store: shifts, assignments, rules, holidays, employees
    and system defaults, loaded into an immutable ReferenceSnapshot
    before each batch.
  - Punch source: raw punch events with an is_processed flag, so the
    scheduler can find employee-days still awaiting computation.
  - Record sink: one row per (employee, date), written with an upsert so
    reprocessing is idempotent.

KEY TABLES:
  employees           Reference data, keyed by external employee code
  shifts              Shift definitions
  shift_assignments   Dated employee-to-shift links
  overtime_rules      Prioritized overtime rules
  holidays            Exact and recurring holiday dates
  punch_events        Raw punch queue (append-only, flagged when consumed)
  attendance_records  Derived records, PRIMARY KEY (employee_id, date)
  system_config       Single-row system defaults

INDEXES:
  - idx_punches_employee_time: window queries during computation (hot path)
  - idx_punches_unprocessed:   scheduler scan for pending employee-days
  - idx_assignments_employee_dates: dated shift resolution

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The attendance_records primary
  key plus the upsert guarantee last-writer-wins per (employee, date).

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  snapshot, err := st.Snapshot(ctx)
  eng := engine.New(snapshot)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/snapshot.go: The reference snapshot this store produces
  - engine/store/memory.go: In-memory implementation for testing
  - batch/runner.go: Consumes PunchesFor and SaveRecord
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance-engine/engine"
)

// Store implements the configuration store, punch source, and record
// sink using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store with the given database path. Use ":memory:" for
// an in-memory database (testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		current_shift_id INTEGER NOT NULL DEFAULT 0,
		weekend_days TEXT,
		eligible_weekday_overtime INTEGER NOT NULL DEFAULT 1,
		eligible_weekend_overtime INTEGER NOT NULL DEFAULT 1,
		eligible_holiday_overtime INTEGER NOT NULL DEFAULT 1,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		is_overnight INTEGER NOT NULL DEFAULT 0,
		break_hours REAL NOT NULL DEFAULT 0,
		grace_minutes INTEGER NOT NULL DEFAULT 15,
		weekend_days TEXT,
		is_active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS shift_assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		start_date TEXT NOT NULL,
		end_date TEXT,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee_dates
		ON shift_assignments(employee_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS overtime_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		apply_on_weekday INTEGER NOT NULL DEFAULT 1,
		apply_on_weekend INTEGER NOT NULL DEFAULT 1,
		apply_on_holiday INTEGER NOT NULL DEFAULT 1,
		departments TEXT NOT NULL DEFAULT '',
		daily_regular_hours REAL NOT NULL DEFAULT 8,
		weekday_multiplier REAL NOT NULL DEFAULT 1.5,
		weekend_multiplier REAL NOT NULL DEFAULT 2.0,
		holiday_multiplier REAL NOT NULL DEFAULT 2.5,
		night_start TEXT,
		night_end TEXT,
		night_multiplier REAL NOT NULL DEFAULT 1.2,
		max_daily_overtime REAL,
		max_weekly_overtime REAL,
		max_monthly_overtime REAL,
		priority INTEGER NOT NULL DEFAULT 10,
		is_active INTEGER NOT NULL DEFAULT 1,
		valid_from TEXT,
		valid_until TEXT
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		employee_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS punch_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		device_id INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL,
		punch_type TEXT NOT NULL,
		is_processed INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_punches_employee_time
		ON punch_events(employee_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_punches_unprocessed
		ON punch_events(is_processed, timestamp);

	CREATE TABLE IF NOT EXISTS attendance_records (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		shift_id INTEGER NOT NULL DEFAULT 0,
		rule_id INTEGER NOT NULL DEFAULT 0,
		check_in TEXT,
		check_out TEXT,
		status TEXT NOT NULL,
		is_holiday INTEGER NOT NULL DEFAULT 0,
		is_weekend INTEGER NOT NULL DEFAULT 0,
		shift_type TEXT NOT NULL DEFAULT 'day',
		total_hours REAL NOT NULL DEFAULT 0,
		break_hours REAL NOT NULL DEFAULT 0,
		work_hours REAL NOT NULL DEFAULT 0,
		late_minutes INTEGER NOT NULL DEFAULT 0,
		break_start TEXT,
		break_end TEXT,
		overtime_hours REAL NOT NULL DEFAULT 0,
		regular_overtime_hours REAL NOT NULL DEFAULT 0,
		weekend_overtime_hours REAL NOT NULL DEFAULT 0,
		holiday_overtime_hours REAL NOT NULL DEFAULT 0,
		night_overtime_hours REAL NOT NULL DEFAULT 0,
		raw_overtime_hours REAL NOT NULL DEFAULT 0,
		overtime_rate REAL NOT NULL DEFAULT 1,
		weighted_overtime REAL NOT NULL DEFAULT 0,
		max_weekly_overtime REAL,
		max_monthly_overtime REAL,
		notes TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	CREATE TABLE IF NOT EXISTS system_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		weekend_days TEXT NOT NULL,
		standard_daily_hours REAL NOT NULL DEFAULT 8,
		min_break REAL NOT NULL DEFAULT 0.25,
		max_break REAL NOT NULL DEFAULT 5,
		default_shift_id INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT - Load all reference data for one batch
// =============================================================================

// Snapshot loads the full reference data set as an immutable snapshot.
// A batch computes against this copy; configuration edits made while
// the batch runs do not affect it.
func (s *Store) Snapshot(ctx context.Context) (*engine.ReferenceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := engine.NewReferenceSnapshot()

	employees, err := s.listEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}
	for _, e := range employees {
		snap.Employees[e.ID] = e
	}

	shifts, err := s.listShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading shifts: %w", err)
	}
	for _, sh := range shifts {
		snap.Shifts[sh.ID] = sh
	}

	if snap.Assignments, err = s.listAssignments(ctx); err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	if snap.Rules, err = s.listRules(ctx); err != nil {
		return nil, fmt.Errorf("loading overtime rules: %w", err)
	}
	if snap.Holidays, err = s.listHolidays(ctx); err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}

	defaults, err := s.loadDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading system config: %w", err)
	}
	snap.Defaults = defaults

	return snap, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces the employee row.
func (s *Store) SaveEmployee(ctx context.Context, e engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, department, current_shift_id, weekend_days,
			eligible_weekday_overtime, eligible_weekend_overtime, eligible_holiday_overtime, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			current_shift_id = excluded.current_shift_id,
			weekend_days = excluded.weekend_days,
			eligible_weekday_overtime = excluded.eligible_weekday_overtime,
			eligible_weekend_overtime = excluded.eligible_weekend_overtime,
			eligible_holiday_overtime = excluded.eligible_holiday_overtime,
			is_active = excluded.is_active`,
		string(e.ID), e.Name, e.Department, e.CurrentShiftID, weekdaysToJSON(e.WeekendDays),
		boolToInt(e.EligibleWeekdayOvertime), boolToInt(e.EligibleWeekendOvertime),
		boolToInt(e.EligibleHolidayOvertime), boolToInt(e.IsActive))
	return err
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEmployees(ctx)
}

func (s *Store) listEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, department, current_shift_id, weekend_days,
			eligible_weekday_overtime, eligible_weekend_overtime, eligible_holiday_overtime, is_active
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.Employee
	for rows.Next() {
		var (
			e           engine.Employee
			id          string
			weekendJSON sql.NullString
			wd, we, hd  int
			active      int
		)
		if err := rows.Scan(&id, &e.Name, &e.Department, &e.CurrentShiftID, &weekendJSON,
			&wd, &we, &hd, &active); err != nil {
			return nil, err
		}
		e.ID = engine.EmployeeID(id)
		e.WeekendDays = weekdaysFromJSON(weekendJSON)
		e.EligibleWeekdayOvertime = wd != 0
		e.EligibleWeekendOvertime = we != 0
		e.EligibleHolidayOvertime = hd != 0
		e.IsActive = active != 0
		result = append(result, e)
	}
	return result, rows.Err()
}

// =============================================================================
// SHIFTS AND ASSIGNMENTS
// =============================================================================

// SaveShift inserts the shift when its id is zero, otherwise updates
// the existing row. Returns the shift id.
func (s *Store) SaveShift(ctx context.Context, sh engine.ShiftDefinition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sh.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO shifts (name, start_time, end_time, is_overnight, break_hours, grace_minutes, weekend_days, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sh.Name, sh.Start.String(), sh.End.String(), boolToInt(sh.IsOvernight),
			hoursToFloat(sh.BreakHours), sh.GraceMinutes, weekdaysToJSON(sh.WeekendDays), boolToInt(sh.IsActive))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE shifts SET name = ?, start_time = ?, end_time = ?, is_overnight = ?,
			break_hours = ?, grace_minutes = ?, weekend_days = ?, is_active = ?
		WHERE id = ?`,
		sh.Name, sh.Start.String(), sh.End.String(), boolToInt(sh.IsOvernight),
		hoursToFloat(sh.BreakHours), sh.GraceMinutes, weekdaysToJSON(sh.WeekendDays), boolToInt(sh.IsActive), sh.ID)
	return sh.ID, err
}

// ListShifts returns all shifts ordered by id.
func (s *Store) ListShifts(ctx context.Context) ([]engine.ShiftDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listShifts(ctx)
}

func (s *Store) listShifts(ctx context.Context) ([]engine.ShiftDefinition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_time, end_time, is_overnight, break_hours, grace_minutes, weekend_days, is_active
		FROM shifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.ShiftDefinition
	for rows.Next() {
		var (
			sh          engine.ShiftDefinition
			start, end  string
			overnight   int
			breakHours  float64
			weekendJSON sql.NullString
			active      int
		)
		if err := rows.Scan(&sh.ID, &sh.Name, &start, &end, &overnight, &breakHours,
			&sh.GraceMinutes, &weekendJSON, &active); err != nil {
			return nil, err
		}
		if sh.Start, err = engine.ParseTimeOfDay(start); err != nil {
			return nil, err
		}
		if sh.End, err = engine.ParseTimeOfDay(end); err != nil {
			return nil, err
		}
		sh.IsOvernight = overnight != 0
		sh.BreakHours = floatToHours(breakHours)
		sh.WeekendDays = weekdaysFromJSON(weekendJSON)
		sh.IsActive = active != 0
		result = append(result, sh)
	}
	return result, rows.Err()
}

// SaveAssignment inserts the assignment when its id is zero, otherwise
// updates the existing row. Returns the assignment id.
func (s *Store) SaveAssignment(ctx context.Context, a engine.ShiftAssignment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO shift_assignments (employee_id, shift_id, start_date, end_date, is_active)
			VALUES (?, ?, ?, ?, ?)`,
			string(a.EmployeeID), a.ShiftID, a.StartDate.String(), datePtrToString(a.EndDate), boolToInt(a.IsActive))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE shift_assignments SET employee_id = ?, shift_id = ?, start_date = ?, end_date = ?, is_active = ?
		WHERE id = ?`,
		string(a.EmployeeID), a.ShiftID, a.StartDate.String(), datePtrToString(a.EndDate), boolToInt(a.IsActive), a.ID)
	return a.ID, err
}

// ListAssignments returns all shift assignments ordered by id.
func (s *Store) ListAssignments(ctx context.Context) ([]engine.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAssignments(ctx)
}

func (s *Store) listAssignments(ctx context.Context) ([]engine.ShiftAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, shift_id, start_date, end_date, is_active
		FROM shift_assignments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.ShiftAssignment
	for rows.Next() {
		var (
			a      engine.ShiftAssignment
			empID  string
			start  string
			end    sql.NullString
			active int
		)
		if err := rows.Scan(&a.ID, &empID, &a.ShiftID, &start, &end, &active); err != nil {
			return nil, err
		}
		a.EmployeeID = engine.EmployeeID(empID)
		if a.StartDate, err = engine.ParseDate(start); err != nil {
			return nil, err
		}
		if a.EndDate, err = datePtrFromString(end); err != nil {
			return nil, err
		}
		a.IsActive = active != 0
		result = append(result, a)
	}
	return result, rows.Err()
}

// =============================================================================
// OVERTIME RULES
// =============================================================================

// SaveRule inserts the rule when its id is zero, otherwise updates the
// existing row. Returns the rule id.
func (s *Store) SaveRule(ctx context.Context, r engine.OvertimeRule) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nightStart, nightEnd any
	if r.NightWindow != nil {
		nightStart = r.NightWindow.Start.String()
		nightEnd = r.NightWindow.End.String()
	}

	args := []any{
		r.Name, boolToInt(r.ApplyOnWeekday), boolToInt(r.ApplyOnWeekend), boolToInt(r.ApplyOnHoliday),
		strings.Join(r.Departments, ","), hoursToFloat(r.DailyRegularHours),
		decimalToFloat(r.WeekdayMultiplier), decimalToFloat(r.WeekendMultiplier), decimalToFloat(r.HolidayMultiplier),
		nightStart, nightEnd, decimalToFloat(r.NightMultiplier),
		hoursPtrToFloat(r.MaxDailyOvertime), hoursPtrToFloat(r.MaxWeeklyOvertime), hoursPtrToFloat(r.MaxMonthlyOvertime),
		r.Priority, boolToInt(r.IsActive), datePtrToString(r.ValidFrom), datePtrToString(r.ValidUntil),
	}

	if r.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO overtime_rules (name, apply_on_weekday, apply_on_weekend, apply_on_holiday,
				departments, daily_regular_hours, weekday_multiplier, weekend_multiplier, holiday_multiplier,
				night_start, night_end, night_multiplier,
				max_daily_overtime, max_weekly_overtime, max_monthly_overtime,
				priority, is_active, valid_from, valid_until)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE overtime_rules SET name = ?, apply_on_weekday = ?, apply_on_weekend = ?, apply_on_holiday = ?,
			departments = ?, daily_regular_hours = ?, weekday_multiplier = ?, weekend_multiplier = ?, holiday_multiplier = ?,
			night_start = ?, night_end = ?, night_multiplier = ?,
			max_daily_overtime = ?, max_weekly_overtime = ?, max_monthly_overtime = ?,
			priority = ?, is_active = ?, valid_from = ?, valid_until = ?
		WHERE id = ?`, append(args, r.ID)...)
	return r.ID, err
}

// ListRules returns all overtime rules ordered by id.
func (s *Store) ListRules(ctx context.Context) ([]engine.OvertimeRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRules(ctx)
}

func (s *Store) listRules(ctx context.Context) ([]engine.OvertimeRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, apply_on_weekday, apply_on_weekend, apply_on_holiday,
			departments, daily_regular_hours, weekday_multiplier, weekend_multiplier, holiday_multiplier,
			night_start, night_end, night_multiplier,
			max_daily_overtime, max_weekly_overtime, max_monthly_overtime,
			priority, is_active, valid_from, valid_until
		FROM overtime_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.OvertimeRule
	for rows.Next() {
		var (
			r                     engine.OvertimeRule
			wd, we, hd, active    int
			departments           string
			daily                 float64
			wdm, wem, hdm, ntm    float64
			nightStart, nightEnd  sql.NullString
			maxD, maxW, maxM      sql.NullFloat64
			validFrom, validUntil sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &wd, &we, &hd, &departments,
			&daily, &wdm, &wem, &hdm, &nightStart, &nightEnd, &ntm,
			&maxD, &maxW, &maxM, &r.Priority, &active, &validFrom, &validUntil); err != nil {
			return nil, err
		}
		r.ApplyOnWeekday = wd != 0
		r.ApplyOnWeekend = we != 0
		r.ApplyOnHoliday = hd != 0
		if departments != "" {
			r.Departments = strings.Split(departments, ",")
		}
		r.DailyRegularHours = floatToHours(daily)
		r.WeekdayMultiplier = decimal.NewFromFloat(wdm)
		r.WeekendMultiplier = decimal.NewFromFloat(wem)
		r.HolidayMultiplier = decimal.NewFromFloat(hdm)
		r.NightMultiplier = decimal.NewFromFloat(ntm)
		if nightStart.Valid && nightEnd.Valid {
			ns, err := engine.ParseTimeOfDay(nightStart.String)
			if err != nil {
				return nil, err
			}
			ne, err := engine.ParseTimeOfDay(nightEnd.String)
			if err != nil {
				return nil, err
			}
			r.NightWindow = &engine.ClockWindow{Start: ns, End: ne}
		}
		r.MaxDailyOvertime = hoursPtrFromFloat(maxD)
		r.MaxWeeklyOvertime = hoursPtrFromFloat(maxW)
		r.MaxMonthlyOvertime = hoursPtrFromFloat(maxM)
		r.IsActive = active != 0
		if r.ValidFrom, err = datePtrFromString(validFrom); err != nil {
			return nil, err
		}
		if r.ValidUntil, err = datePtrFromString(validUntil); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday inserts the holiday when its id is zero, otherwise
// updates the existing row. Returns the holiday id.
func (s *Store) SaveHoliday(ctx context.Context, h engine.Holiday) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO holidays (name, date, is_recurring, employee_id) VALUES (?, ?, ?, ?)`,
			h.Name, h.Date.String(), boolToInt(h.Recurring), string(h.EmployeeID))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE holidays SET name = ?, date = ?, is_recurring = ?, employee_id = ? WHERE id = ?`,
		h.Name, h.Date.String(), boolToInt(h.Recurring), string(h.EmployeeID), h.ID)
	return h.ID, err
}

// ListHolidays returns all holidays ordered by id.
func (s *Store) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listHolidays(ctx)
}

func (s *Store) listHolidays(ctx context.Context) ([]engine.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, is_recurring, employee_id FROM holidays ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []engine.Holiday
	for rows.Next() {
		var (
			h         engine.Holiday
			date      string
			recurring int
			empID     string
		)
		if err := rows.Scan(&h.ID, &h.Name, &date, &recurring, &empID); err != nil {
			return nil, err
		}
		if h.Date, err = engine.ParseDate(date); err != nil {
			return nil, err
		}
		h.Recurring = recurring != 0
		h.EmployeeID = engine.EmployeeID(empID)
		result = append(result, h)
	}
	return result, rows.Err()
}

// =============================================================================
// SYSTEM DEFAULTS
// =============================================================================

// SaveDefaults stores the single system configuration row.
func (s *Store) SaveDefaults(ctx context.Context, d engine.SystemDefaults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_config (id, weekend_days, standard_daily_hours, min_break, max_break, default_shift_id)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weekend_days = excluded.weekend_days,
			standard_daily_hours = excluded.standard_daily_hours,
			min_break = excluded.min_break,
			max_break = excluded.max_break,
			default_shift_id = excluded.default_shift_id`,
		weekdaysToJSON(d.WeekendDays), hoursToFloat(d.StandardDailyHours),
		hoursToFloat(d.MinBreak), hoursToFloat(d.MaxBreak), d.DefaultShiftID)
	return err
}

// loadDefaults returns the stored configuration row, or the stock
// defaults when the system has never been configured.
func (s *Store) loadDefaults(ctx context.Context) (engine.SystemDefaults, error) {
	defaults := engine.DefaultSystemDefaults()

	var (
		weekendJSON sql.NullString
		standard    float64
		minB, maxB  float64
		shiftID     int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT weekend_days, standard_daily_hours, min_break, max_break, default_shift_id
		FROM system_config WHERE id = 1`).
		Scan(&weekendJSON, &standard, &minB, &maxB, &shiftID)
	if err == sql.ErrNoRows {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}

	if days := weekdaysFromJSON(weekendJSON); days != nil {
		defaults.WeekendDays = days
	}
	defaults.StandardDailyHours = floatToHours(standard)
	defaults.MinBreak = floatToHours(minB)
	defaults.MaxBreak = floatToHours(maxB)
	defaults.DefaultShiftID = shiftID
	return defaults, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func hoursToFloat(h engine.Hours) float64 { return h.Float64() }

func floatToHours(f float64) engine.Hours { return engine.HoursOf(f) }

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func weekdaysToJSON(days []time.Weekday) any {
	if days == nil {
		return nil
	}
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	b, _ := json.Marshal(ints)
	return string(b)
}

func weekdaysFromJSON(s sql.NullString) []time.Weekday {
	if !s.Valid || s.String == "" {
		return nil
	}
	var ints []int
	if err := json.Unmarshal([]byte(s.String), &ints); err != nil {
		return nil
	}
	days := make([]time.Weekday, len(ints))
	for i, v := range ints {
		days[i] = time.Weekday(v)
	}
	return days
}

func datePtrToString(d *engine.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func datePtrFromString(s sql.NullString) (*engine.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := engine.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func hoursPtrToFloat(h *engine.Hours) any {
	if h == nil {
		return nil
	}
	return hoursToFloat(*h)
}

func hoursPtrFromFloat(f sql.NullFloat64) *engine.Hours {
	if !f.Valid {
		return nil
	}
	h := floatToHours(f.Float64)
	return &h
}
