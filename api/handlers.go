/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance computation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                      List all employees
    POST   /api/employees                      Create or replace employee
    GET    /api/employees/{id}                 Get employee details
    GET    /api/employees/{id}/punches         Punch history for a window
    GET    /api/employees/{id}/records         Record history for a range
    GET    /api/employees/{id}/records/{date}  Single day record

  Shifts:
    GET    /api/shifts                 List shifts
    POST   /api/shifts                 Create or update shift
    GET    /api/assignments            List shift assignments
    POST   /api/assignments            Create or update assignment

  Rules and holidays:
    GET    /api/rules                  List overtime rules
    POST   /api/rules                  Create or update rule
    GET    /api/holidays               List holidays
    POST   /api/holidays               Create or update holiday

  Punches and processing:
    POST   /api/punches                Ingest one raw punch
    POST   /api/process                Run the batch over a date range
    GET    /api/records                Records across employees

  Config:
    GET    /api/config                 System defaults
    PUT    /api/config                 Update system defaults

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, batch runner)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Per-day computation failures inside a batch are NOT HTTP errors: they
  come back in the result body so one bad day never fails the run.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Automated punch processing
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/batch"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Concurrency for batch runs triggered over HTTP.
	Concurrency int
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store, Concurrency: 4}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		return
	}
	emp, ok := snap.Employee(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// SaveEmployee creates or replaces an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := engine.Employee{
		ID:                      engine.EmployeeID(req.ID),
		Name:                    req.Name,
		Department:              req.Department,
		CurrentShiftID:          req.CurrentShiftID,
		WeekendDays:             intsToWeekdays(req.WeekendDays),
		EligibleWeekdayOvertime: boolOr(req.EligibleWeekdayOvertime, true),
		EligibleWeekendOvertime: boolOr(req.EligibleWeekendOvertime, true),
		EligibleHolidayOvertime: boolOr(req.EligibleHolidayOvertime, true),
		IsActive:                boolOr(req.IsActive, true),
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns all shift definitions.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListShifts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveShift creates or updates a shift definition.
func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	var req SaveShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := engine.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time (use HH:MM)", err)
		return
	}
	end, err := engine.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time (use HH:MM)", err)
		return
	}

	shift := engine.ShiftDefinition{
		ID:           req.ID,
		Name:         req.Name,
		Start:        start,
		End:          end,
		IsOvernight:  req.IsOvernight,
		BreakHours:   engine.HoursOf(req.BreakHours),
		GraceMinutes: req.GraceMinutes,
		WeekendDays:  intsToWeekdays(req.WeekendDays),
		IsActive:     boolOr(req.IsActive, true),
	}
	if err := shift.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift definition", err)
		return
	}

	id, err := h.Store.SaveShift(r.Context(), shift)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	shift.ID = id
	writeJSON(w, http.StatusCreated, toShiftDTO(shift))
}

// ListAssignments returns all shift assignments.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Store.ListAssignments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveAssignment creates or updates a dated shift assignment.
func (h *Handler) SaveAssignment(w http.ResponseWriter, r *http.Request) {
	var req SaveAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	assignment := engine.ShiftAssignment{
		ID:         req.ID,
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		ShiftID:    req.ShiftID,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   boolOr(req.IsActive, true),
	}

	id, err := h.Store.SaveAssignment(r.Context(), assignment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	assignment.ID = id
	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// =============================================================================
// OVERTIME RULE HANDLERS
// =============================================================================

// ListRules returns all overtime rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}

	dtos := make([]RuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveRule creates or updates an overtime rule.
func (h *Handler) SaveRule(w http.ResponseWriter, r *http.Request) {
	var req SaveRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := ruleFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := rule.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rule definition", err)
		return
	}

	id, err := h.Store.SaveRule(r.Context(), rule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}
	rule.ID = id
	writeJSON(w, http.StatusCreated, toRuleDTO(rule))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveHoliday creates or updates a holiday.
func (h *Handler) SaveHoliday(w http.ResponseWriter, r *http.Request) {
	var req SaveHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	holiday := engine.Holiday{
		ID:         req.ID,
		Name:       req.Name,
		Date:       date,
		Recurring:  req.Recurring,
		EmployeeID: engine.EmployeeID(req.EmployeeID),
	}

	id, err := h.Store.SaveHoliday(r.Context(), holiday)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	holiday.ID = id
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// IngestPunch stores one raw punch event.
func (h *Handler) IngestPunch(w http.ResponseWriter, r *http.Request) {
	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}

	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp (use RFC3339)", err)
		return
	}

	punch := engine.PunchEvent{
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		DeviceID:   req.DeviceID,
		Timestamp:  ts,
		Type:       engine.PunchType(req.Type),
	}

	id, err := h.Store.InsertPunch(r.Context(), punch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to store punch", err)
		return
	}
	punch.ID = id
	writeJSON(w, http.StatusCreated, toPunchDTO(punch))
}

// GetPunches returns an employee's punches within [from, to).
func (h *Handler) GetPunches(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	from, to, err := parseTimeWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	punches, err := h.Store.PunchesFor(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list punches", err)
		return
	}

	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toPunchDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PROCESSING AND RECORD HANDLERS
// =============================================================================

// ProcessBatch runs the attendance computation over a date range.
func (h *Handler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	from, err := engine.ParseDate(req.FromDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date (use YYYY-MM-DD)", err)
		return
	}
	to, err := engine.ParseDate(req.ToDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to_date is before from_date", nil)
		return
	}

	var employees []engine.EmployeeID
	for _, id := range req.EmployeeIDs {
		employees = append(employees, engine.EmployeeID(id))
	}

	result, err := h.runBatch(r.Context(), employees, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Batch run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessResultDTO(result))
}

// runBatch loads a fresh snapshot, runs the batch, and flags the
// consumed punches. Shared with the scheduler.
func (h *Handler) runBatch(ctx context.Context, employees []engine.EmployeeID, from, to engine.Date) (*batch.Result, error) {
	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	eng := engine.New(snap)
	runner := &batch.Runner{
		Engine:      eng,
		Punches:     h.Store,
		Sink:        h.Store,
		Concurrency: h.Concurrency,
	}

	result := runner.Run(ctx, employees, from, to)

	// Flag punches for the successfully computed days so the scheduler
	// does not pick them up again. Failed days keep their punches
	// unprocessed and will be retried.
	failed := make(map[string]bool, len(result.Failures))
	for _, f := range result.Failures {
		failed[string(f.EmployeeID)+"|"+f.Date.String()] = true
	}

	batchEmployees := employees
	if batchEmployees == nil {
		for id, emp := range snap.Employees {
			if emp.IsActive {
				batchEmployees = append(batchEmployees, id)
			}
		}
	}

	for _, d := range engine.DatesBetween(from, to) {
		for _, empID := range batchEmployees {
			if failed[string(empID)+"|"+d.String()] {
				continue
			}
			wFrom, wTo := eng.PunchWindow(empID, d)
			if err := h.Store.MarkProcessed(ctx, empID, wFrom, wTo); err != nil {
				return result, fmt.Errorf("marking punches processed: %w", err)
			}
		}
	}

	return result, nil
}

// ListRecords returns records across employees for a date range.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(r.URL.Query().Get("employee_id"))

	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	records, err := h.Store.ListRecords(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeRecords returns one employee's records for a date range.
func (h *Handler) GetEmployeeRecords(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	records, err := h.Store.ListRecords(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRecord returns one employee's record for one date.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	date, err := engine.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Store.GetRecord(r.Context(), id, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get record", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig returns the system defaults.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load config", err)
		return
	}
	d := snap.Defaults
	writeJSON(w, http.StatusOK, ConfigDTO{
		WeekendDays:        weekdaysToInts(d.WeekendDays),
		StandardDailyHours: d.StandardDailyHours.Float64(),
		MinBreakHours:      d.MinBreak.Float64(),
		MaxBreakHours:      d.MaxBreak.Float64(),
		DefaultShiftID:     d.DefaultShiftID,
	})
}

// SaveConfig updates the system defaults.
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	defaults := engine.DefaultSystemDefaults()
	if req.WeekendDays != nil {
		defaults.WeekendDays = intsToWeekdays(req.WeekendDays)
	}
	if req.StandardDailyHours > 0 {
		defaults.StandardDailyHours = engine.HoursOf(req.StandardDailyHours)
	}
	if req.MinBreakHours > 0 {
		defaults.MinBreak = engine.HoursOf(req.MinBreakHours)
	}
	if req.MaxBreakHours > 0 {
		defaults.MaxBreak = engine.HoursOf(req.MaxBreakHours)
	}
	defaults.DefaultShiftID = req.DefaultShiftID

	if err := h.Store.SaveDefaults(r.Context(), defaults); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// HELPERS
// =============================================================================

func ruleFromRequest(req SaveRuleRequest) (engine.OvertimeRule, error) {
	rule := engine.OvertimeRule{
		ID:                req.ID,
		Name:              req.Name,
		ApplyOnWeekday:    req.ApplyOnWeekday,
		ApplyOnWeekend:    req.ApplyOnWeekend,
		ApplyOnHoliday:    req.ApplyOnHoliday,
		Departments:       req.Departments,
		DailyRegularHours: engine.HoursOf(req.DailyRegularHours),
		WeekdayMultiplier: decimalOf(req.WeekdayMultiplier),
		WeekendMultiplier: decimalOf(req.WeekendMultiplier),
		HolidayMultiplier: decimalOf(req.HolidayMultiplier),
		NightMultiplier:   decimalOf(req.NightMultiplier),
		Priority:          req.Priority,
		IsActive:          req.IsActive,
	}

	if (req.NightStart == nil) != (req.NightEnd == nil) {
		return rule, fmt.Errorf("night_start and night_end must be set together")
	}
	if req.NightStart != nil {
		start, err := engine.ParseTimeOfDay(*req.NightStart)
		if err != nil {
			return rule, fmt.Errorf("invalid night_start: %v", err)
		}
		end, err := engine.ParseTimeOfDay(*req.NightEnd)
		if err != nil {
			return rule, fmt.Errorf("invalid night_end: %v", err)
		}
		rule.NightWindow = &engine.ClockWindow{Start: start, End: end}
	}

	rule.MaxDailyOvertime = hoursPtrOf(req.MaxDailyOvertime)
	rule.MaxWeeklyOvertime = hoursPtrOf(req.MaxWeeklyOvertime)
	rule.MaxMonthlyOvertime = hoursPtrOf(req.MaxMonthlyOvertime)

	var err error
	if rule.ValidFrom, err = parseDatePtr(req.ValidFrom); err != nil {
		return rule, fmt.Errorf("invalid valid_from: %v", err)
	}
	if rule.ValidUntil, err = parseDatePtr(req.ValidUntil); err != nil {
		return rule, fmt.Errorf("invalid valid_until: %v", err)
	}
	return rule, nil
}

func toProcessResultDTO(result *batch.Result) ProcessResultDTO {
	dto := ProcessResultDTO{Computed: result.Computed, Skipped: result.Skipped}
	for _, f := range result.Failures {
		dto.Failures = append(dto.Failures, FailureDTO{
			EmployeeID: string(f.EmployeeID),
			Date:       f.Date.String(),
			Error:      f.Err.Error(),
		})
	}
	return dto
}

// parseDateRange reads from/to query params, defaulting to the last 31
// days when absent.
func parseDateRange(r *http.Request) (engine.Date, engine.Date, error) {
	now := engine.DateOf(time.Now())
	from, to := now.AddDays(-31), now

	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = engine.ParseDate(s); err != nil {
			return from, to, fmt.Errorf("invalid from (use YYYY-MM-DD)")
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = engine.ParseDate(s); err != nil {
			return from, to, fmt.Errorf("invalid to (use YYYY-MM-DD)")
		}
	}
	return from, to, nil
}

// parseTimeWindow reads from/to query params as RFC3339 instants,
// defaulting to the last 24 hours when absent.
func parseTimeWindow(r *http.Request) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)

	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			return from, to, fmt.Errorf("invalid from (use RFC3339)")
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.Parse(time.RFC3339, s); err != nil {
			return from, to, fmt.Errorf("invalid to (use RFC3339)")
		}
	}
	return from, to, nil
}

func parseDatePtr(s *string) (*engine.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := engine.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalOf(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func hoursPtrOf(f *float64) *engine.Hours {
	if f == nil {
		return nil
	}
	h := engine.HoursOf(*f)
	return &h
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
