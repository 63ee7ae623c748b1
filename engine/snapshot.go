package engine

// =============================================================================
// REFERENCE SNAPSHOT - Immutable reference data for one computation batch
// =============================================================================

// ReferenceSnapshot is the read-only reference data the engine computes
// against: shifts, assignments, rules, holidays, employees, and system
// defaults. The configuration store builds one snapshot per batch; the
// engine never reads live configuration and never mutates the snapshot.
type ReferenceSnapshot struct {
	Shifts      map[int64]ShiftDefinition
	Assignments []ShiftAssignment
	Rules       []OvertimeRule
	Holidays    []Holiday
	Employees   map[EmployeeID]Employee
	Defaults    SystemDefaults
}

// NewReferenceSnapshot returns an empty snapshot with stock defaults.
func NewReferenceSnapshot() *ReferenceSnapshot {
	return &ReferenceSnapshot{
		Shifts:    make(map[int64]ShiftDefinition),
		Employees: make(map[EmployeeID]Employee),
		Defaults:  DefaultSystemDefaults(),
	}
}

// Shift looks up a shift definition by id.
func (s *ReferenceSnapshot) Shift(id int64) (*ShiftDefinition, bool) {
	shift, ok := s.Shifts[id]
	if !ok {
		return nil, false
	}
	return &shift, true
}

// Employee looks up an employee.
func (s *ReferenceSnapshot) Employee(id EmployeeID) (Employee, bool) {
	emp, ok := s.Employees[id]
	return emp, ok
}
