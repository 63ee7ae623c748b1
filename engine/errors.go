/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place. The taxonomy mirrors how failures
  are handled:

  1. Configuration errors - structurally invalid reference data (reversed
     shift interval, reversed rule validity). Fatal for the affected
     employee-day only; carries enough context to fix the data.
  2. Data anomalies - missing/duplicate punches, ambiguous assignments.
     These are NOT errors: they resolve through documented deterministic
     fallbacks and surface as statuses or notes on the record.
  3. No applicable rule/shift/holiday - also not errors; they mean "no
     effect" per component contract.

USAGE:
  if errors.Is(err, engine.ErrInvalidShiftDefinition) { ... }

  var cfgErr *engine.ConfigError
  if errors.As(err, &cfgErr) {
      log.Printf("bad %s %d for %s on %s: %s",
          cfgErr.Kind, cfgErr.DefinitionID, cfgErr.EmployeeID, cfgErr.Date, cfgErr.Reason)
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when the snapshot has no employee
	// for the requested id.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidShiftDefinition marks a structurally invalid shift
	// (e.g. end before start without the overnight flag).
	ErrInvalidShiftDefinition = errors.New("invalid shift definition")

	// ErrInvalidRuleDefinition marks a structurally invalid overtime rule
	// (e.g. reversed validity range).
	ErrInvalidRuleDefinition = errors.New("invalid overtime rule definition")
)

// =============================================================================
// CONFIG ERROR - Structured configuration failure
// =============================================================================

// ConfigError reports invalid reference data with enough context to fix
// it: which definition, for which employee-day. It fails only the
// affected employee-day; a batch collects these and continues.
type ConfigError struct {
	EmployeeID   EmployeeID
	Date         Date
	Kind         string // "shift" or "overtime_rule"
	DefinitionID int64
	Reason       string
}

func (e *ConfigError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("invalid %s %d: %s", e.Kind, e.DefinitionID, e.Reason)
	}
	return fmt.Sprintf("invalid %s %d for employee %s on %s: %s",
		e.Kind, e.DefinitionID, e.EmployeeID, e.Date, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	if e.Kind == "shift" {
		return ErrInvalidShiftDefinition
	}
	return ErrInvalidRuleDefinition
}

// IsConfigError reports whether err is a configuration error (as opposed
// to a missing-data condition, which the engine never raises).
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidShiftDefinition) ||
		errors.Is(err, ErrInvalidRuleDefinition)
}
