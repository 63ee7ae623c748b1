/*
rule.go - Overtime rules and the rule selector

PURPOSE:
  An OvertimeRule carries the multipliers, thresholds, caps, and scoping
  that govern overtime on a given day. Rules are prioritized: when several
  are in effect, the lowest priority number wins, tie-broken by lowest
  identity (the first rule configured wins).

SELECTION FILTER:
  A rule survives for (department, dayClass, date) when it is active, its
  validity range covers the date, its department scope matches (empty
  scope matches all), and its applicability flag for the day class is set.
  No survivor means no overtime for that day - not an error.
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OVERTIME RULE
// =============================================================================

type OvertimeRule struct {
	ID   int64
	Name string

	// Day-class applicability flags.
	ApplyOnWeekday bool
	ApplyOnWeekend bool
	ApplyOnHoliday bool

	// Departments scopes the rule. Empty = all departments. Matching is
	// case-insensitive on trimmed names.
	Departments []string

	// DailyRegularHours is the threshold beyond which weekday hours count
	// as overtime. It also drives half-day classification.
	DailyRegularHours Hours

	WeekdayMultiplier decimal.Decimal
	WeekendMultiplier decimal.Decimal
	HolidayMultiplier decimal.Decimal

	// NightWindow is the time-of-day range earning the night differential,
	// possibly wrapping midnight. Nil = no night differential.
	NightWindow     *ClockWindow
	NightMultiplier decimal.Decimal

	// Caps. Nil = uncapped. The daily cap bounds a single record's
	// overtime bucket; weekly and monthly caps are surfaced on the record
	// for the caller to enforce across records.
	MaxDailyOvertime   *Hours
	MaxWeeklyOvertime  *Hours
	MaxMonthlyOvertime *Hours

	// Priority: lower number = higher precedence.
	Priority int

	IsActive bool

	// Validity range, either end optionally open.
	ValidFrom  *Date
	ValidUntil *Date
}

// Validate reports structurally invalid rule definitions.
func (r OvertimeRule) Validate() error {
	if r.ValidFrom != nil && r.ValidUntil != nil && r.ValidUntil.Before(*r.ValidFrom) {
		return &ConfigError{Kind: "overtime_rule", DefinitionID: r.ID, Reason: "valid_until precedes valid_from"}
	}
	if r.DailyRegularHours.IsNegative() {
		return &ConfigError{Kind: "overtime_rule", DefinitionID: r.ID, Reason: "negative daily regular hours"}
	}
	if r.MaxDailyOvertime != nil && r.MaxDailyOvertime.IsNegative() {
		return &ConfigError{Kind: "overtime_rule", DefinitionID: r.ID, Reason: "negative daily overtime cap"}
	}
	return nil
}

// InEffect reports whether the rule's validity range covers the date.
func (r OvertimeRule) InEffect(d Date) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom != nil && d.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && d.After(*r.ValidUntil) {
		return false
	}
	return true
}

// AppliesTo reports whether the rule covers the department.
func (r OvertimeRule) AppliesTo(department string) bool {
	if len(r.Departments) == 0 {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(department))
	for _, d := range r.Departments {
		if strings.ToLower(strings.TrimSpace(d)) == want {
			return true
		}
	}
	return false
}

// AppliesOn reports whether the rule's flag for the day class is set.
func (r OvertimeRule) AppliesOn(class DayClass) bool {
	switch class {
	case DayHoliday:
		return r.ApplyOnHoliday
	case DayWeekend:
		return r.ApplyOnWeekend
	default:
		return r.ApplyOnWeekday
	}
}

// MultiplierFor returns the pay multiplier for the day class.
func (r OvertimeRule) MultiplierFor(class DayClass) decimal.Decimal {
	switch class {
	case DayHoliday:
		return r.HolidayMultiplier
	case DayWeekend:
		return r.WeekendMultiplier
	default:
		return r.WeekdayMultiplier
	}
}

// =============================================================================
// RULE SELECTOR
// =============================================================================

type RuleSelector struct {
	Snapshot *ReferenceSnapshot
}

// Select returns the single highest-precedence rule in effect for the
// department and day class on the date, or nil when none applies.
func (s *RuleSelector) Select(department string, class DayClass, d Date) *OvertimeRule {
	var best *OvertimeRule
	for i := range s.Snapshot.Rules {
		r := &s.Snapshot.Rules[i]
		if !r.InEffect(d) || !r.AppliesTo(department) || !r.AppliesOn(class) {
			continue
		}
		if best == nil ||
			r.Priority < best.Priority ||
			(r.Priority == best.Priority && r.ID < best.ID) {
			best = r
		}
	}
	return best
}
