package engine_test

import (
	"testing"
	"time"

	"github.com/warp/attendance-engine/engine"
)

func newNormalizer() *engine.PunchNormalizer {
	return &engine.PunchNormalizer{Defaults: engine.DefaultSystemDefaults()}
}

func TestNormalize_EarliestInLatestOut(t *testing.T) {
	// GIVEN: Multiple in and out punches across the day
	// THEN: Check-in is the earliest in, check-out the latest out after it

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 12, 0), engine.PunchOut),
		punch(3, "emp-001", at(d, 13, 0), engine.PunchIn),
		punch(4, "emp-001", at(d, 17, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckIn == nil || !result.CheckIn.Equal(at(d, 8, 0)) {
		t.Errorf("check-in = %v, want 08:00", result.CheckIn)
	}
	if result.CheckOut == nil || !result.CheckOut.Equal(at(d, 17, 0)) {
		t.Errorf("check-out = %v, want 17:00", result.CheckOut)
	}
	if result.MissingCheckOut {
		t.Error("check-out should not be flagged missing")
	}
}

func TestNormalize_CollapsesDuplicateTaps(t *testing.T) {
	// GIVEN: Two in punches 30 seconds apart (repeated badge tap)
	// THEN: Only the first survives

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 8, 0).Add(30*time.Second), engine.PunchIn),
		punch(3, "emp-001", at(d, 17, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckIn == nil || !result.CheckIn.Equal(at(d, 8, 0)) {
		t.Errorf("check-in = %v, want the first tap at 08:00", result.CheckIn)
	}
}

func TestNormalize_IgnoresPunchesOutsideWindow(t *testing.T) {
	// GIVEN: Day shift 08:00-17:00 with a 2h lookback, punch at 05:30
	// THEN: The early punch does not qualify

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 5, 30), engine.PunchIn),
		punch(2, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(3, "emp-001", at(d, 17, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckIn == nil || !result.CheckIn.Equal(at(d, 8, 0)) {
		t.Errorf("check-in = %v, want 08:00 (05:30 is outside the window)", result.CheckIn)
	}
}

func TestNormalize_MissingCheckOut(t *testing.T) {
	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckOut != nil {
		t.Errorf("check-out = %v, want nil", result.CheckOut)
	}
	if !result.MissingCheckOut {
		t.Error("missing check-out must be flagged")
	}
}

func TestNormalize_OutBeforeInDoesNotPair(t *testing.T) {
	// GIVEN: An out punch at 07:00 preceding the in punch at 08:00
	// THEN: It cannot serve as the check-out

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 7, 0), engine.PunchOut),
		punch(2, "emp-001", at(d, 8, 0), engine.PunchIn),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckOut != nil {
		t.Errorf("check-out = %v, want nil", result.CheckOut)
	}
	if !result.MissingCheckOut {
		t.Error("missing check-out must be flagged")
	}
}

func TestNormalize_LunchBreakIsPrimary(t *testing.T) {
	// GIVEN: A 20-minute morning pause and a one-hour lunch pause
	// THEN: Both count toward break time; the lunch one is primary

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 10, 0), engine.PunchOut),
		punch(3, "emp-001", at(d, 10, 20), engine.PunchIn),
		punch(4, "emp-001", at(d, 12, 0), engine.PunchOut),
		punch(5, "emp-001", at(d, 13, 0), engine.PunchIn),
		punch(6, "emp-001", at(d, 17, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if len(result.Breaks) != 2 {
		t.Fatalf("breaks = %d, want 2", len(result.Breaks))
	}
	assertHours(t, "detected break", result.DetectedBreakHours, 1.33)
	if result.BreakStart == nil || !result.BreakStart.Equal(at(d, 12, 0)) {
		t.Errorf("primary break start = %v, want 12:00", result.BreakStart)
	}
	if result.BreakEnd == nil || !result.BreakEnd.Equal(at(d, 13, 0)) {
		t.Errorf("primary break end = %v, want 13:00", result.BreakEnd)
	}
}

func TestNormalize_LunchWindowEndsAtFourteen(t *testing.T) {
	// GIVEN: A 30-minute pause ending at 13:00 and a 40-minute pause at
	// 14:10-14:50, past the 14:00 lunch cutoff
	// THEN: The midday pause is primary; minutes past 14:00 score no
	// lunch credit

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 12, 30), engine.PunchOut),
		punch(3, "emp-001", at(d, 13, 0), engine.PunchIn),
		punch(4, "emp-001", at(d, 14, 10), engine.PunchOut),
		punch(5, "emp-001", at(d, 14, 50), engine.PunchIn),
		punch(6, "emp-001", at(d, 18, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if len(result.Breaks) != 2 {
		t.Fatalf("breaks = %d, want 2", len(result.Breaks))
	}
	if result.BreakStart == nil || !result.BreakStart.Equal(at(d, 12, 30)) {
		t.Errorf("primary break start = %v, want 12:30", result.BreakStart)
	}
	if result.BreakEnd == nil || !result.BreakEnd.Equal(at(d, 13, 0)) {
		t.Errorf("primary break end = %v, want 13:00", result.BreakEnd)
	}
}

func TestNormalize_ShortGapIsNotABreak(t *testing.T) {
	// A 3-minute out/in pair is a re-badge, not a break.

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 10, 0), engine.PunchOut),
		punch(3, "emp-001", at(d, 10, 3), engine.PunchIn),
		punch(4, "emp-001", at(d, 17, 0), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if len(result.Breaks) != 0 {
		t.Errorf("breaks = %d, want 0", len(result.Breaks))
	}
	if !result.DetectedBreakHours.IsZero() {
		t.Errorf("detected break = %s, want 0", result.DetectedBreakHours)
	}
}

func TestNormalize_OvernightShiftSpansMidnight(t *testing.T) {
	// GIVEN: Night shift 22:00-06:00, in at 21:30, out at 06:10 next day
	// THEN: Both punches belong to the shift's own day

	n := newNormalizer()
	d := monday()
	shift := nightShift()
	punches := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 21, 30), engine.PunchIn),
		punch(2, "emp-001", at(d.AddDays(1), 6, 10), engine.PunchOut),
	}

	result := n.Normalize(d, &shift, punches)

	if result.CheckIn == nil || !result.CheckIn.Equal(at(d, 21, 30)) {
		t.Errorf("check-in = %v, want 21:30", result.CheckIn)
	}
	if result.CheckOut == nil || !result.CheckOut.Equal(at(d.AddDays(1), 6, 10)) {
		t.Errorf("check-out = %v, want 06:10 next day", result.CheckOut)
	}
	if result.MissingCheckOut {
		t.Error("check-out should not be flagged missing")
	}
}

func TestNormalize_OrderInsensitive(t *testing.T) {
	// Shuffled input must normalize to the same result as sorted input.

	n := newNormalizer()
	d := monday()
	shift := dayShift()
	sorted := []engine.PunchEvent{
		punch(1, "emp-001", at(d, 8, 0), engine.PunchIn),
		punch(2, "emp-001", at(d, 12, 0), engine.PunchOut),
		punch(3, "emp-001", at(d, 13, 0), engine.PunchIn),
		punch(4, "emp-001", at(d, 17, 0), engine.PunchOut),
	}
	shuffled := []engine.PunchEvent{sorted[2], sorted[0], sorted[3], sorted[1]}

	a := n.Normalize(d, &shift, sorted)
	b := n.Normalize(d, &shift, shuffled)

	if !a.CheckIn.Equal(*b.CheckIn) || !a.CheckOut.Equal(*b.CheckOut) {
		t.Error("normalization must not depend on input order")
	}
	if !a.DetectedBreakHours.Equal(b.DetectedBreakHours) {
		t.Error("break detection must not depend on input order")
	}
}
