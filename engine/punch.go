/*
punch.go - Punch normalization and break detection

PURPOSE:
  Reduces raw, possibly duplicate or out-of-order punch events for an
  employee-day to at most one check-in and one check-out, plus any breaks
  detectable from out->in punch pairs in between.

WINDOWING:
  Punches qualify when they fall inside the day's attendance window: the
  shift's nominal start minus a lookback buffer, through the shift's
  nominal end (plus 24h for overnight shifts) plus a trailing buffer. For
  overnight shifts this is what attributes a check-out on the following
  calendar day back to the shift's own day. Punches outside the window or
  of unrecognized type are ignored, not errors.

DUPLICATES:
  Repeated badge taps of the same type within a short gap collapse to the
  first tap. Normalization is idempotent: the same punch set always
  reduces to the same result.

BREAK DETECTION:
  An out->in pair between check-in and check-out is a break candidate when
  its gap is longer than a quick re-badge (5 min) and shorter than a
  missing-punch situation (5 h). All candidate durations sum into the
  day's break time; the candidate scoring highest on lunch-hour overlap
  and closeness to one hour becomes the primary break interval.
*/
package engine

import (
	"sort"
	"time"
)

// Gaps outside this range are re-badges or missing punches, not breaks.
const (
	minBreakGap = 5 * time.Minute
	maxBreakGap = 5 * time.Hour
)

// Lunch window used only to score the primary break candidate.
const (
	lunchStartHour = 11
	lunchEndHour   = 14
)

// =============================================================================
// NORMALIZED PUNCHES - Output of normalization
// =============================================================================

type BreakInterval struct {
	Start time.Time
	End   time.Time
	Hours Hours
}

type NormalizedPunches struct {
	CheckIn  *time.Time
	CheckOut *time.Time

	// Breaks detected from out->in pairs, in chronological order.
	Breaks []BreakInterval

	// DetectedBreakHours is the sum over Breaks, zero when none were
	// detectable. The calculator clamps it to the system bounds.
	DetectedBreakHours Hours

	// Primary break interval (highest-scoring candidate), when any.
	BreakStart *time.Time
	BreakEnd   *time.Time

	// MissingCheckOut flags an in punch with no qualifying out punch.
	// A reportable anomaly, not an error.
	MissingCheckOut bool
}

// =============================================================================
// PUNCH NORMALIZER
// =============================================================================

type PunchNormalizer struct {
	Defaults SystemDefaults
}

// Window returns the qualifying interval for punches belonging to the
// day's attendance record. Without a shift the whole calendar day plus
// the trailing buffer is used.
func (n *PunchNormalizer) Window(d Date, shift *ShiftDefinition) (time.Time, time.Time) {
	if shift == nil {
		return d.Time(), d.AddDays(1).Time().Add(n.Defaults.PunchTrailing)
	}
	start, end := shift.Interval(d)
	return start.Add(-n.Defaults.PunchLookback), end.Add(n.Defaults.PunchTrailing)
}

// Normalize reduces the raw punches for an employee-day to a normalized
// check-in/check-out pair with detected breaks.
func (n *PunchNormalizer) Normalize(d Date, shift *ShiftDefinition, punches []PunchEvent) NormalizedPunches {
	windowStart, windowEnd := n.Window(d, shift)

	qualified := make([]PunchEvent, 0, len(punches))
	for _, p := range punches {
		if p.Type != PunchIn && p.Type != PunchOut {
			continue
		}
		if p.Timestamp.Before(windowStart) || p.Timestamp.After(windowEnd) {
			continue
		}
		qualified = append(qualified, p)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		if !qualified[i].Timestamp.Equal(qualified[j].Timestamp) {
			return qualified[i].Timestamp.Before(qualified[j].Timestamp)
		}
		return qualified[i].ID < qualified[j].ID
	})

	qualified = n.collapseDuplicates(qualified)

	var result NormalizedPunches

	for i := range qualified {
		if qualified[i].Type == PunchIn {
			t := qualified[i].Timestamp
			result.CheckIn = &t
			break
		}
	}

	if result.CheckIn != nil {
		for i := len(qualified) - 1; i >= 0; i-- {
			if qualified[i].Type == PunchOut && qualified[i].Timestamp.After(*result.CheckIn) {
				t := qualified[i].Timestamp
				result.CheckOut = &t
				break
			}
		}
		result.MissingCheckOut = result.CheckOut == nil
	}

	if result.CheckIn != nil && result.CheckOut != nil {
		n.detectBreaks(qualified, &result)
	}

	return result
}

// collapseDuplicates drops same-type punches that follow another within
// the duplicate gap (repeated badge taps). Input must be sorted.
func (n *PunchNormalizer) collapseDuplicates(punches []PunchEvent) []PunchEvent {
	if len(punches) == 0 {
		return punches
	}
	out := punches[:1]
	for _, p := range punches[1:] {
		last := out[len(out)-1]
		if p.Type == last.Type && p.Timestamp.Sub(last.Timestamp) <= n.Defaults.DuplicatePunchGap {
			continue
		}
		out = append(out, p)
	}
	return out
}

// detectBreaks scans out->in pairs between check-in and check-out.
func (n *PunchNormalizer) detectBreaks(punches []PunchEvent, result *NormalizedPunches) {
	type candidate struct {
		BreakInterval
		score int
	}
	var candidates []candidate
	total := ZeroHours()

	for i := 1; i < len(punches); i++ {
		prev, cur := punches[i-1], punches[i]
		if prev.Type != PunchOut || cur.Type != PunchIn {
			continue
		}
		if prev.Timestamp.Before(*result.CheckIn) || cur.Timestamp.After(*result.CheckOut) {
			continue
		}
		gap := cur.Timestamp.Sub(prev.Timestamp)
		if gap <= minBreakGap || gap >= maxBreakGap {
			continue
		}

		iv := BreakInterval{
			Start: prev.Timestamp,
			End:   cur.Timestamp,
			Hours: HoursBetween(prev.Timestamp, cur.Timestamp),
		}
		total = total.Add(iv.Hours)
		candidates = append(candidates, candidate{
			BreakInterval: iv,
			score:         lunchScore(prev.Timestamp, cur.Timestamp) + durationScore(gap),
		})
		result.Breaks = append(result.Breaks, iv)
	}

	if len(candidates) == 0 {
		return
	}
	result.DetectedBreakHours = total

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score ||
			(c.score == best.score && c.Hours.GreaterThan(best.Hours)) {
			best = c
		}
	}
	result.BreakStart = &best.Start
	result.BreakEnd = &best.End
}

// lunchScore favors candidates overlapping the lunch window: 3 when both
// ends fall inside it, 1 when one does.
func lunchScore(start, end time.Time) int {
	inLunch := func(t time.Time) bool {
		minuteOfDay := t.Hour()*60 + t.Minute()
		return minuteOfDay >= lunchStartHour*60 && minuteOfDay <= lunchEndHour*60
	}
	switch {
	case inLunch(start) && inLunch(end):
		return 3
	case inLunch(start) || inLunch(end):
		return 1
	default:
		return 0
	}
}

// durationScore favors candidates close to a one-hour lunch.
func durationScore(gap time.Duration) int {
	diff := (gap - time.Hour).Abs()
	switch {
	case diff < 6*time.Minute:
		return 3
	case diff < 15*time.Minute:
		return 2
	case diff < 30*time.Minute:
		return 1
	default:
		return 0
	}
}
