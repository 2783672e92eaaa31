/*
streak.go - Working-day streak calculation

PURPOSE:
  Computes the on-time attendance streak as the employee experiences it:
  consecutiveness is measured across the configured working-day calendar,
  not raw calendar days. A Friday-to-Monday gap under a Mon-Fri calendar
  extends the streak; a late arrival breaks it.

ALGORITHM:
  Walk attendance events in work-date order. For each on-time event, find
  the most recent working day strictly before the event's date (stepping
  backward one day at a time, skipping non-working days). If the previous
  streak date equals that expected day, the streak extends; a repeated
  same-day event leaves it unchanged; anything else restarts at 1. Late
  events reset to zero and clear the streak date.

SEE ALSO:
  - config.go: The working-day set
  - recompute.go: Feeds events through the tracker alongside the ledger pass
*/
package gamification

import "time"

// =============================================================================
// STREAK TRACKER
// =============================================================================

// StreakTracker accumulates streak state over an ascending attendance
// sequence. Zero value is not usable; construct with NewStreakTracker.
type StreakTracker struct {
	cfg Config

	current int
	longest int
	last    *time.Time // last streak date, nil after a late arrival
}

func NewStreakTracker(cfg Config) *StreakTracker {
	return &StreakTracker{cfg: cfg}
}

// Observe folds one attendance event into the streak state and returns the
// streak value as of that event. Events must arrive in work-date order.
func (st *StreakTracker) Observe(ev AttendanceEvent) int {
	if ev.Late {
		st.current = 0
		st.last = nil
		return 0
	}

	expectedPrev := st.previousWorkingDay(ev.WorkDate)
	switch {
	case st.last != nil && SameDay(*st.last, expectedPrev):
		st.current++
	case st.last != nil && SameDay(*st.last, ev.WorkDate):
		// Duplicate same-day event; streak unchanged.
	default:
		st.current = 1
	}

	d := ev.WorkDate
	st.last = &d
	if st.current > st.longest {
		st.longest = st.current
	}
	return st.current
}

// previousWorkingDay steps backward from d until landing on a working day.
// This is what bridges weekends and any other non-working gaps. Bounded at a
// full week so an empty working-day set cannot loop forever.
func (st *StreakTracker) previousWorkingDay(d time.Time) time.Time {
	prev := d.AddDate(0, 0, -1)
	for i := 0; i < 7 && !st.cfg.IsWorkingDay(prev); i++ {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// Current returns the streak after the last observed event.
func (st *StreakTracker) Current() int { return st.current }

// Longest returns the maximum streak seen over the whole sequence.
func (st *StreakTracker) Longest() int { return st.longest }

// LastStreakDate returns the work date of the last on-time event, or nil if
// the sequence is empty or ended with a late arrival.
func (st *StreakTracker) LastStreakDate() *time.Time { return st.last }
