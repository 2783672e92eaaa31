/*
recompute.go - The pure per-employee recompute function

PURPOSE:
  One function, no side effects: given an employee's full event history, the
  badge definitions, the configuration, and the run time, produce the
  complete rebuilt state (ledger, badge awards, summary, statistics). The
  orchestrator owns all deletion and insertion; nothing here touches a
  database.

DETERMINISM:
  Recompute(input) is a function of its input alone. Run time is an explicit
  input rather than a call to time.Now, which is what makes the idempotence
  property testable: same events + same run time = byte-identical output.

PIPELINE:
  attendance → streak tracker + ledger builder
  overtime   → ledger builder
  stats      → badge evaluator → extra ledger entries + awards
  ledger     → summary resolver

SEE ALSO:
  - orchestrator.go: Wraps this in the per-employee transaction
*/
package gamification

import "time"

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// RecomputeInput is everything the pure engine needs for one employee.
// Attendance must be ordered ascending by work date; overtime ascending by
// completion time.
type RecomputeInput struct {
	EmployeeID EmployeeID
	Attendance []AttendanceEvent
	Overtime   []OvertimeEvent
	Badges     []BadgeDefinition
	Config     Config
	Now        time.Time
}

// Result is the fully rebuilt derived state for one employee.
type Result struct {
	Transactions []PointTransaction
	Badges       []EmployeeBadge
	Summary      Summary
	Stats        Stats
}

// =============================================================================
// RECOMPUTE
// =============================================================================

// Recompute rebuilds one employee's ledger, badge awards, and summary from
// source events. Pure: no I/O, no clock reads, no mutation of the input.
func Recompute(in RecomputeInput) Result {
	tracker := NewStreakTracker(in.Config)
	builder := NewLedgerBuilder(in.EmployeeID, in.Config)

	for _, ev := range in.Attendance {
		tracker.Observe(ev)
		builder.AddAttendance(ev)
	}
	for _, ev := range in.Overtime {
		builder.AddOvertime(ev)
	}

	stats := builder.Stats()
	stats.LongestStreak = tracker.Longest()

	outcome := EvaluateBadges(in.EmployeeID, in.Badges, stats, in.Now)
	ledger := append(builder.Transactions(), outcome.Transactions...)

	return Result{
		Transactions: ledger,
		Badges:       outcome.Awards,
		Summary:      Summarize(in.EmployeeID, ledger, tracker, in.Now),
		Stats:        stats,
	}
}
