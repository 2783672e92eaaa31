/*
Package gamification provides the points and progression engine.

PURPOSE:
  This package contains the pure computation core that turns raw workplace
  events (attendance clock-ins/outs, completed overtime) into a ledger of
  point transactions, and derives streaks, point balances, levels, and
  one-time badge awards from that ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - AttendanceEvent/OvertimeEvent: Read-only source events
  - PointTransaction: An immutable ledger entry with a signed point delta
  - BadgeDefinition/EmployeeBadge: Configurable awards and their grants
  - Summary: The per-employee derived row (totals, level, streak)

DESIGN PRINCIPLES:
  1. Rebuildability: Derived state is never patched, it is recomputed in
     full from source events. See recompute.go.
  2. Determinism: Given the same events, config, and run time, the engine
     produces byte-identical output. Transaction IDs are derived, not random.
  3. Precision: Uses decimal.Decimal for point amounts to avoid
     floating-point errors.
  4. Type Safety: Strong typing for IDs prevents mixing employee/badge IDs.

USAGE:
  result := gamification.Recompute(gamification.RecomputeInput{
      EmployeeID: "emp-1",
      Attendance: events,
      Badges:     badges,
      Config:     gamification.DefaultConfig(),
      Now:        time.Now().UTC(),
  })

SEE ALSO:
  - config.go: Point values, working days, work-start threshold
  - streak.go: Working-day streak calculation
  - ledger.go: Event-to-transaction rules
  - badges.go: Badge condition evaluation
  - level.go: Level table and summary resolution
  - orchestrator.go: Batch recompute over all employees
*/
package gamification

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type BadgeID string
type TransactionID string

// txNamespace seeds deterministic (v5) transaction IDs so that a recompute
// with unchanged source events reproduces the exact same rows.
var txNamespace = uuid.MustParse("9a1c8e7e-4f2d-4b7a-9c3e-1d5f0a6b2c84")

// NewTransactionID derives a stable transaction ID from the employee, the
// action, and the originating event reference.
func NewTransactionID(employeeID EmployeeID, action ActionType, reference string) TransactionID {
	key := string(employeeID) + "|" + string(action) + "|" + reference
	return TransactionID(uuid.NewSHA1(txNamespace, []byte(key)).String())
}

// =============================================================================
// EMPLOYEE - Roster entry (owned by the employee directory, read-only here)
// =============================================================================

type AccountStatus string

const (
	AccountApproved AccountStatus = "approved"
	AccountPending  AccountStatus = "pending"
	AccountRejected AccountStatus = "rejected"
)

type Employee struct {
	ID              EmployeeID
	Name            string
	AccountStatus   AccountStatus
	IsSystemAccount bool
	DeletedAt       *time.Time
}

// Eligible reports whether this employee participates in recomputation.
func (e Employee) Eligible() bool {
	return e.AccountStatus == AccountApproved && e.DeletedAt == nil && !e.IsSystemAccount
}

// =============================================================================
// SOURCE EVENTS - Read-only inputs from the system of record
// =============================================================================

// AttendanceEvent is one attendance record per employee per work date,
// ordered ascending by work date. Clock timestamps are stored instants; the
// engine converts them to local wall-clock time via Config.Local before
// comparing against the work-start threshold.
type AttendanceEvent struct {
	EmployeeID EmployeeID
	WorkDate   time.Time // date component only, normalized to midnight UTC
	ClockIn    *time.Time
	ClockOut   *time.Time
	Late       bool
}

// OvertimeEvent is one completed overtime session. Only events in the
// terminal completed state reach the engine.
type OvertimeEvent struct {
	ID          string
	EmployeeID  EmployeeID
	CompletedAt time.Time
}

// =============================================================================
// POINT TRANSACTION - The ledger's atomic unit
// =============================================================================

type ActionType string

const (
	ActionOnTimeCheckIn ActionType = "on_time_checkin"
	ActionLatePenalty   ActionType = "late_penalty"
	ActionEarlyCheckIn  ActionType = "early_checkin"
	ActionFullDay       ActionType = "full_attendance_day"
	ActionOvertime      ActionType = "ot_completed"
	ActionBadgeEarned   ActionType = "badge_earned"
)

// PointTransaction is a signed ledger entry. The full set for an employee is
// deleted and regenerated on every recompute; entries are never edited in
// place. EffectiveAt carries the originating event's timestamp, not the run
// time, so historical month bucketing reflects when the event occurred.
type PointTransaction struct {
	ID          TransactionID
	EmployeeID  EmployeeID
	Action      ActionType
	Points      decimal.Decimal
	Description string
	ReferenceID string // originating event reference (work date or OT id)
	EffectiveAt time.Time
}

// =============================================================================
// BADGES
// =============================================================================

// ConditionType selects which statistic a badge threshold is measured
// against. Some condition types are accepted in definitions but are not
// populated by the ledger builder; their statistic stays at zero and the
// badge can never trigger. That matches the upstream system's behavior and
// is deliberately not "fixed" here.
type ConditionType string

const (
	ConditionAttendanceCount ConditionType = "attendance_count"
	ConditionOnTimeCount     ConditionType = "on_time_count"
	ConditionLongestStreak   ConditionType = "longest_streak"
	ConditionEarlyCount      ConditionType = "early_count"
	ConditionOvertimeCount   ConditionType = "ot_count"

	// Defined upstream but never populated from available event data.
	ConditionOnTimeInMonth  ConditionType = "on_time_in_month"
	ConditionNoLeaveInMonth ConditionType = "no_leave_in_month"
)

type BadgeDefinition struct {
	ID           BadgeID
	Name         string
	Condition    ConditionType
	Threshold    int
	PointsReward decimal.Decimal
	Tier         string
	Active       bool
}

// EmployeeBadge records a single badge award. At most one per
// (employee, badge) pair per recompute; a re-run replaces prior awards.
type EmployeeBadge struct {
	EmployeeID EmployeeID
	BadgeID    BadgeID
	EarnedAt   time.Time // stamped with the recompute run time
}

// =============================================================================
// SUMMARY - Derived per-employee cache, fully replaced each recompute
// =============================================================================

// Summary is the one-row-per-employee derived cache.
//
// INVARIANT: TotalPoints >= 0 even when the raw ledger sum is negative.
// The floor is applied here and only here; individual transactions keep
// their signed values.
//
// MonthlyPoints is bucketed against the recompute run's calendar month, not
// each transaction's own month, so the figure is a freshness snapshot that
// goes stale between runs. Documented upstream behavior, preserved as is.
type Summary struct {
	EmployeeID     EmployeeID
	TotalPoints    decimal.Decimal
	MonthlyPoints  decimal.Decimal
	CurrentMonth   string // "2006-01"
	Level          int
	LevelName      string
	CurrentStreak  int
	LongestStreak  int
	LastStreakDate *time.Time
}

// =============================================================================
// STATISTICS - Intermediate counters shared with the badge evaluator
// =============================================================================

// Stats carries the counters accumulated while building the ledger, keyed
// for badge condition lookup via Lookup.
type Stats struct {
	AttendanceCount int
	OnTimeCount     int
	EarlyCount      int
	OvertimeCount   int
	LongestStreak   int
}

// Lookup returns the statistic for a condition type. Condition types not
// computable from available event data resolve to zero and never trigger.
func (s Stats) Lookup(c ConditionType) int {
	switch c {
	case ConditionAttendanceCount:
		return s.AttendanceCount
	case ConditionOnTimeCount:
		return s.OnTimeCount
	case ConditionLongestStreak:
		return s.LongestStreak
	case ConditionEarlyCount:
		return s.EarlyCount
	case ConditionOvertimeCount:
		return s.OvertimeCount
	default:
		return 0
	}
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// Date normalizes to midnight UTC; work dates are compared at day
// granularity throughout the engine.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
