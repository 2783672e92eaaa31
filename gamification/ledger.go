/*
ledger.go - Event-to-transaction rules

PURPOSE:
  The LedgerBuilder transforms each attendance and overtime event into zero
  or more signed point transactions using the configured point values, and
  accumulates the statistics the badge evaluator needs.

PER ATTENDANCE EVENT, IN ORDER:
  1. Late:                       one late_penalty (negative)
  2. On time:                    one on_time_checkin; on-time count++
  3. On time + early clock-in:   one early_checkin; early count++
  4. Clock-out present:          one full_attendance_day (lateness irrelevant)

PER COMPLETED OVERTIME EVENT:
  One ot_completed; OT count++.

TIMESTAMPS:
  Every transaction carries the originating event's date or completion
  instant, never the recompute run time. Month bucketing of historical
  points must reflect when the event occurred.

SEE ALSO:
  - config.go: Point values and early-arrival threshold
  - badges.go: Consumes the accumulated Stats
*/
package gamification

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER BUILDER
// =============================================================================

// LedgerBuilder accumulates transactions and statistics for one employee.
// Not safe for concurrent use; build one per employee recompute.
type LedgerBuilder struct {
	cfg        Config
	employeeID EmployeeID

	transactions []PointTransaction
	stats        Stats
}

func NewLedgerBuilder(employeeID EmployeeID, cfg Config) *LedgerBuilder {
	return &LedgerBuilder{cfg: cfg, employeeID: employeeID}
}

// AddAttendance applies the point rules to one attendance event.
func (b *LedgerBuilder) AddAttendance(ev AttendanceEvent) {
	day := ev.WorkDate.Format("2006-01-02")
	b.stats.AttendanceCount++

	if ev.Late {
		b.emit(ActionLatePenalty, b.cfg.LatePenalty,
			fmt.Sprintf("Late arrival on %s", day), day, ev)
	} else {
		b.stats.OnTimeCount++
		b.emit(ActionOnTimeCheckIn, b.cfg.OnTimePoints,
			fmt.Sprintf("On-time check-in on %s", day), day, ev)

		if ev.ClockIn != nil && b.cfg.IsEarlyArrival(*ev.ClockIn) {
			b.stats.EarlyCount++
			b.emit(ActionEarlyCheckIn, b.cfg.EarlyPoints,
				fmt.Sprintf("Early arrival on %s", day), day, ev)
		}
	}

	if ev.ClockOut != nil {
		b.emit(ActionFullDay, b.cfg.FullDayPoints,
			fmt.Sprintf("Full attendance day on %s", day), day, ev)
	}
}

// AddOvertime applies the point rule to one completed overtime event.
func (b *LedgerBuilder) AddOvertime(ev OvertimeEvent) {
	b.stats.OvertimeCount++
	b.transactions = append(b.transactions, PointTransaction{
		ID:          NewTransactionID(b.employeeID, ActionOvertime, ev.ID),
		EmployeeID:  b.employeeID,
		Action:      ActionOvertime,
		Points:      b.cfg.OvertimePoints,
		Description: fmt.Sprintf("Overtime completed (%s)", ev.ID),
		ReferenceID: ev.ID,
		EffectiveAt: ev.CompletedAt.UTC(),
	})
}

func (b *LedgerBuilder) emit(action ActionType, points decimal.Decimal, description, reference string, ev AttendanceEvent) {
	b.transactions = append(b.transactions, PointTransaction{
		ID:          NewTransactionID(b.employeeID, action, reference),
		EmployeeID:  b.employeeID,
		Action:      action,
		Points:      points,
		Description: description,
		ReferenceID: reference,
		EffectiveAt: ev.WorkDate.UTC(),
	})
}

// Transactions returns the accumulated ledger entries in emission order.
func (b *LedgerBuilder) Transactions() []PointTransaction { return b.transactions }

// Stats returns the counters accumulated so far. The longest streak is
// filled in by the recompute pass, which owns the streak tracker.
func (b *LedgerBuilder) Stats() Stats { return b.stats }
