package gamification_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/points-engine/gamification"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func clock(year int, month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func newBuilder() *gamification.LedgerBuilder {
	return gamification.NewLedgerBuilder("emp-1", gamification.DefaultConfig())
}

// =============================================================================
// ATTENDANCE RULES
// =============================================================================

func TestLedger_OnTimeWithClockOut_TwoTransactions(t *testing.T) {
	// GIVEN: An on-time attendance day with a clock-out
	// THEN: on_time_checkin (+10) then full_attendance_day (+5), in that order

	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 1, 50), // 08:50 local (UTC+7)
		ClockOut:   clock(2025, time.January, 6, 10, 0),
	})

	txs := b.Transactions()
	require.Len(t, txs, 2)

	assert.Equal(t, gamification.ActionOnTimeCheckIn, txs[0].Action)
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, gamification.ActionFullDay, txs[1].Action)
	assert.True(t, txs[1].Points.Equal(decimal.NewFromInt(5)))

	// Transactions carry the event's date, not the run time
	assert.Equal(t, gamification.Date(2025, time.January, 6), txs[0].EffectiveAt)
	assert.Equal(t, "2025-01-06", txs[0].ReferenceID)
}

func TestLedger_LateArrival_NegativePenalty(t *testing.T) {
	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		Late:       true,
	})

	txs := b.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, gamification.ActionLatePenalty, txs[0].Action)
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(-5)), "penalty must stay signed in the ledger")
}

func TestLedger_LateWithClockOut_StillEarnsFullDay(t *testing.T) {
	// A full attendance day rewards presence, not punctuality.

	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 3, 0),
		ClockOut:   clock(2025, time.January, 6, 10, 0),
		Late:       true,
	})

	txs := b.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, gamification.ActionLatePenalty, txs[0].Action)
	assert.Equal(t, gamification.ActionFullDay, txs[1].Action)
}

func TestLedger_EarlyArrival_BonusAtThreshold(t *testing.T) {
	// GIVEN: Work starts 09:00 local (UTC+7), early threshold 30 minutes
	// WHEN: Clock-in at 01:30 UTC = 08:30 local, exactly 30 minutes early
	// THEN: early_checkin is emitted alongside on_time_checkin

	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 1, 30),
	})

	txs := b.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, gamification.ActionOnTimeCheckIn, txs[0].Action)
	assert.Equal(t, gamification.ActionEarlyCheckIn, txs[1].Action)
	assert.True(t, txs[1].Points.Equal(decimal.NewFromInt(5)))
}

func TestLedger_ArrivalJustUnderThreshold_NoBonus(t *testing.T) {
	// 01:31 UTC = 08:31 local, 29 minutes early: not enough

	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 1, 31),
	})

	txs := b.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, gamification.ActionOnTimeCheckIn, txs[0].Action)
}

func TestLedger_LateDay_NeverEarnsEarlyBonus(t *testing.T) {
	// The early bonus exists only on the on-time branch. An event flagged
	// late with an early-looking clock-in gets no bonus.

	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 1, 0),
		Late:       true,
	})

	txs := b.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, gamification.ActionLatePenalty, txs[0].Action)
}

func TestLedger_MissingClockOut_NoFullDay(t *testing.T) {
	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
	})

	for _, tx := range b.Transactions() {
		assert.NotEqual(t, gamification.ActionFullDay, tx.Action)
	}
}

// =============================================================================
// OVERTIME RULE
// =============================================================================

func TestLedger_CompletedOvertime_FifteenPoints(t *testing.T) {
	completedAt := time.Date(2025, time.January, 6, 14, 0, 0, 0, time.UTC)

	b := newBuilder()
	b.AddOvertime(gamification.OvertimeEvent{
		ID:          "ot-42",
		EmployeeID:  "emp-1",
		CompletedAt: completedAt,
	})

	txs := b.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, gamification.ActionOvertime, txs[0].Action)
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "ot-42", txs[0].ReferenceID)
	assert.Equal(t, completedAt, txs[0].EffectiveAt)
}

// =============================================================================
// DETERMINISM AND STATISTICS
// =============================================================================

func TestLedger_SameEvent_SameTransactionID(t *testing.T) {
	// Two independent builds of the same event must produce the same row ID;
	// this is what makes a full recompute reproduce identical ledgers.

	ev := gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
	}

	b1 := newBuilder()
	b1.AddAttendance(ev)
	b2 := newBuilder()
	b2.AddAttendance(ev)

	require.Len(t, b1.Transactions(), 1)
	require.Len(t, b2.Transactions(), 1)
	assert.Equal(t, b1.Transactions()[0].ID, b2.Transactions()[0].ID)
}

func TestLedger_DistinctEmployees_DistinctTransactionIDs(t *testing.T) {
	day := gamification.Date(2025, time.January, 6)

	b1 := gamification.NewLedgerBuilder("emp-1", gamification.DefaultConfig())
	b1.AddAttendance(gamification.AttendanceEvent{EmployeeID: "emp-1", WorkDate: day})
	b2 := gamification.NewLedgerBuilder("emp-2", gamification.DefaultConfig())
	b2.AddAttendance(gamification.AttendanceEvent{EmployeeID: "emp-2", WorkDate: day})

	assert.NotEqual(t, b1.Transactions()[0].ID, b2.Transactions()[0].ID)
}

func TestLedger_StatsAccumulate(t *testing.T) {
	b := newBuilder()
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    clock(2025, time.January, 6, 1, 0), // early
	})
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 7),
		Late:       true,
	})
	b.AddOvertime(gamification.OvertimeEvent{ID: "ot-1", EmployeeID: "emp-1"})

	stats := b.Stats()
	assert.Equal(t, 2, stats.AttendanceCount)
	assert.Equal(t, 1, stats.OnTimeCount)
	assert.Equal(t, 1, stats.EarlyCount)
	assert.Equal(t, 1, stats.OvertimeCount)
}

func TestLedger_CustomPointValues(t *testing.T) {
	cfg := gamification.ConfigFromSettings(map[string]string{
		"points_on_time":      "20",
		"points_late_penalty": "-10",
	})

	b := gamification.NewLedgerBuilder("emp-1", cfg)
	b.AddAttendance(gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
	})

	txs := b.Transactions()
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(20)))
}
