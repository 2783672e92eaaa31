package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/points-engine/gamification"
	"github.com/warp/points-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saveTestEmployee(t *testing.T, store *sqlite.Store, id gamification.EmployeeID, status gamification.AccountStatus) {
	err := store.SaveEmployee(context.Background(), gamification.Employee{
		ID:            id,
		Name:          string(id),
		AccountStatus: status,
	})
	require.NoError(t, err)
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

func TestSQLite_EligibleEmployees_FiltersInSQL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saveTestEmployee(t, store, "emp-ok", gamification.AccountApproved)
	saveTestEmployee(t, store, "emp-pending", gamification.AccountPending)

	deleted := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveEmployee(ctx, gamification.Employee{
		ID: "emp-gone", Name: "Gone", AccountStatus: gamification.AccountApproved, DeletedAt: &deleted,
	}))
	require.NoError(t, store.SaveEmployee(ctx, gamification.Employee{
		ID: "emp-bot", Name: "Bot", AccountStatus: gamification.AccountApproved, IsSystemAccount: true,
	}))

	employees, err := store.EligibleEmployees(ctx)
	require.NoError(t, err)

	require.Len(t, employees, 1)
	assert.Equal(t, gamification.EmployeeID("emp-ok"), employees[0].ID)
}

// =============================================================================
// EVENT ROUND TRIPS
// =============================================================================

func TestSQLite_AttendanceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clockIn := time.Date(2025, time.January, 6, 1, 30, 0, 0, time.UTC)
	clockOut := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveAttendance(ctx, gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		ClockIn:    &clockIn,
		ClockOut:   &clockOut,
	}))
	require.NoError(t, store.SaveAttendance(ctx, gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 3),
		Late:       true,
	}))

	events, err := store.AttendanceEvents(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Ascending by work date regardless of insertion order
	assert.Equal(t, gamification.Date(2025, time.January, 3), events[0].WorkDate)
	assert.True(t, events[0].Late)
	assert.Nil(t, events[0].ClockIn)

	assert.Equal(t, gamification.Date(2025, time.January, 6), events[1].WorkDate)
	require.NotNil(t, events[1].ClockIn)
	assert.True(t, events[1].ClockIn.Equal(clockIn))
	require.NotNil(t, events[1].ClockOut)
	assert.True(t, events[1].ClockOut.Equal(clockOut))
}

func TestSQLite_AttendanceUpsert_OneRowPerDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ev := gamification.AttendanceEvent{
		EmployeeID: "emp-1",
		WorkDate:   gamification.Date(2025, time.January, 6),
		Late:       true,
	}
	require.NoError(t, store.SaveAttendance(ctx, ev))
	ev.Late = false
	require.NoError(t, store.SaveAttendance(ctx, ev))

	events, err := store.AttendanceEvents(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Late, "second write wins")
}

func TestSQLite_OvertimeEvents_CompletedOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done := time.Date(2025, time.January, 6, 14, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveOvertime(ctx, gamification.OvertimeEvent{
		ID: "ot-1", EmployeeID: "emp-1", CompletedAt: done,
	}, "completed"))
	require.NoError(t, store.SaveOvertime(ctx, gamification.OvertimeEvent{
		ID: "ot-2", EmployeeID: "emp-1", CompletedAt: done,
	}, "pending"))

	events, err := store.OvertimeEvents(ctx, "emp-1")
	require.NoError(t, err)

	require.Len(t, events, 1, "non-terminal sessions never reach the engine")
	assert.Equal(t, "ot-1", events[0].ID)
	assert.True(t, events[0].CompletedAt.Equal(done))
}

// =============================================================================
// REPLACE SEMANTICS
// =============================================================================

func sampleResult(employeeID gamification.EmployeeID, total int64) gamification.Result {
	runAt := time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
	return gamification.Result{
		Transactions: []gamification.PointTransaction{
			{
				ID:          gamification.NewTransactionID(employeeID, gamification.ActionOnTimeCheckIn, "2025-01-06"),
				EmployeeID:  employeeID,
				Action:      gamification.ActionOnTimeCheckIn,
				Points:      decimal.NewFromInt(total),
				Description: "On-time check-in on 2025-01-06",
				ReferenceID: "2025-01-06",
				EffectiveAt: gamification.Date(2025, time.January, 6),
			},
		},
		Badges: []gamification.EmployeeBadge{
			{EmployeeID: employeeID, BadgeID: "first-steps", EarnedAt: runAt},
		},
		Summary: gamification.Summary{
			EmployeeID:    employeeID,
			TotalPoints:   decimal.NewFromInt(total),
			MonthlyPoints: decimal.NewFromInt(total),
			CurrentMonth:  "2025-01",
			Level:         1,
			LevelName:     "Rookie",
		},
	}
}

func TestSQLite_ReplaceEmployeeResults_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := sampleResult("emp-1", 10)
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", result))

	txs, err := store.TransactionsFor(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, result.Transactions[0].ID, txs[0].ID)
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "On-time check-in on 2025-01-06", txs[0].Description)
	assert.True(t, txs[0].EffectiveAt.Equal(gamification.Date(2025, time.January, 6)))

	badges, err := store.BadgesFor(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, gamification.BadgeID("first-steps"), badges[0].BadgeID)

	sum, err := store.SummaryFor(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.True(t, sum.TotalPoints.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "2025-01", sum.CurrentMonth)
}

func TestSQLite_ReplaceEmployeeResults_ReplacesNotAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", sampleResult("emp-1", 10)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", sampleResult("emp-1", 20)))

	txs, err := store.TransactionsFor(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, txs, 1, "second recompute must replace the first set")
	assert.True(t, txs[0].Points.Equal(decimal.NewFromInt(20)))

	sum, err := store.SummaryFor(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.True(t, sum.TotalPoints.Equal(decimal.NewFromInt(20)))
}

func TestSQLite_ReplaceEmployeeResults_EmptyResultClears(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", sampleResult("emp-1", 10)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", gamification.Result{
		Summary: gamification.Summary{
			EmployeeID:    "emp-1",
			TotalPoints:   decimal.Zero,
			MonthlyPoints: decimal.Zero,
			CurrentMonth:  "2025-01",
			Level:         1,
			LevelName:     "Rookie",
		},
	}))

	txs, err := store.TransactionsFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, txs)

	badges, err := store.BadgesFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestSQLite_ReplaceEmployeeResults_OtherEmployeesUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", sampleResult("emp-1", 10)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-2", sampleResult("emp-2", 20)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-1", sampleResult("emp-1", 30)))

	sum2, err := store.SummaryFor(ctx, "emp-2")
	require.NoError(t, err)
	require.NotNil(t, sum2)
	assert.True(t, sum2.TotalPoints.Equal(decimal.NewFromInt(20)))
}

func TestSQLite_SummaryFor_Unknown_Nil(t *testing.T) {
	store := newTestStore(t)

	sum, err := store.SummaryFor(context.Background(), "emp-missing")
	require.NoError(t, err)
	assert.Nil(t, sum)
}

// =============================================================================
// LEADERBOARD
// =============================================================================

func TestSQLite_Leaderboard_OrderedByTotalDescending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-low", sampleResult("emp-low", 10)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-high", sampleResult("emp-high", 500)))
	require.NoError(t, store.ReplaceEmployeeResults(ctx, "emp-mid", sampleResult("emp-mid", 120)))

	top, err := store.Leaderboard(ctx, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, gamification.EmployeeID("emp-high"), top[0].EmployeeID)
	assert.Equal(t, gamification.EmployeeID("emp-mid"), top[1].EmployeeID)
}

// =============================================================================
// SETTINGS, BADGE DEFINITIONS, SEEDS
// =============================================================================

func TestSQLite_Settings_UpsertAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetSetting(ctx, "points_on_time", "10"))
	require.NoError(t, store.SetSetting(ctx, "points_on_time", "12"))

	settings, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12", settings["points_on_time"])
}

func TestSQLite_BadgeDefinitionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	def := gamification.BadgeDefinition{
		ID:           "b-test",
		Name:         "Test Badge",
		Condition:    gamification.ConditionLongestStreak,
		Threshold:    5,
		PointsReward: decimal.NewFromInt(25),
		Tier:         "silver",
		Active:       true,
	}
	require.NoError(t, store.SaveBadgeDefinition(ctx, def))

	defs, err := store.BadgeDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, def.ID, defs[0].ID)
	assert.Equal(t, def.Condition, defs[0].Condition)
	assert.Equal(t, def.Threshold, defs[0].Threshold)
	assert.True(t, defs[0].PointsReward.Equal(decimal.NewFromInt(25)))
	assert.True(t, defs[0].Active)
}

func TestSQLite_SeedDefaults_IdempotentAndNonDestructive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaults(ctx))
	require.NoError(t, store.SetSetting(ctx, "points_on_time", "99"))
	require.NoError(t, store.SeedDefaults(ctx))

	settings, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "99", settings["points_on_time"], "re-seeding must not clobber admin values")

	defs, err := store.BadgeDefinitions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, defs)

	again, err := store.BadgeDefinitions(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(defs), "re-seeding must not duplicate badges")
}

// =============================================================================
// RUN AUDIT
// =============================================================================

func TestSQLite_RunRecords_UpsertAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, sqlite.RunRecord{
		ID: "run-1", Status: "running", StartedAt: started,
	}))

	finished := started.Add(2 * time.Second)
	require.NoError(t, store.SaveRun(ctx, sqlite.RunRecord{
		ID: "run-1", Status: "completed", Processed: 5, Total: 5,
		StartedAt: started, FinishedAt: &finished,
	}))
	require.NoError(t, store.SaveRun(ctx, sqlite.RunRecord{
		ID: "run-2", Status: "failed", Error: "roster query failed",
		StartedAt: started.Add(time.Hour),
	}))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "roster query failed", runs[0].Error)

	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, "completed", runs[1].Status)
	assert.Equal(t, 5, runs[1].Processed)
	require.NotNil(t, runs[1].FinishedAt)
	assert.True(t, runs[1].FinishedAt.Equal(finished))
}

// =============================================================================
// END-TO-END THROUGH THE ORCHESTRATOR
// =============================================================================

func TestSQLite_OrchestratorRun_EndToEnd(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDefaults(ctx))
	saveTestEmployee(t, store, "emp-1", gamification.AccountApproved)
	for _, day := range []int{6, 7, 8, 9, 10} {
		clockOut := time.Date(2025, time.January, day, 10, 0, 0, 0, time.UTC)
		require.NoError(t, store.SaveAttendance(ctx, gamification.AttendanceEvent{
			EmployeeID: "emp-1",
			WorkDate:   gamification.Date(2025, time.January, day),
			ClockOut:   &clockOut,
		}))
	}

	o := gamification.NewOrchestrator(store)
	o.Now = func() time.Time {
		return time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
	}

	report, err := o.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	sum, err := store.SummaryFor(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, sum)

	// 5*(10+5) attendance + 10 first-steps + 20 punctual-week badge rewards
	assert.True(t, sum.TotalPoints.Equal(decimal.NewFromInt(105)), "got %s", sum.TotalPoints)
	assert.Equal(t, 5, sum.LongestStreak)

	badges, err := store.BadgesFor(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, badges, 2)
}
