/*
level.go - Level table and summary resolution

PURPOSE:
  Resolves a discrete level from the raw total by scanning a fixed ascending
  tier table, and assembles the per-employee summary row: total points
  (floored at zero for persistence only), monthly points bucketed against
  the run's calendar month, and the streak fields.

LEVEL TABLE:
  Rookie(0) → Regular(100) → Reliable(300) → Star(600) → Super Star(1000)
  → MVP(1500) → Legend(2500). Highest tier whose minimum does not exceed the
  total wins; thresholds are strictly increasing so ties are impossible.

SEE ALSO:
  - types.go: Summary invariants
  - recompute.go: Calls Summarize at the end of the pass
*/
package gamification

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEVEL TABLE
// =============================================================================

type LevelTier struct {
	Level     int
	Name      string
	MinPoints decimal.Decimal
}

// levelTable is ordered ascending by MinPoints.
var levelTable = []LevelTier{
	{Level: 1, Name: "Rookie", MinPoints: decimal.NewFromInt(0)},
	{Level: 2, Name: "Regular", MinPoints: decimal.NewFromInt(100)},
	{Level: 3, Name: "Reliable", MinPoints: decimal.NewFromInt(300)},
	{Level: 4, Name: "Star", MinPoints: decimal.NewFromInt(600)},
	{Level: 5, Name: "Super Star", MinPoints: decimal.NewFromInt(1000)},
	{Level: 6, Name: "MVP", MinPoints: decimal.NewFromInt(1500)},
	{Level: 7, Name: "Legend", MinPoints: decimal.NewFromInt(2500)},
}

// LevelTable returns a copy of the tier table for display layers.
func LevelTable() []LevelTier {
	out := make([]LevelTier, len(levelTable))
	copy(out, levelTable)
	return out
}

// ResolveLevel scans the table descending and returns the highest tier whose
// minimum does not exceed total. Negative totals resolve to the first tier.
func ResolveLevel(total decimal.Decimal) LevelTier {
	for i := len(levelTable) - 1; i > 0; i-- {
		if total.GreaterThanOrEqual(levelTable[i].MinPoints) {
			return levelTable[i]
		}
	}
	return levelTable[0]
}

// =============================================================================
// SUMMARY RESOLUTION
// =============================================================================

// Summarize derives the summary row from the finished ledger and streak
// state. MonthlyPoints sums transactions timestamped within now's calendar
// month; it is a freshness snapshot tied to the run time, not a historical
// per-month figure. The total is floored at zero here and nowhere else.
func Summarize(employeeID EmployeeID, ledger []PointTransaction, tracker *StreakTracker, now time.Time) Summary {
	total := decimal.Zero
	monthly := decimal.Zero
	now = now.UTC()

	for _, tx := range ledger {
		total = total.Add(tx.Points)
		if tx.EffectiveAt.Year() == now.Year() && tx.EffectiveAt.Month() == now.Month() {
			monthly = monthly.Add(tx.Points)
		}
	}

	tier := ResolveLevel(total)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Summary{
		EmployeeID:     employeeID,
		TotalPoints:    total,
		MonthlyPoints:  monthly,
		CurrentMonth:   now.Format("2006-01"),
		Level:          tier.Level,
		LevelName:      tier.Name,
		CurrentStreak:  tracker.Current(),
		LongestStreak:  tracker.Longest(),
		LastStreakDate: tracker.LastStreakDate(),
	}
}
