/*
badges.go - Badge condition evaluation

PURPOSE:
  Compares each active badge definition's threshold against the statistic
  selected by its condition type and awards the badge when the statistic
  meets or exceeds it. Awards are order-independent across badges: no
  badge's eligibility depends on another badge having been earned first.

RE-ENTRANCY:
  Evaluation itself is pure. Repeated recomputes do not double-award only
  because the orchestrator clears the employee's full badge set (and ledger)
  before inserting the rebuilt one.

SEE ALSO:
  - types.go: ConditionType enumeration and Stats.Lookup
  - recompute.go: Runs evaluation after the ledger pass
*/
package gamification

import (
	"fmt"
	"time"
)

// =============================================================================
// BADGE EVALUATOR
// =============================================================================

// BadgeOutcome is the result of evaluating all badge definitions for one
// employee: the awards plus the reward transactions they generate.
type BadgeOutcome struct {
	Awards       []EmployeeBadge
	Transactions []PointTransaction
}

// EvaluateBadges awards every active badge whose statistic meets its
// threshold. Awards are stamped with the recompute run time. A badge with a
// zero reward is still awarded but emits no ledger transaction.
func EvaluateBadges(employeeID EmployeeID, defs []BadgeDefinition, stats Stats, runAt time.Time) BadgeOutcome {
	var out BadgeOutcome

	for _, def := range defs {
		if !def.Active {
			continue
		}
		if stats.Lookup(def.Condition) < def.Threshold {
			continue
		}

		out.Awards = append(out.Awards, EmployeeBadge{
			EmployeeID: employeeID,
			BadgeID:    def.ID,
			EarnedAt:   runAt.UTC(),
		})

		if def.PointsReward.IsZero() {
			continue
		}
		out.Transactions = append(out.Transactions, PointTransaction{
			ID:          NewTransactionID(employeeID, ActionBadgeEarned, string(def.ID)),
			EmployeeID:  employeeID,
			Action:      ActionBadgeEarned,
			Points:      def.PointsReward,
			Description: fmt.Sprintf("Badge earned: %s", def.Name),
			ReferenceID: string(def.ID),
			EffectiveAt: runAt.UTC(),
		})
	}

	return out
}
