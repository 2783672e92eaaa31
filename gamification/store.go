/*
store.go - Persistence interfaces between the engine and the database

PURPOSE:
  Defines the boundary the orchestrator works against. The engine itself is
  pure (recompute.go); everything side-effecting happens through these
  interfaces, so the calculation is unit-testable without a database.

KEY INTERFACES:
  EventSource:  Read-only inputs (roster, events, badge defs, settings)
  ResultStore:  Replace-style writes for one employee's derived rows
  Store:        Both, plus the per-employee transactional boundary

REPLACE SEMANTICS:
  The ledger, badge awards, and summary for an employee are never patched.
  ReplaceEmployeeResults deletes the prior rows and inserts the rebuilt set
  inside one transaction, so concurrent readers observe either the old state
  or the new state, never a mix.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for tests and dev mode

SEE ALSO:
  - orchestrator.go: The only consumer of ResultStore
*/
package gamification

import "context"

// =============================================================================
// EVENT SOURCE - Read-only inputs
// =============================================================================

// EventSource yields the engine's inputs from the system of record. All
// reads are snapshot-consistent enough for a batch job; the engine trusts
// upstream data and applies no business validation.
type EventSource interface {
	// EligibleEmployees returns the roster filtered to approved,
	// non-deleted, non-system accounts.
	EligibleEmployees(ctx context.Context) ([]Employee, error)

	// AttendanceEvents returns one event per work date, ascending.
	AttendanceEvents(ctx context.Context, employeeID EmployeeID) ([]AttendanceEvent, error)

	// OvertimeEvents returns completed overtime sessions only.
	OvertimeEvents(ctx context.Context, employeeID EmployeeID) ([]OvertimeEvent, error)

	// BadgeDefinitions returns all badge definitions, active or not.
	// The evaluator skips inactive ones.
	BadgeDefinitions(ctx context.Context) ([]BadgeDefinition, error)

	// Settings returns the raw key/value configuration pairs.
	Settings(ctx context.Context) (map[string]string, error)
}

// =============================================================================
// RESULT STORE - Exclusive write ownership of derived rows
// =============================================================================

// ResultStore persists one employee's rebuilt derived state.
type ResultStore interface {
	// ReplaceEmployeeResults atomically deletes the employee's existing
	// transactions, badge awards, and summary, then inserts the rebuilt
	// rows. On error nothing is changed.
	ReplaceEmployeeResults(ctx context.Context, employeeID EmployeeID, result Result) error
}

// =============================================================================
// STORE - Full engine persistence boundary
// =============================================================================

// Store is what the orchestrator requires.
type Store interface {
	EventSource
	ResultStore
}
