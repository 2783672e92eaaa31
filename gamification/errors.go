/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place. The taxonomy mirrors how failures
  propagate: configuration problems never fail a run (they fall back to
  defaults in config.go), per-employee problems are contained by the
  orchestrator, and roster/store-level problems abort the whole run.

USAGE:
  Callers distinguish fatal from contained failures:

    if errors.Is(err, gamification.ErrRosterUnavailable) {
        // no per-employee work was possible; alert the scheduler
    }

SEE ALSO:
  - orchestrator.go: Applies the containment policy
*/
package gamification

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRosterUnavailable is returned when the employee roster cannot be
	// loaded. No per-employee work is possible, so the run aborts.
	ErrRosterUnavailable = errors.New("employee roster unavailable")

	// ErrEmployeeNotFound is returned when a targeted recompute references
	// an unknown or ineligible employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRecomputeFailed is the sentinel wrapped by EmployeeRecomputeError.
	ErrRecomputeFailed = errors.New("recompute failed")

	// ErrRunInProgress is returned when a batch run is requested while
	// another is still executing in the same process.
	ErrRunInProgress = errors.New("recompute run already in progress")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EmployeeRecomputeError records a contained per-employee failure. The batch
// continues past it; the run report collects these.
type EmployeeRecomputeError struct {
	EmployeeID EmployeeID
	Stage      string // "load", "compute", "persist"
	Err        error
}

func (e *EmployeeRecomputeError) Error() string {
	return fmt.Sprintf("recompute failed for %s during %s: %v", e.EmployeeID, e.Stage, e.Err)
}

func (e *EmployeeRecomputeError) Unwrap() error { return ErrRecomputeFailed }
