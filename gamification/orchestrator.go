/*
orchestrator.go - Batch recompute over all eligible employees

PURPOSE:
  Iterates the eligible roster and rebuilds each employee's derived state
  inside one atomic store transaction per employee. A single employee's
  failure is logged and contained; it never aborts the batch. Only the
  inability to load configuration, badge definitions, or the roster itself
  is fatal, because then no per-employee work is possible.

LOGGING:
  One line per employee on success (points, level, streak, badges,
  attendance/OT counts), one line per contained failure, and a final
  processed/total line. Operators consult this log; there is no real-time
  failure surface for a batch job.

SEE ALSO:
  - recompute.go: The pure per-employee calculation
  - store.go: The transactional persistence boundary
*/
package gamification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN REPORT
// =============================================================================

// RunReport summarizes one batch run for the audit trail and the caller.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Processed  int
	Failed     int
	Errors     []*EmployeeRecomputeError
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs the full-history recompute batch. Concurrent Run calls
// against the same store must be serialized by the caller; the engine does
// not provide cross-process mutual exclusion.
type Orchestrator struct {
	Store Store

	// Now is the clock used to stamp the run. Defaults to time.Now;
	// injectable so tests can pin the run time.
	Now func() time.Time
}

func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{Store: store, Now: time.Now}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// Run recomputes every eligible employee. Per-employee failures are
// collected in the report; only roster/configuration failures return an
// error, wrapped so callers can errors.Is against ErrRosterUnavailable.
func (o *Orchestrator) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
	}

	settings, err := o.Store.Settings(ctx)
	if err != nil {
		return report, fmt.Errorf("loading settings: %w", err)
	}
	cfg := ConfigFromSettings(settings)

	badges, err := o.Store.BadgeDefinitions(ctx)
	if err != nil {
		return report, fmt.Errorf("loading badge definitions: %w", err)
	}

	employees, err := o.Store.EligibleEmployees(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	report.Total = len(employees)

	runAt := report.StartedAt
	for _, emp := range employees {
		if _, rerr := o.recomputeOne(ctx, emp.ID, badges, cfg, runAt); rerr != nil {
			report.Failed++
			report.Errors = append(report.Errors, rerr)
			log.Printf("[Recompute] %s FAILED: %v", emp.ID, rerr)
			continue
		}
		report.Processed++
	}

	report.FinishedAt = o.now()
	log.Printf("[Recompute] run %s completed: %d/%d processed, %d failed",
		report.RunID, report.Processed, report.Total, report.Failed)
	return report, nil
}

// RunEmployee recomputes a single employee on demand. The employee must be
// on the eligible roster.
func (o *Orchestrator) RunEmployee(ctx context.Context, employeeID EmployeeID) (Result, error) {
	settings, err := o.Store.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading settings: %w", err)
	}
	cfg := ConfigFromSettings(settings)

	badges, err := o.Store.BadgeDefinitions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("loading badge definitions: %w", err)
	}

	employees, err := o.Store.EligibleEmployees(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	found := false
	for _, emp := range employees {
		if emp.ID == employeeID {
			found = true
			break
		}
	}
	if !found {
		return Result{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}

	result, rerr := o.recomputeOne(ctx, employeeID, badges, cfg, o.now())
	if rerr != nil {
		return Result{}, rerr
	}
	return result, nil
}

// recomputeOne loads, computes, and persists one employee. Every failure is
// wrapped as a contained EmployeeRecomputeError with its stage.
func (o *Orchestrator) recomputeOne(ctx context.Context, employeeID EmployeeID, badges []BadgeDefinition, cfg Config, runAt time.Time) (Result, *EmployeeRecomputeError) {
	result, err := o.compute(ctx, employeeID, badges, cfg, runAt)
	if err != nil {
		return Result{}, &EmployeeRecomputeError{EmployeeID: employeeID, Stage: "load", Err: err}
	}

	if err := o.Store.ReplaceEmployeeResults(ctx, employeeID, result); err != nil {
		return Result{}, &EmployeeRecomputeError{EmployeeID: employeeID, Stage: "persist", Err: err}
	}

	s := result.Summary
	log.Printf("[Recompute] %s: total=%s level=%d(%s) streak=%d/%d badges=%d attendance=%d ot=%d",
		employeeID, s.TotalPoints.String(), s.Level, s.LevelName,
		s.CurrentStreak, s.LongestStreak, len(result.Badges),
		result.Stats.AttendanceCount, result.Stats.OvertimeCount)
	return result, nil
}

func (o *Orchestrator) compute(ctx context.Context, employeeID EmployeeID, badges []BadgeDefinition, cfg Config, runAt time.Time) (Result, error) {
	attendance, err := o.Store.AttendanceEvents(ctx, employeeID)
	if err != nil {
		return Result{}, fmt.Errorf("loading attendance: %w", err)
	}
	overtime, err := o.Store.OvertimeEvents(ctx, employeeID)
	if err != nil {
		return Result{}, fmt.Errorf("loading overtime: %w", err)
	}

	return Recompute(RecomputeInput{
		EmployeeID: employeeID,
		Attendance: attendance,
		Overtime:   overtime,
		Badges:     badges,
		Config:     cfg,
		Now:        runAt,
	}), nil
}
