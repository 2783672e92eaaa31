/*
Package sqlite provides the SQLite-backed implementation of the engine's
storage interfaces.

PURPOSE:
  Implements gamification.EventSource and gamification.ResultStore using
  SQLite. In production the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  employees:          Roster (read-only for the engine)
  attendance_events:  One row per employee per work date
  overtime_events:    Overtime sessions; only status='completed' is read
  badge_definitions:  Configurable badge conditions and rewards
  settings:           Flat key/value engine configuration
  point_transactions: The rebuilt ledger (exclusive engine ownership)
  employee_badges:    Badge awards (exclusive engine ownership)
  employee_points:    One summary row per employee (exclusive ownership)
  recompute_runs:     Batch run audit trail

REPLACE SEMANTICS:
  ReplaceEmployeeResults deletes the employee's derived rows and inserts the
  rebuilt set inside one database transaction. A reader sees either the
  pre-recompute state or the fully rebuilt state, never a mix.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - gamification/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/points-engine/gamification"
)

// Store implements the engine's storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ gamification.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster (owned by the employee directory; read-only for the engine)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		account_status TEXT NOT NULL DEFAULT 'approved',
		is_system_account BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_eligibility
		ON employees(account_status, is_system_account) WHERE deleted_at IS NULL;

	-- Attendance capture output; one row per employee per work date
	CREATE TABLE IF NOT EXISTS attendance_events (
		employee_id TEXT NOT NULL,
		work_date TEXT NOT NULL,
		clock_in_time TEXT,
		clock_out_time TEXT,
		is_late BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (employee_id, work_date)
	);

	-- Overtime sessions; the engine reads terminal 'completed' rows only
	CREATE TABLE IF NOT EXISTS overtime_events (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_overtime_employee_status
		ON overtime_events(employee_id, status);

	-- Badge configuration
	CREATE TABLE IF NOT EXISTS badge_definitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		condition_type TEXT NOT NULL,
		condition_value INTEGER NOT NULL,
		points_reward TEXT NOT NULL DEFAULT '0',
		tier TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	-- Flat engine configuration
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Rebuilt ledger (exclusive engine write ownership)
	CREATE TABLE IF NOT EXISTS point_transactions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		points TEXT NOT NULL,
		description TEXT,
		reference_id TEXT,
		effective_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_point_transactions_employee
		ON point_transactions(employee_id, effective_at);

	-- Badge awards; at most one row per (employee, badge) per recompute
	CREATE TABLE IF NOT EXISTS employee_badges (
		employee_id TEXT NOT NULL,
		badge_id TEXT NOT NULL,
		earned_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, badge_id)
	);

	-- Summary cache; one row per employee, fully replaced each recompute
	CREATE TABLE IF NOT EXISTS employee_points (
		employee_id TEXT PRIMARY KEY,
		total_points TEXT NOT NULL,
		monthly_points TEXT NOT NULL,
		current_month TEXT NOT NULL,
		level INTEGER NOT NULL,
		level_name TEXT NOT NULL,
		current_streak INTEGER NOT NULL,
		longest_streak INTEGER NOT NULL,
		last_streak_date TEXT
	);

	-- Batch run audit trail
	CREATE TABLE IF NOT EXISTS recompute_runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_recompute_runs_started
		ON recompute_runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENT SOURCE (gamification.EventSource interface)
// =============================================================================

// EligibleEmployees returns the roster filtered to approved, non-deleted,
// non-system accounts.
func (s *Store) EligibleEmployees(ctx context.Context) ([]gamification.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, account_status, is_system_account, deleted_at
		FROM employees
		WHERE account_status = 'approved'
		  AND deleted_at IS NULL
		  AND is_system_account = FALSE
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []gamification.Employee
	for rows.Next() {
		var (
			e         gamification.Employee
			deletedAt sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.AccountStatus, &e.IsSystemAccount, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if deletedAt.Valid {
			t, _ := time.Parse(time.RFC3339, deletedAt.String)
			e.DeletedAt = &t
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// AttendanceEvents returns one event per work date, ascending.
func (s *Store) AttendanceEvents(ctx context.Context, employeeID gamification.EmployeeID) ([]gamification.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, work_date, clock_in_time, clock_out_time, is_late
		FROM attendance_events
		WHERE employee_id = ?
		ORDER BY work_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var events []gamification.AttendanceEvent
	for rows.Next() {
		var (
			ev                gamification.AttendanceEvent
			workDate          string
			clockIn, clockOut sql.NullString
		)
		if err := rows.Scan(&ev.EmployeeID, &workDate, &clockIn, &clockOut, &ev.Late); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		ev.WorkDate, err = time.Parse("2006-01-02", workDate)
		if err != nil {
			return nil, fmt.Errorf("malformed work_date %q for %s: %w", workDate, employeeID, err)
		}
		if clockIn.Valid {
			t, err := time.Parse(time.RFC3339, clockIn.String)
			if err != nil {
				return nil, fmt.Errorf("malformed clock_in_time for %s on %s: %w", employeeID, workDate, err)
			}
			ev.ClockIn = &t
		}
		if clockOut.Valid {
			t, err := time.Parse(time.RFC3339, clockOut.String)
			if err != nil {
				return nil, fmt.Errorf("malformed clock_out_time for %s on %s: %w", employeeID, workDate, err)
			}
			ev.ClockOut = &t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// OvertimeEvents returns completed overtime sessions, ascending by creation.
func (s *Store) OvertimeEvents(ctx context.Context, employeeID gamification.EmployeeID) ([]gamification.OvertimeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, created_at
		FROM overtime_events
		WHERE employee_id = ? AND status = 'completed'
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var events []gamification.OvertimeEvent
	for rows.Next() {
		var (
			ev        gamification.OvertimeEvent
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan overtime event: %w", err)
		}
		ev.CompletedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("malformed created_at for overtime %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// BadgeDefinitions returns all badge definitions, active or not.
func (s *Store) BadgeDefinitions(ctx context.Context) ([]gamification.BadgeDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, condition_type, condition_value, points_reward, tier, is_active
		FROM badge_definitions
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query badge definitions: %w", err)
	}
	defer rows.Close()

	var defs []gamification.BadgeDefinition
	for rows.Next() {
		var (
			def    gamification.BadgeDefinition
			reward string
			tier   sql.NullString
		)
		if err := rows.Scan(&def.ID, &def.Name, &def.Condition, &def.Threshold, &reward, &tier, &def.Active); err != nil {
			return nil, fmt.Errorf("failed to scan badge definition: %w", err)
		}
		def.PointsReward = mustDecimal(reward)
		def.Tier = tier.String
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Settings returns the raw key/value configuration pairs.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// =============================================================================
// RESULT STORE (gamification.ResultStore interface)
// =============================================================================

// ReplaceEmployeeResults rebuilds one employee's derived rows inside a
// single database transaction: delete everything, insert the new set,
// commit. On any error the transaction rolls back and nothing changes.
func (s *Store) ReplaceEmployeeResults(ctx context.Context, employeeID gamification.EmployeeID, result gamification.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	// Deletes are ordered before any insert; the transaction boundary keeps
	// readers from ever observing a partially rebuilt ledger.
	for _, del := range []string{
		"DELETE FROM point_transactions WHERE employee_id = ?",
		"DELETE FROM employee_badges WHERE employee_id = ?",
		"DELETE FROM employee_points WHERE employee_id = ?",
	} {
		if _, err := sqlTx.ExecContext(ctx, del, employeeID); err != nil {
			return fmt.Errorf("failed to clear derived rows: %w", err)
		}
	}

	for _, tx := range result.Transactions {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO point_transactions
			(id, employee_id, action_type, points, description, reference_id, effective_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.EmployeeID, tx.Action, tx.Points.String(),
			tx.Description, tx.ReferenceID, tx.EffectiveAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
		}
	}

	for _, badge := range result.Badges {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO employee_badges (employee_id, badge_id, earned_at)
			VALUES (?, ?, ?)`,
			badge.EmployeeID, badge.BadgeID, badge.EarnedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert badge %s: %w", badge.BadgeID, err)
		}
	}

	sum := result.Summary
	var lastStreak *string
	if sum.LastStreakDate != nil {
		d := sum.LastStreakDate.UTC().Format("2006-01-02")
		lastStreak = &d
	}
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO employee_points
		(employee_id, total_points, monthly_points, current_month, level, level_name,
		 current_streak, longest_streak, last_streak_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.EmployeeID, sum.TotalPoints.String(), sum.MonthlyPoints.String(),
		sum.CurrentMonth, sum.Level, sum.LevelName,
		sum.CurrentStreak, sum.LongestStreak, lastStreak,
	)
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}

	return sqlTx.Commit()
}

// =============================================================================
// SUMMARY / LEDGER READS (for the API layer)
// =============================================================================

// SummaryFor returns the persisted summary row, or nil if the employee has
// never been recomputed.
func (s *Store) SummaryFor(ctx context.Context, employeeID gamification.EmployeeID) (*gamification.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, total_points, monthly_points, current_month, level,
		       level_name, current_streak, longest_streak, last_streak_date
		FROM employee_points WHERE employee_id = ?`, employeeID)

	sum, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// Leaderboard returns summaries ordered by total points descending.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]gamification.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, total_points, monthly_points, current_month, level,
		       level_name, current_streak, longest_streak, last_streak_date
		FROM employee_points
		ORDER BY CAST(total_points AS REAL) DESC, employee_id ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var summaries []gamification.Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *sum)
	}
	return summaries, rows.Err()
}

// TransactionsFor returns the employee's ledger, chronological.
func (s *Store) TransactionsFor(ctx context.Context, employeeID gamification.EmployeeID) ([]gamification.PointTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, action_type, points, description, reference_id, effective_at
		FROM point_transactions
		WHERE employee_id = ?
		ORDER BY effective_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []gamification.PointTransaction
	for rows.Next() {
		var (
			tx          gamification.PointTransaction
			points      string
			description sql.NullString
			reference   sql.NullString
			effectiveAt string
		)
		if err := rows.Scan(&tx.ID, &tx.EmployeeID, &tx.Action, &points, &description, &reference, &effectiveAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Points = mustDecimal(points)
		tx.Description = description.String
		tx.ReferenceID = reference.String
		tx.EffectiveAt, _ = time.Parse(time.RFC3339, effectiveAt)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// BadgesFor returns the employee's badge awards.
func (s *Store) BadgesFor(ctx context.Context, employeeID gamification.EmployeeID) ([]gamification.EmployeeBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, badge_id, earned_at
		FROM employee_badges
		WHERE employee_id = ?
		ORDER BY badge_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []gamification.EmployeeBadge
	for rows.Next() {
		var (
			b        gamification.EmployeeBadge
			earnedAt string
		)
		if err := rows.Scan(&b.EmployeeID, &b.BadgeID, &earnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		b.EarnedAt, _ = time.Parse(time.RFC3339, earnedAt)
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// =============================================================================
// RUN AUDIT
// =============================================================================

// RunRecord is one persisted batch run.
type RunRecord struct {
	ID         string
	Status     string // running, completed, failed
	Processed  int
	Failed     int
	Total      int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// SaveRun inserts or updates a run record.
func (s *Store) SaveRun(ctx context.Context, r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var finishedAt *string
	if r.FinishedAt != nil {
		f := r.FinishedAt.UTC().Format(time.RFC3339)
		finishedAt = &f
	}

	query := `
		INSERT INTO recompute_runs (id, status, processed, failed, total, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			processed = excluded.processed,
			failed = excluded.failed,
			total = excluded.total,
			error = excluded.error,
			finished_at = excluded.finished_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Status, r.Processed, r.Failed, r.Total, r.Error,
		r.StartedAt.UTC().Format(time.RFC3339), finishedAt,
	)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, status, processed, failed, total, error, started_at, finished_at
		FROM recompute_runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r          RunRecord
			errMsg     sql.NullString
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Status, &r.Processed, &r.Failed, &r.Total, &errMsg, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Error = errMsg.String
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if finishedAt.Valid {
			t, _ := time.Parse(time.RFC3339, finishedAt.String)
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// SOURCE-DATA WRITES (seeding, dev mode, admin)
// =============================================================================

// SaveEmployee upserts a roster entry.
func (s *Store) SaveEmployee(ctx context.Context, e gamification.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deletedAt *string
	if e.DeletedAt != nil {
		d := e.DeletedAt.UTC().Format(time.RFC3339)
		deletedAt = &d
	}

	query := `
		INSERT INTO employees (id, name, account_status, is_system_account, deleted_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			account_status = excluded.account_status,
			is_system_account = excluded.is_system_account,
			deleted_at = excluded.deleted_at
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Name, e.AccountStatus, e.IsSystemAccount, deletedAt,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveAttendance upserts one attendance event.
func (s *Store) SaveAttendance(ctx context.Context, ev gamification.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clockIn, clockOut *string
	if ev.ClockIn != nil {
		v := ev.ClockIn.UTC().Format(time.RFC3339)
		clockIn = &v
	}
	if ev.ClockOut != nil {
		v := ev.ClockOut.UTC().Format(time.RFC3339)
		clockOut = &v
	}

	query := `
		INSERT INTO attendance_events (employee_id, work_date, clock_in_time, clock_out_time, is_late)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, work_date) DO UPDATE SET
			clock_in_time = excluded.clock_in_time,
			clock_out_time = excluded.clock_out_time,
			is_late = excluded.is_late
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.EmployeeID, ev.WorkDate.UTC().Format("2006-01-02"), clockIn, clockOut, ev.Late,
	)
	return err
}

// SaveOvertime upserts one overtime session with its status.
func (s *Store) SaveOvertime(ctx context.Context, ev gamification.OvertimeEvent, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO overtime_events (id, employee_id, status, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.ID, ev.EmployeeID, status, ev.CompletedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// SaveBadgeDefinition upserts a badge definition.
func (s *Store) SaveBadgeDefinition(ctx context.Context, def gamification.BadgeDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO badge_definitions (id, name, condition_type, condition_value, points_reward, tier, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			condition_type = excluded.condition_type,
			condition_value = excluded.condition_value,
			points_reward = excluded.points_reward,
			tier = excluded.tier,
			is_active = excluded.is_active
	`

	_, err := s.db.ExecContext(ctx, query,
		def.ID, def.Name, def.Condition, def.Threshold,
		def.PointsReward.String(), def.Tier, def.Active,
	)
	return err
}

// SetSetting upserts one configuration pair.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*gamification.Summary, error) {
	var (
		sum        gamification.Summary
		total      string
		monthly    string
		lastStreak sql.NullString
	)
	err := row.Scan(&sum.EmployeeID, &total, &monthly, &sum.CurrentMonth,
		&sum.Level, &sum.LevelName, &sum.CurrentStreak, &sum.LongestStreak, &lastStreak)
	if err != nil {
		return nil, err
	}
	sum.TotalPoints = mustDecimal(total)
	sum.MonthlyPoints = mustDecimal(monthly)
	if lastStreak.Valid {
		t, _ := time.Parse("2006-01-02", lastStreak.String)
		sum.LastStreakDate = &t
	}
	return &sum, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
