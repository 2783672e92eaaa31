// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/points-engine/gamification"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store keeps everything in maps guarded by one RWMutex. Replacement writes
// are atomic under the lock, matching the transactional guarantee the SQLite
// store provides.
type Store struct {
	mu sync.RWMutex

	employees  []gamification.Employee
	attendance map[gamification.EmployeeID][]gamification.AttendanceEvent
	overtime   map[gamification.EmployeeID][]gamification.OvertimeEvent
	badgeDefs  []gamification.BadgeDefinition
	settings   map[string]string

	transactions map[gamification.EmployeeID][]gamification.PointTransaction
	badges       map[gamification.EmployeeID][]gamification.EmployeeBadge
	summaries    map[gamification.EmployeeID]gamification.Summary
}

func New() *Store {
	return &Store{
		attendance:   make(map[gamification.EmployeeID][]gamification.AttendanceEvent),
		overtime:     make(map[gamification.EmployeeID][]gamification.OvertimeEvent),
		settings:     make(map[string]string),
		transactions: make(map[gamification.EmployeeID][]gamification.PointTransaction),
		badges:       make(map[gamification.EmployeeID][]gamification.EmployeeBadge),
		summaries:    make(map[gamification.EmployeeID]gamification.Summary),
	}
}

var _ gamification.Store = (*Store)(nil)

// =============================================================================
// EVENT SOURCE
// =============================================================================

func (s *Store) EligibleEmployees(_ context.Context) ([]gamification.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []gamification.Employee
	for _, e := range s.employees {
		if e.Eligible() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) AttendanceEvents(_ context.Context, id gamification.EmployeeID) ([]gamification.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := append([]gamification.AttendanceEvent(nil), s.attendance[id]...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].WorkDate.Before(events[j].WorkDate)
	})
	return events, nil
}

func (s *Store) OvertimeEvents(_ context.Context, id gamification.EmployeeID) ([]gamification.OvertimeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := append([]gamification.OvertimeEvent(nil), s.overtime[id]...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CompletedAt.Before(events[j].CompletedAt)
	})
	return events, nil
}

func (s *Store) BadgeDefinitions(_ context.Context) ([]gamification.BadgeDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gamification.BadgeDefinition(nil), s.badgeDefs...), nil
}

func (s *Store) Settings(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

// =============================================================================
// RESULT STORE
// =============================================================================

func (s *Store) ReplaceEmployeeResults(_ context.Context, id gamification.EmployeeID, result gamification.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[id] = append([]gamification.PointTransaction(nil), result.Transactions...)
	s.badges[id] = append([]gamification.EmployeeBadge(nil), result.Badges...)
	s.summaries[id] = result.Summary
	return nil
}

// =============================================================================
// FIXTURE HELPERS
// =============================================================================

func (s *Store) AddEmployee(e gamification.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, e)
}

func (s *Store) AddAttendance(ev gamification.AttendanceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance[ev.EmployeeID] = append(s.attendance[ev.EmployeeID], ev)
}

func (s *Store) AddOvertime(ev gamification.OvertimeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overtime[ev.EmployeeID] = append(s.overtime[ev.EmployeeID], ev)
}

func (s *Store) AddBadgeDefinition(def gamification.BadgeDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badgeDefs = append(s.badgeDefs, def)
}

func (s *Store) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

// =============================================================================
// READ-BACK (for assertions and the dev API)
// =============================================================================

func (s *Store) TransactionsFor(id gamification.EmployeeID) []gamification.PointTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gamification.PointTransaction(nil), s.transactions[id]...)
}

func (s *Store) BadgesFor(id gamification.EmployeeID) []gamification.EmployeeBadge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gamification.EmployeeBadge(nil), s.badges[id]...)
}

func (s *Store) SummaryFor(id gamification.EmployeeID) (gamification.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[id]
	return sum, ok
}
