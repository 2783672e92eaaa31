/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/points-engine/gamification"
	"github.com/warp/points-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a roster entry in API responses.
type EmployeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SummaryDTO represents an employee points summary.
type SummaryDTO struct {
	EmployeeID     string  `json:"employee_id"`
	TotalPoints    string  `json:"total_points"`
	MonthlyPoints  string  `json:"monthly_points"`
	CurrentMonth   string  `json:"current_month"`
	Level          int     `json:"level"`
	LevelName      string  `json:"level_name"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	LastStreakDate *string `json:"last_streak_date,omitempty"`
}

// TransactionDTO represents one ledger entry.
type TransactionDTO struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	Points      string `json:"points"`
	Description string `json:"description"`
	ReferenceID string `json:"reference_id,omitempty"`
	EffectiveAt string `json:"effective_at"`
}

// BadgeAwardDTO represents one earned badge.
type BadgeAwardDTO struct {
	BadgeID  string `json:"badge_id"`
	EarnedAt string `json:"earned_at"`
}

// BadgeDefinitionDTO represents a configurable badge.
type BadgeDefinitionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Condition    string `json:"condition_type"`
	Threshold    int    `json:"condition_value"`
	PointsReward string `json:"points_reward"`
	Tier         string `json:"tier,omitempty"`
	Active       bool   `json:"is_active"`
}

// CreateBadgeRequest is the request to create or update a badge definition.
type CreateBadgeRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Condition    string `json:"condition_type"`
	Threshold    int    `json:"condition_value"`
	PointsReward string `json:"points_reward"`
	Tier         string `json:"tier"`
	Active       *bool  `json:"is_active"`
}

// LevelTierDTO represents one row of the level table.
type LevelTierDTO struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	MinPoints string `json:"min_points"`
}

// RunReportDTO represents one batch recompute run.
type RunReportDTO struct {
	RunID      string   `json:"run_id"`
	Status     string   `json:"status"`
	Processed  int      `json:"processed"`
	Failed     int      `json:"failed"`
	Total      int      `json:"total"`
	Errors     []string `json:"errors,omitempty"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toSummaryDTO(s gamification.Summary) SummaryDTO {
	dto := SummaryDTO{
		EmployeeID:    string(s.EmployeeID),
		TotalPoints:   s.TotalPoints.String(),
		MonthlyPoints: s.MonthlyPoints.String(),
		CurrentMonth:  s.CurrentMonth,
		Level:         s.Level,
		LevelName:     s.LevelName,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if s.LastStreakDate != nil {
		d := s.LastStreakDate.Format("2006-01-02")
		dto.LastStreakDate = &d
	}
	return dto
}

func toTransactionDTO(tx gamification.PointTransaction) TransactionDTO {
	return TransactionDTO{
		ID:          string(tx.ID),
		Action:      string(tx.Action),
		Points:      tx.Points.String(),
		Description: tx.Description,
		ReferenceID: tx.ReferenceID,
		EffectiveAt: tx.EffectiveAt.UTC().Format(time.RFC3339),
	}
}

func toBadgeDefinitionDTO(def gamification.BadgeDefinition) BadgeDefinitionDTO {
	return BadgeDefinitionDTO{
		ID:           string(def.ID),
		Name:         def.Name,
		Condition:    string(def.Condition),
		Threshold:    def.Threshold,
		PointsReward: def.PointsReward.String(),
		Tier:         def.Tier,
		Active:       def.Active,
	}
}

func toRunReportDTO(r sqlite.RunRecord) RunReportDTO {
	dto := RunReportDTO{
		RunID:     r.ID,
		Status:    r.Status,
		Processed: r.Processed,
		Failed:    r.Failed,
		Total:     r.Total,
		StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
	}
	if r.Error != "" {
		dto.Errors = []string{r.Error}
	}
	if r.FinishedAt != nil {
		dto.FinishedAt = r.FinishedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
