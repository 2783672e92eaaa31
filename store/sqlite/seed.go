package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/points-engine/gamification"
)

// =============================================================================
// SEEDING - Default settings and a starter badge set
// =============================================================================

// defaultBadges is a starter set covering every computable condition type.
var defaultBadges = []gamification.BadgeDefinition{
	{ID: "first-steps", Name: "First Steps", Condition: gamification.ConditionAttendanceCount,
		Threshold: 1, PointsReward: decimal.NewFromInt(10), Tier: "bronze", Active: true},
	{ID: "regular-presence", Name: "Regular Presence", Condition: gamification.ConditionAttendanceCount,
		Threshold: 30, PointsReward: decimal.NewFromInt(50), Tier: "silver", Active: true},
	{ID: "punctual-week", Name: "Punctual Week", Condition: gamification.ConditionLongestStreak,
		Threshold: 5, PointsReward: decimal.NewFromInt(20), Tier: "bronze", Active: true},
	{ID: "punctual-month", Name: "Punctual Month", Condition: gamification.ConditionLongestStreak,
		Threshold: 20, PointsReward: decimal.NewFromInt(100), Tier: "gold", Active: true},
	{ID: "on-time-50", Name: "Reliably On Time", Condition: gamification.ConditionOnTimeCount,
		Threshold: 50, PointsReward: decimal.NewFromInt(75), Tier: "silver", Active: true},
	{ID: "early-bird", Name: "Early Bird", Condition: gamification.ConditionEarlyCount,
		Threshold: 10, PointsReward: decimal.NewFromInt(40), Tier: "silver", Active: true},
	{ID: "overtime-hero", Name: "Overtime Hero", Condition: gamification.ConditionOvertimeCount,
		Threshold: 5, PointsReward: decimal.NewFromInt(60), Tier: "silver", Active: true},
}

// SeedDefaults writes the default settings and starter badges if they are
// not present. Existing rows win; seeding never overwrites admin changes.
func (s *Store) SeedDefaults(ctx context.Context) error {
	cfg := gamification.DefaultConfig()
	defaults := map[string]string{
		gamification.SettingOnTimePoints:   cfg.OnTimePoints.String(),
		gamification.SettingLatePenalty:    cfg.LatePenalty.String(),
		gamification.SettingEarlyPoints:    cfg.EarlyPoints.String(),
		gamification.SettingFullDayPoints:  cfg.FullDayPoints.String(),
		gamification.SettingOvertimePoints: cfg.OvertimePoints.String(),
		gamification.SettingEarlyMinutes:   fmt.Sprintf("%d", cfg.EarlyMinutes),
		gamification.SettingWorkingDays:    "1,2,3,4,5",
		gamification.SettingWorkStartTime:  fmt.Sprintf("%02d:%02d", cfg.WorkStartHour, cfg.WorkStartMinute),
		gamification.SettingUTCOffsetMins:  fmt.Sprintf("%d", cfg.UTCOffsetMinutes),
	}

	s.mu.Lock()
	for key, value := range defaults {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING",
			key, value); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	for _, def := range defaultBadges {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO badge_definitions (id, name, condition_type, condition_value, points_reward, tier, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			def.ID, def.Name, def.Condition, def.Threshold,
			def.PointsReward.String(), def.Tier, def.Active); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to seed badge %s: %w", def.ID, err)
		}
	}
	s.mu.Unlock()
	return nil
}
