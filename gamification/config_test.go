package gamification_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/points-engine/gamification"
)

func TestConfig_EmptySettings_UsesDefaults(t *testing.T) {
	cfg := gamification.ConfigFromSettings(nil)

	assert.True(t, cfg.OnTimePoints.Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.LatePenalty.Equal(decimal.NewFromInt(-5)))
	assert.Equal(t, 30, cfg.EarlyMinutes)
	assert.Equal(t, 420, cfg.UTCOffsetMinutes)
	assert.True(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 6)))   // Monday
	assert.False(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 11))) // Saturday
}

func TestConfig_MalformedValues_FallBackSilently(t *testing.T) {
	// The engine must be able to recompute with garbage in the settings
	// table; bad values keep their defaults, good ones apply.

	cfg := gamification.ConfigFromSettings(map[string]string{
		"points_on_time":     "not-a-number",
		"points_ot":          "20",
		"early_minutes":      "soon",
		"working_days":       "9,banana",
		"work_start_time":    "25:99",
		"utc_offset_minutes": "0",
	})

	assert.True(t, cfg.OnTimePoints.Equal(decimal.NewFromInt(10)), "malformed decimal keeps default")
	assert.True(t, cfg.OvertimePoints.Equal(decimal.NewFromInt(20)), "valid override applies")
	assert.Equal(t, 30, cfg.EarlyMinutes)
	assert.Equal(t, 9, cfg.WorkStartHour)
	assert.Equal(t, 0, cfg.UTCOffsetMinutes)
	assert.True(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 6)),
		"unparseable working_days keeps the default set")
}

func TestConfig_WorkingDaysOverride(t *testing.T) {
	cfg := gamification.ConfigFromSettings(map[string]string{
		"working_days": "0,6", // weekend-only operation
	})

	assert.True(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 11))) // Saturday
	assert.True(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 12))) // Sunday
	assert.False(t, cfg.IsWorkingDay(gamification.Date(2025, time.January, 6))) // Monday
}

func TestConfig_LocalConversion(t *testing.T) {
	cfg := gamification.DefaultConfig() // UTC+7

	stored := time.Date(2025, time.January, 6, 1, 30, 0, 0, time.UTC)
	local := cfg.Local(stored)

	assert.Equal(t, 8, local.Hour())
	assert.Equal(t, 30, local.Minute())
}

func TestConfig_EarlyArrivalThreshold(t *testing.T) {
	cfg := gamification.DefaultConfig() // 09:00 start, 30 min, UTC+7

	exactly := time.Date(2025, time.January, 6, 1, 30, 0, 0, time.UTC) // 08:30 local
	justUnder := time.Date(2025, time.January, 6, 1, 31, 0, 0, time.UTC)
	wayEarly := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC) // 07:00 local

	assert.True(t, cfg.IsEarlyArrival(exactly), "exactly 30 minutes early counts")
	assert.False(t, cfg.IsEarlyArrival(justUnder))
	assert.True(t, cfg.IsEarlyArrival(wayEarly))
}

func TestConfig_CustomWorkStartTime(t *testing.T) {
	cfg := gamification.ConfigFromSettings(map[string]string{
		"work_start_time":    "08:00",
		"utc_offset_minutes": "0",
	})

	assert.True(t, cfg.IsEarlyArrival(time.Date(2025, time.January, 6, 7, 30, 0, 0, time.UTC)))
	assert.False(t, cfg.IsEarlyArrival(time.Date(2025, time.January, 6, 7, 45, 0, 0, time.UTC)))
}
