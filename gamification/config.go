/*
config.go - Engine configuration with documented defaults

PURPOSE:
  Point values per action, badge reward behavior, the working-day set, the
  local work-start time, and the stored-instant offset all come from a flat
  key/value settings table. Missing or malformed values fall back to the
  defaults below rather than failing the run; the engine must be able to
  recompute with an empty settings table.

SETTINGS KEYS:
  points_on_time       signed decimal, default 10
  points_late_penalty  signed decimal, default -5
  points_early         signed decimal, default 5
  points_full_day      signed decimal, default 5
  points_ot            signed decimal, default 15
  early_minutes        integer, default 30
  working_days         comma-separated weekday numbers (0=Sunday), default 1-5
  work_start_time      local "HH:MM", default "09:00"
  utc_offset_minutes   offset between stored instants and local wall clock,
                       default 420 (UTC+7)

TIMEZONE HANDLING:
  Stored clock-in/out instants are in a fixed offset from the local wall
  clock. The offset lives here as a single named setting and every
  instant-to-local comparison goes through Config.Local. No inline offset
  arithmetic anywhere else.

SEE ALSO:
  - ledger.go: Uses point values and the early-arrival threshold
  - streak.go: Uses the working-day set
*/
package gamification

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SETTINGS KEYS
// =============================================================================

const (
	SettingOnTimePoints   = "points_on_time"
	SettingLatePenalty    = "points_late_penalty"
	SettingEarlyPoints    = "points_early"
	SettingFullDayPoints  = "points_full_day"
	SettingOvertimePoints = "points_ot"
	SettingEarlyMinutes   = "early_minutes"
	SettingWorkingDays    = "working_days"
	SettingWorkStartTime  = "work_start_time"
	SettingUTCOffsetMins  = "utc_offset_minutes"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config holds everything the pure engine needs besides the events
// themselves. Treat values as read-only once constructed.
type Config struct {
	OnTimePoints   decimal.Decimal
	LatePenalty    decimal.Decimal // negative
	EarlyPoints    decimal.Decimal
	FullDayPoints  decimal.Decimal
	OvertimePoints decimal.Decimal

	// EarlyMinutes is how far before work start a clock-in must be to count
	// as an early arrival.
	EarlyMinutes int

	// WorkingDays is the set of weekdays the organization considers
	// workdays. Non-member days are skipped, not streak breaks.
	WorkingDays map[time.Weekday]bool

	// Local work-start wall clock.
	WorkStartHour   int
	WorkStartMinute int

	// UTCOffsetMinutes is the fixed offset between stored instants and the
	// local wall clock.
	UTCOffsetMinutes int
}

// DefaultConfig returns the documented fallback configuration.
func DefaultConfig() Config {
	return Config{
		OnTimePoints:   decimal.NewFromInt(10),
		LatePenalty:    decimal.NewFromInt(-5),
		EarlyPoints:    decimal.NewFromInt(5),
		FullDayPoints:  decimal.NewFromInt(5),
		OvertimePoints: decimal.NewFromInt(15),
		EarlyMinutes:   30,
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		WorkStartHour:    9,
		WorkStartMinute:  0,
		UTCOffsetMinutes: 420,
	}
}

// ConfigFromSettings builds a Config from raw key/value settings. Unknown
// keys are ignored; missing or malformed values keep the default. This is
// the configuration error policy: fall back, never fail the run.
func ConfigFromSettings(settings map[string]string) Config {
	cfg := DefaultConfig()

	decimalSetting(settings, SettingOnTimePoints, &cfg.OnTimePoints)
	decimalSetting(settings, SettingLatePenalty, &cfg.LatePenalty)
	decimalSetting(settings, SettingEarlyPoints, &cfg.EarlyPoints)
	decimalSetting(settings, SettingFullDayPoints, &cfg.FullDayPoints)
	decimalSetting(settings, SettingOvertimePoints, &cfg.OvertimePoints)
	intSetting(settings, SettingEarlyMinutes, &cfg.EarlyMinutes)
	intSetting(settings, SettingUTCOffsetMins, &cfg.UTCOffsetMinutes)

	if raw, ok := settings[SettingWorkingDays]; ok {
		if days := parseWorkingDays(raw); len(days) > 0 {
			cfg.WorkingDays = days
		}
	}
	if raw, ok := settings[SettingWorkStartTime]; ok {
		if h, m, ok := parseClock(raw); ok {
			cfg.WorkStartHour, cfg.WorkStartMinute = h, m
		}
	}

	return cfg
}

// IsWorkingDay reports whether the weekday of d is in the working-day set.
func (c Config) IsWorkingDay(d time.Time) bool {
	return c.WorkingDays[d.Weekday()]
}

// Local converts a stored instant to local wall-clock time. Every comparison
// against the work-start threshold goes through this one function.
func (c Config) Local(t time.Time) time.Time {
	return t.UTC().Add(time.Duration(c.UTCOffsetMinutes) * time.Minute)
}

// WorkStartOn returns the local work-start wall clock on the given local day.
func (c Config) WorkStartOn(localDay time.Time) time.Time {
	return time.Date(localDay.Year(), localDay.Month(), localDay.Day(),
		c.WorkStartHour, c.WorkStartMinute, 0, 0, localDay.Location())
}

// IsEarlyArrival reports whether a stored clock-in instant precedes the
// local work start by at least EarlyMinutes.
func (c Config) IsEarlyArrival(clockIn time.Time) bool {
	local := c.Local(clockIn)
	start := c.WorkStartOn(local)
	return start.Sub(local) >= time.Duration(c.EarlyMinutes)*time.Minute
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func decimalSetting(settings map[string]string, key string, dst *decimal.Decimal) {
	raw, ok := settings[key]
	if !ok {
		return
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		*dst = d
	}
}

func intSetting(settings map[string]string, key string, dst *int) {
	raw, ok := settings[key]
	if !ok {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		*dst = n
	}
}

// parseWorkingDays parses "1,2,3,4,5" into a weekday set (0=Sunday).
// Out-of-range numbers are skipped.
func parseWorkingDays(raw string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

// parseClock parses local "HH:MM".
func parseClock(raw string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
