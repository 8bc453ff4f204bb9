// Package streak implements day-over-day continuity of learner activity.
//
// All functions are pure: "now" is always passed in by the caller (the HTTP
// layer passes the request-scoped time, the sweep worker its batch time), so
// tests supply fixed instants instead of mocking the clock.
package streak

import "time"

// graceEndHour is the local hour until which yesterday's activity keeps a
// streak unflagged by the passive break check. Learners finishing a lesson
// just past midnight get a 3-hour cushion before the nightly sweep flags them.
const graceEndHour = 3

// Reward is the outcome of hitting (or missing) a streak milestone.
type Reward struct {
	XP    int
	Badge string
}

// FreezeResult is the outcome of spending (or failing to spend) a streak freeze.
type FreezeResult struct {
	Streak           int
	FreezesRemaining int
	FreezeUsed       bool
}

// milestones maps exact streak lengths to their rewards. Milestones are exact
// matches, not thresholds: day 15 gets nothing even though it exceeds day 14.
var milestones = map[int]Reward{
	7:   {XP: 500, Badge: "week_warrior"},
	14:  {XP: 1000, Badge: "two_week_champion"},
	30:  {XP: 2500, Badge: "monthly_master"},
	100: {XP: 10000, Badge: "centurion"},
}

// Calculate returns the new streak length for an activity happening at now.
//
// Day boundaries are calendar days in the learner's timezone, not UTC, so a
// learner active near local midnight is not incorrectly reset. Repeat checks
// within the same local day are idempotent.
func Calculate(lastActiveAt *time.Time, currentStreak int, tz string, now time.Time) int {
	if lastActiveAt == nil {
		return 1
	}
	if currentStreak < 0 {
		currentStreak = 0
	}

	loc := location(tz)
	switch dayDelta(*lastActiveAt, now, loc) {
	case 0:
		return currentStreak
	case 1:
		return currentStreak + 1
	default:
		return 1
	}
}

// ShouldBreak reports whether a streak should be flagged broken. It is meant
// for passive detection (the nightly sweep), not the moment of new activity.
func ShouldBreak(lastActiveAt *time.Time, tz string, now time.Time) bool {
	if lastActiveAt == nil {
		return false
	}

	loc := location(tz)
	delta := dayDelta(*lastActiveAt, now, loc)

	// Grace period: before 03:00 local, exactly-yesterday activity is never
	// flagged. A gap of two or more days is broken even inside the window.
	if now.In(loc).Hour() < graceEndHour && delta == 1 {
		return false
	}

	return delta >= 2
}

// ApplyFreeze consumes a freeze to preserve the streak across a missed day.
// Without a freeze available the streak resets to 1.
func ApplyFreeze(currentStreak, freezesAvailable int) FreezeResult {
	if freezesAvailable > 0 {
		return FreezeResult{
			Streak:           currentStreak,
			FreezesRemaining: freezesAvailable - 1,
			FreezeUsed:       true,
		}
	}
	return FreezeResult{Streak: 1, FreezesRemaining: 0, FreezeUsed: false}
}

// RewardFor returns the milestone reward for an exact streak length, or the
// zero Reward for any non-milestone value including zero and negatives.
func RewardFor(streakDays int) Reward {
	return milestones[streakDays]
}

// ValidTimezone reports whether tz is a resolvable IANA timezone name.
func ValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// location resolves an IANA timezone name, falling back to UTC on any error.
// A wrong-but-rendered streak beats a crashed request on this path.
func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// civilDay anchors t's calendar date in loc as a UTC midnight, making day
// arithmetic immune to DST transitions (23h and 25h local days).
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayDelta is the canonical zoned day-delta both Calculate and ShouldBreak
// derive from: the number of calendar days in loc between last and now.
func dayDelta(last, now time.Time, loc *time.Location) int {
	return int(civilDay(now, loc).Sub(civilDay(last, loc)).Hours() / 24)
}
