// Package xp converts learner activity into experience point awards and
// cumulative XP into level progression.
package xp

import "math"

// ActivityKind identifies a rewardable activity.
type ActivityKind string

const (
	ActivityLessonComplete    ActivityKind = "lesson_complete"
	ActivityQuizPass          ActivityKind = "quiz_pass"
	ActivityChallengeComplete ActivityKind = "challenge_complete"
	ActivityModuleComplete    ActivityKind = "module_complete"
	ActivityBronzeCert        ActivityKind = "bronze_cert"
	ActivitySilverCert        ActivityKind = "silver_cert"
	ActivityGoldCert          ActivityKind = "gold_cert"
	ActivityPeerHelp          ActivityKind = "peer_help"
	ActivityStreakBonus       ActivityKind = "streak_bonus"
)

// baseXP maps activity kinds to their base award. Unknown kinds degrade to 0
// rather than erroring: new activity kinds added elsewhere in the system must
// not crash reward computation.
var baseXP = map[ActivityKind]int{
	ActivityLessonComplete:    50,
	ActivityQuizPass:          100,
	ActivityChallengeComplete: 150,
	ActivityModuleComplete:    300,
	ActivityBronzeCert:        500,
	ActivitySilverCert:        1000,
	ActivityGoldCert:          2500,
	ActivityPeerHelp:          75,
	ActivityStreakBonus:       25,
}

// maxMultiplier caps stacked bonuses regardless of how many apply.
const maxMultiplier = 3.0

// streakBonusCapDays is the streak length at which the streak bonus stops
// growing (+1% per day, up to +30%).
const streakBonusCapDays = 30

// Multipliers are the situational bonuses applied to a base award.
type Multipliers struct {
	IsFirstAttempt bool
	StreakDays     int
	IsPerfectScore bool
	NoHintsUsed    bool
	UnderParTime   bool
}

// Calculate returns the XP award for an activity with the given bonuses.
//
// Bonuses are multiplicative. The combined multiplier is capped at 3.0 before
// being applied to the base, and the result is rounded once at the end,
// never per bonus, so independent implementations agree to the point.
func Calculate(kind ActivityKind, m Multipliers) int {
	base := baseXP[kind]
	if base == 0 {
		return 0
	}

	multiplier := 1.0
	if m.IsFirstAttempt {
		multiplier *= 1.25
	}
	if m.StreakDays > 0 {
		days := min(m.StreakDays, streakBonusCapDays)
		multiplier *= 1 + float64(days)*0.01
	}
	if m.IsPerfectScore {
		multiplier *= 1.5
	}
	if m.NoHintsUsed {
		multiplier *= 1.25
	}
	if m.UnderParTime {
		multiplier *= 1.1
	}

	if multiplier > maxMultiplier {
		multiplier = maxMultiplier
	}

	return int(math.Round(float64(base) * multiplier))
}

// BaseXP returns the base award for an activity kind, 0 for unknown kinds.
func BaseXP(kind ActivityKind) int {
	return baseXP[kind]
}
