// Package progress owns the per-learner gamification record: total XP, the
// streak state, freezes, and earned badges. The streak and xp engines stay
// pure; this package is where their outputs are persisted.
package progress

import (
	"time"

	"github.com/ihiteshgupta/learnflow/internal/xp"
)

// UserProgress is the stored gamification state for one learner.
type UserProgress struct {
	UserID           string     `json:"user_id"`
	TotalXP          int        `json:"total_xp"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActiveAt     *time.Time `json:"last_active_at,omitempty"`
	FreezesAvailable int        `json:"freezes_available"`
	Timezone         string     `json:"timezone"`
	Badges           []string   `json:"badges"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasBadge reports whether the learner already earned the badge.
func (p *UserProgress) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// ActivityEvent is one rewardable learner action.
type ActivityEvent struct {
	Kind           xp.ActivityKind `json:"kind"`
	IsFirstAttempt bool            `json:"is_first_attempt"`
	IsPerfectScore bool            `json:"is_perfect_score"`
	NoHintsUsed    bool            `json:"no_hints_used"`
	UnderParTime   bool            `json:"under_par_time"`
}

// ActivityResult is what the learner gets back for an activity: the activity
// award itself plus any milestone bonus the new streak length unlocked.
type ActivityResult struct {
	AwardedXP     int    `json:"awarded_xp"`
	MilestoneXP   int    `json:"milestone_xp,omitempty"`
	BadgeEarned   string `json:"badge_earned,omitempty"`
	TotalXP       int    `json:"total_xp"`
	CurrentStreak int    `json:"current_streak"`
	Level         int    `json:"level"`
}

// Profile is the read model for GET /me/progress.
type Profile struct {
	UserID           string      `json:"user_id"`
	TotalXP          int         `json:"total_xp"`
	Level            int         `json:"level"`
	LevelProgress    xp.Progress `json:"level_progress"`
	CurrentStreak    int         `json:"current_streak"`
	LongestStreak    int         `json:"longest_streak"`
	FreezesAvailable int         `json:"freezes_available"`
	Timezone         string      `json:"timezone"`
	Badges           []string    `json:"badges"`
	LastActiveAt     *time.Time  `json:"last_active_at,omitempty"`
}
