package xp

import "math"

// Level bounds. The quadratic curve (level² × 50 XP per boundary) makes early
// levels cheap and later levels expensive; 500000 XP pins the level 100 cap.
const (
	MinLevel      = 1
	MaxLevel      = 100
	MaxLevelXP    = 500000
	xpCurveFactor = 50
)

// Progress describes position within the current level.
type Progress struct {
	Current    int `json:"current"`
	Required   int `json:"required"`
	Percentage int `json:"percentage"`
}

// LevelFromXP converts cumulative XP into a level in [1, 100].
// The formula floor(sqrt(totalXP/50))+1 is the inverse of the quadratic
// boundary curve used by XPForNextLevel and ProgressInLevel; the three must
// stay mutually consistent or progress bars will not reach 100% exactly at
// the level-up threshold.
func LevelFromXP(totalXP int) int {
	if totalXP <= 0 {
		return MinLevel
	}
	if totalXP >= MaxLevelXP {
		return MaxLevel
	}
	level := int(math.Sqrt(float64(totalXP)/xpCurveFactor)) + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// XPForNextLevel returns the cumulative XP threshold for currentLevel+1,
// or 0 at the cap where there is no next level.
func XPForNextLevel(currentLevel int) int {
	if currentLevel >= MaxLevel {
		return 0
	}
	next := currentLevel + 1
	return next * next * xpCurveFactor
}

// ProgressInLevel reports how far into the current level totalXP sits.
func ProgressInLevel(totalXP int) Progress {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelFromXP(totalXP)

	currentFloor := (level - 1) * (level - 1) * xpCurveFactor
	nextFloor := level * level * xpCurveFactor

	current := totalXP - currentFloor
	required := nextFloor - currentFloor

	// Past the level cap the bar stays full.
	if level == MaxLevel && current > required {
		current = required
	}

	// Truncate rather than round: the bar may read 100 only exactly at
	// level-up, never one XP short of it.
	return Progress{
		Current:    current,
		Required:   required,
		Percentage: current * 100 / required,
	}
}
