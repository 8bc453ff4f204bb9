package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromXP_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    int
	}{
		{"zero XP", 0, 1},
		{"negative XP clamps to one", -500, 1},
		{"one XP", 1, 1},
		{"just below level two", 199, 2}, // sqrt(199/50)=1.99 → floor 1 → level 2
		{"level two boundary", 200, 3},
		{"level cap", 500000, 100},
		{"beyond the cap", 2000000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromXP(tt.totalXP))
		})
	}
}

func TestLevelFromXP_Monotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 600000; xp += 1000 {
		level := LevelFromXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level dropped at %d XP", xp)
		assert.GreaterOrEqual(t, level, MinLevel)
		assert.LessOrEqual(t, level, MaxLevel)
		prev = level
	}
}

func TestXPForNextLevel(t *testing.T) {
	assert.Equal(t, 200, XPForNextLevel(1))   // 2² × 50
	assert.Equal(t, 450, XPForNextLevel(2))   // 3² × 50
	assert.Equal(t, 500000, XPForNextLevel(99))
	assert.Equal(t, 0, XPForNextLevel(100), "no next level at the cap")
}

// TestLevelCurveConsistency pins the agreement between the level formula and
// the per-level floor formulas: the progress bar must read 0% exactly at each
// boundary, stay under 100% one XP before the next, and level up exactly at
// the next boundary.
func TestLevelCurveConsistency(t *testing.T) {
	for level := 1; level <= 99; level++ {
		boundary := level * level * xpCurveFactor

		p := ProgressInLevel(boundary)
		assert.Equal(t, 0, p.Current, "level %d boundary should start at 0", level)
		assert.Equal(t, 0, p.Percentage, "level %d boundary percentage", level)

		if level < 99 {
			nextBoundary := (level + 1) * (level + 1) * xpCurveFactor
			q := ProgressInLevel(nextBoundary - 1)
			assert.Less(t, q.Percentage, 100, "one XP short of level %d must stay under 100%%", level+2)
			assert.Equal(t, level+2, LevelFromXP(nextBoundary), "level-up at boundary")
		}
	}
}

func TestProgressInLevel(t *testing.T) {
	t.Run("mid level", func(t *testing.T) {
		// Level 2 spans [50, 200); 125 XP is 75 into a 150 XP level.
		p := ProgressInLevel(125)
		assert.Equal(t, Progress{Current: 75, Required: 150, Percentage: 50}, p)
	})

	t.Run("fresh account", func(t *testing.T) {
		p := ProgressInLevel(0)
		assert.Equal(t, Progress{Current: 0, Required: 50, Percentage: 0}, p)
	})

	t.Run("one XP short of a boundary stays under 100", func(t *testing.T) {
		// Level 3 spans [200, 450); 449 XP is 249 into a 250 XP level.
		p := ProgressInLevel(449)
		assert.Equal(t, Progress{Current: 249, Required: 250, Percentage: 99}, p)
	})

	t.Run("negative XP treated as zero", func(t *testing.T) {
		assert.Equal(t, ProgressInLevel(0), ProgressInLevel(-10))
	})

	t.Run("beyond the cap the bar stays full", func(t *testing.T) {
		p := ProgressInLevel(700000)
		assert.Equal(t, p.Required, p.Current)
		assert.Equal(t, 100, p.Percentage)
	})
}
