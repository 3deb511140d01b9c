// Package leveling maps total experience to a player level using a
// geometric cost curve.
package leveling

import "math"

const (
	// BaseXP is the cost of level 1
	BaseXP = 100
	// GrowthRate is the per-level cost increase (42%)
	GrowthRate = 0.42
)

// XPForLevel returns the experience needed to go from level-1 to level.
// Level 0 costs nothing.
func XPForLevel(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Floor(BaseXP * math.Pow(1+GrowthRate, float64(level-1)))
}

// LevelOf returns the greatest level whose cumulative cost fits in totalXP.
// The loop subtracts each level cost in turn so every level keeps its own
// integer truncation.
func LevelOf(totalXP float64) int {
	level := 0
	remaining := totalXP
	for remaining >= XPForLevel(level+1) {
		remaining -= XPForLevel(level + 1)
		level++
	}
	return level
}

// CumulativeXP returns the total experience needed to reach level
func CumulativeXP(level int) float64 {
	total := 0.0
	for k := 1; k <= level; k++ {
		total += XPForLevel(k)
	}
	return total
}

// XPIntoLevel returns the experience earned past the current level
func XPIntoLevel(totalXP float64) float64 {
	level := LevelOf(totalXP)
	if level == 0 {
		return 0
	}
	return math.Max(0, totalXP-CumulativeXP(level))
}

// XPForNextLevel returns the cost of the next level
func XPForNextLevel(totalXP float64) float64 {
	return XPForLevel(LevelOf(totalXP) + 1)
}

// Progress is the full leveling view for one XP total
type Progress struct {
	Level     int
	IntoLevel float64
	ForNext   float64
	Fraction  float64 // percent in [0, 100)
}

// Compute derives every leveling value from totalXP in one pass
func Compute(totalXP float64) Progress {
	level := LevelOf(totalXP)

	into := 0.0
	if level > 0 {
		into = math.Max(0, totalXP-CumulativeXP(level))
	}
	next := XPForLevel(level + 1) // >= BaseXP, never zero

	return Progress{
		Level:     level,
		IntoLevel: into,
		ForNext:   next,
		Fraction:  into / next * 100,
	}
}
