package leveling

import (
	"math"
	"testing"
)

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{-1, 0},
		{0, 0},
		{1, 100},
		{2, 142},
		{3, 201}, // 100 × 1.42² = 201.64
		{4, 286}, // 286.3288
		{10, 2347},
	}

	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestXPForLevelAlwaysPositive(t *testing.T) {
	for level := 0; level < 200; level++ {
		if XPForLevel(level+1) <= 0 {
			t.Fatalf("XPForLevel(%d) should be positive", level+1)
		}
	}
}

// TestLevelOfCumulativeBoundary verifies there is no off-by-one at level thresholds
func TestLevelOfCumulativeBoundary(t *testing.T) {
	for level := 0; level <= 60; level++ {
		total := CumulativeXP(level)
		if got := LevelOf(total); got != level {
			t.Errorf("LevelOf(%v) = %d, want %d", total, got, level)
		}
		if level > 0 {
			if got := LevelOf(total - 1); got != level-1 {
				t.Errorf("LevelOf(%v) = %d, want %d", total-1, got, level-1)
			}
		}
	}
}

func TestComputeZeroXP(t *testing.T) {
	p := Compute(0)
	if p.Level != 0 || p.IntoLevel != 0 || p.ForNext != 100 || p.Fraction != 0 {
		t.Errorf("Compute(0) = %+v, want level 0, into 0, next 100, fraction 0", p)
	}
}

func TestComputeMatchesHelpers(t *testing.T) {
	for _, xp := range []float64{0, 50, 99, 100, 241, 242, 500, 12345, 1e6} {
		p := Compute(xp)
		if p.Level != LevelOf(xp) {
			t.Errorf("xp=%v: level %d != %d", xp, p.Level, LevelOf(xp))
		}
		if p.IntoLevel != XPIntoLevel(xp) {
			t.Errorf("xp=%v: into %v != %v", xp, p.IntoLevel, XPIntoLevel(xp))
		}
		if p.ForNext != XPForNextLevel(xp) {
			t.Errorf("xp=%v: next %v != %v", xp, p.ForNext, XPForNextLevel(xp))
		}
	}
}

func TestComputeLevelOneProgress(t *testing.T) {
	// 100 reaches level 1, level 2 costs 142
	p := Compute(171)
	if p.Level != 1 {
		t.Fatalf("Expected level 1, got %d", p.Level)
	}
	if p.IntoLevel != 71 || p.ForNext != 142 {
		t.Errorf("Expected 71/142, got %v/%v", p.IntoLevel, p.ForNext)
	}
	if p.Fraction != 50 {
		t.Errorf("Expected 50%%, got %v", p.Fraction)
	}
}

// TestFractionResetsAtThreshold checks the fraction stays below 100 and
// resets when a level is crossed
func TestFractionResetsAtThreshold(t *testing.T) {
	for level := 1; level <= 30; level++ {
		threshold := CumulativeXP(level + 1)

		before := Compute(threshold - 1)
		if before.Level != level {
			t.Fatalf("Expected level %d below threshold, got %d", level, before.Level)
		}
		if before.Fraction < 0 || before.Fraction >= 100 {
			t.Errorf("Level %d: fraction %v out of [0, 100)", level, before.Fraction)
		}

		at := Compute(threshold)
		if at.Level != level+1 || at.Fraction != 0 {
			t.Errorf("Level %d: crossing gave %+v", level, at)
		}
	}
}

func FuzzCompute(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(100))
	f.Add(uint32(241))
	f.Add(uint32(4294967295))

	f.Fuzz(func(t *testing.T, xp uint32) {
		p := Compute(float64(xp))

		if math.IsNaN(p.Fraction) || math.IsInf(p.Fraction, 0) {
			t.Fatalf("Fraction should be finite, got %v", p.Fraction)
		}
		if p.Fraction < 0 || p.Fraction >= 100 {
			t.Errorf("Fraction %v out of [0, 100) for xp=%d", p.Fraction, xp)
		}
		if CumulativeXP(p.Level) > float64(xp) {
			t.Errorf("Level %d costs more than xp=%d", p.Level, xp)
		}
	})
}

func BenchmarkLevelOf(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LevelOf(1e12)
	}
}
