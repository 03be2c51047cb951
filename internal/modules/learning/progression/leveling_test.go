package progression

import "testing"

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{2, 100},
		{3, 283},
		{5, 800},
		{10, 2700},
	}
	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelRoundTrip(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		if got := LevelForXP(XPForLevel(level)); got != level {
			t.Fatalf("LevelForXP(XPForLevel(%d)) = %d", level, got)
		}
	}
}

func TestXPForLevelNonDecreasing(t *testing.T) {
	for level := 1; level < 2000; level++ {
		if XPForLevel(level+1) < XPForLevel(level) {
			t.Fatalf("XPForLevel decreased between %d and %d", level, level+1)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{282, 2},
		{283, 3},
		{1 << 40, MaxLevel},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(0); got != 100 {
		t.Fatalf("XPToNextLevel(0) = %d", got)
	}
	if got := XPToNextLevel(150); got != 133 {
		t.Fatalf("XPToNextLevel(150) = %d", got)
	}
	if got := XPToNextLevel(-10); got != 100 {
		t.Fatalf("XPToNextLevel(-10) = %d", got)
	}
	if got := XPForNextLevel(1); got != 100 {
		t.Fatalf("XPForNextLevel(1) = %d", got)
	}
}
