package progression

import (
	"testing"
	"time"
)

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return today.AddDate(0, 0, -offset).Add(time.Duration(hour) * time.Hour)
	}

	tests := []struct {
		name     string
		activity []time.Time
		want     int
	}{
		{"none", nil, 0},
		{"three consecutive ending today", []time.Time{day(0, 9), day(1, 12), day(2, 23)}, 3},
		{"no activity today", []time.Time{day(1, 9), day(2, 9)}, 0},
		{"duplicates on one day", []time.Time{day(0, 1), day(0, 5), day(0, 22)}, 1},
		{"gap stops the walk", []time.Time{day(0, 1), day(1, 1), day(3, 1), day(4, 1)}, 2},
		{"unordered input", []time.Time{day(2, 1), day(0, 1), day(1, 1)}, 3},
		{"future dates ignored", []time.Time{day(-1, 1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.activity, today); got != tt.want {
				t.Fatalf("CalculateStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreakUsesUTCDates(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	// 2024-03-10 02:00 at +05:00 is still 2024-03-09 in UTC.
	ts := time.Date(2024, 3, 10, 2, 0, 0, 0, loc)
	if got := CalculateStreak([]time.Time{ts}, today); got != 0 {
		t.Fatalf("CalculateStreak = %d, want 0", got)
	}
}

func TestStreakBonusXP(t *testing.T) {
	in := []int{0, 2, 3, 6, 7, 13, 14, 29, 30}
	want := []int{0, 0, 10, 10, 20, 20, 30, 30, 50}
	for i, s := range in {
		if got := StreakBonusXP(s); got != want[i] {
			t.Errorf("StreakBonusXP(%d) = %d, want %d", s, got, want[i])
		}
	}
	prev := 0
	for s := 0; s <= 400; s++ {
		got := StreakBonusXP(s)
		if got < prev {
			t.Fatalf("StreakBonusXP decreased at %d", s)
		}
		prev = got
	}
}

func TestTodayUsesClock(t *testing.T) {
	clock := FixedClock(time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC))
	if got := Today(clock); !got.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Today = %v", got)
	}
	if !IsStreakMilestone(7) || IsStreakMilestone(8) {
		t.Fatalf("IsStreakMilestone mismatch")
	}
}
