package progression

import "time"

// Clock supplies "now". Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// StreakMilestones are the streak lengths announced with a notification.
var StreakMilestones = []int{3, 7, 14, 30, 100, 365}

// IsStreakMilestone reports whether days is one of StreakMilestones.
func IsStreakMilestone(days int) bool {
	for _, m := range StreakMilestones {
		if m == days {
			return true
		}
	}
	return false
}

// Today returns the current UTC calendar date from clock.
func Today(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return truncateDay(clock.Now())
}

// CalculateStreak counts consecutive UTC days with activity ending at today.
// No activity on today yields 0, even when yesterday was active.
func CalculateStreak(activity []time.Time, today time.Time) int {
	if len(activity) == 0 {
		return 0
	}
	days := make(map[time.Time]struct{}, len(activity))
	for _, ts := range activity {
		if ts.IsZero() {
			continue
		}
		days[truncateDay(ts)] = struct{}{}
	}

	day := truncateDay(today)
	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// StreakBonusXP is the bonus XP for the first completion on a streak day.
func StreakBonusXP(streak int) int {
	switch {
	case streak >= 30:
		return 50
	case streak >= 14:
		return 30
	case streak >= 7:
		return 20
	case streak >= 3:
		return 10
	default:
		return 0
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
