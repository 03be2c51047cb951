package progression

import "math"

// MaxLevel bounds the level search. XP implying a higher level reports MaxLevel.
const MaxLevel = 1000

// XPForLevel returns the cumulative XP threshold at which level is reached.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Round(100 * math.Pow(float64(level-1), 1.5)))
}

// LevelForXP returns the highest level whose threshold xp has reached.
// Negative xp is treated as 0.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	for level < MaxLevel && XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

func XPForNextLevel(level int) int {
	return XPForLevel(level + 1)
}

// XPToNextLevel is the XP still missing before the next level, never negative.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	remaining := XPForNextLevel(LevelForXP(xp)) - xp
	if remaining < 0 {
		return 0
	}
	return remaining
}
