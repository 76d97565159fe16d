package game

import "taskquest/internal/model"

// PriorityPoints maps a task priority to the XP awarded on completion.
// The reward is fixed at task creation and never recomputed.
var PriorityPoints = map[model.Priority]int{
	model.PriorityLow:    5,
	model.PriorityMedium: 10,
	model.PriorityHigh:   20,
}

// LevelThresholds lists the cumulative points needed to reach each level.
var LevelThresholds = []int{0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 3000}

// CalculateLevel maps points to a level: the count of thresholds at or below
// the given point total.
func CalculateLevel(points int) int {
	level := 1
	for i := 1; i < len(LevelThresholds); i++ {
		if points >= LevelThresholds[i] {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// PointsForNextLevel returns how many more points are needed to level up,
// or 0 at max level.
func PointsForNextLevel(level, points int) int {
	if level >= len(LevelThresholds) {
		return 0
	}
	return LevelThresholds[level] - points
}

// LevelProgressPercent returns the progress through the current level as an
// integer percentage, clamped to 100 at max level.
func LevelProgressPercent(level, points int) int {
	if level >= len(LevelThresholds) {
		return 100
	}
	prev := LevelThresholds[level-1]
	next := LevelThresholds[level]
	pct := (points - prev) * 100 / (next - prev)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
