package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/model"
)

func findAchievement(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in list", id)
	return Achievement{}
}

func completedTask(priority model.Priority, category string, at time.Time) model.Task {
	return model.Task{
		ID:          "t1",
		Title:       "test",
		Category:    category,
		Priority:    priority,
		Completed:   true,
		CompletedAt: &at,
	}
}

func TestEvaluateUnlocksOnce(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	achievements := Catalog()
	stats := model.GameStats{TasksCompleted: 1}
	task := completedTask(model.PriorityMedium, "general", now)

	updated, unlocked := Evaluate(achievements, stats, task, now)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first-task", unlocked[0].ID)
	assert.True(t, findAchievement(t, updated, "first-task").Unlocked)

	// Same inputs again: nothing unlocks a second time.
	_, again := Evaluate(updated, stats, task, now)
	assert.Empty(t, again)
}

func TestEvaluateCategoryAndPriorityCounters(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.Local) // Monday
	achievements := Catalog()
	task := completedTask(model.PriorityHigh, "work", now)
	stats := model.GameStats{TasksCompleted: 1}

	updated, _ := Evaluate(achievements, stats, task, now)
	assert.Equal(t, 1, findAchievement(t, updated, "work-specialist").CurrentValue)
	assert.Equal(t, 1, findAchievement(t, updated, "high-priority-master").CurrentValue)
	assert.Equal(t, 0, findAchievement(t, updated, "health-guru").CurrentValue)
}

func TestEvaluateTimeOfDayFlags(t *testing.T) {
	early := time.Date(2025, 6, 16, 7, 30, 0, 0, time.Local)
	late := time.Date(2025, 6, 16, 22, 30, 0, 0, time.Local)
	stats := model.GameStats{TasksCompleted: 1}

	updated, _ := Evaluate(Catalog(), stats, completedTask(model.PriorityLow, "general", early), early)
	assert.True(t, findAchievement(t, updated, "early-bird").Unlocked)
	assert.False(t, findAchievement(t, updated, "night-owl").Unlocked)

	updated, _ = Evaluate(Catalog(), stats, completedTask(model.PriorityLow, "general", late), late)
	assert.True(t, findAchievement(t, updated, "night-owl").Unlocked)
}

func TestEvaluateWeekendCounter(t *testing.T) {
	saturday := time.Date(2025, 6, 14, 12, 0, 0, 0, time.Local)
	require.Equal(t, time.Saturday, saturday.Weekday())

	updated, _ := Evaluate(Catalog(), model.GameStats{TasksCompleted: 1}, completedTask(model.PriorityLow, "general", saturday), saturday)
	assert.Equal(t, 1, findAchievement(t, updated, "weekend-warrior").CurrentValue)
}

func TestRevertRecomputesAndRelocks(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	achievements := Catalog()
	task := completedTask(model.PriorityMedium, "general", now)

	// One completion unlocks first-task.
	updated, _ := Evaluate(achievements, model.GameStats{TasksCompleted: 1}, task, now)
	require.True(t, findAchievement(t, updated, "first-task").Unlocked)

	// Undo rolls the count back to zero: the unlock is revoked. Surprising,
	// but the display must agree with the stats it is derived from.
	reverted := Revert(updated, model.GameStats{TasksCompleted: 0})
	first := findAchievement(t, reverted, "first-task")
	assert.False(t, first.Unlocked)
	assert.Equal(t, 0, first.CurrentValue)
}

func TestRevertAfterNCompletionsAndOneUndo(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	achievements := Catalog()
	task := completedTask(model.PriorityMedium, "general", now)

	const n = 5
	for i := 1; i <= n; i++ {
		achievements, _ = Evaluate(achievements, model.GameStats{TasksCompleted: i}, task, now)
	}
	achievements = Revert(achievements, model.GameStats{TasksCompleted: n - 1})

	assert.Equal(t, n-1, findAchievement(t, achievements, "first-task").CurrentValue)
	assert.Equal(t, n-1, findAchievement(t, achievements, "task-5").CurrentValue)
	assert.False(t, findAchievement(t, achievements, "task-5").Unlocked)
}

func TestRevertLeavesIncrementalCountersAlone(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.Local)
	updated, _ := Evaluate(Catalog(), model.GameStats{TasksCompleted: 1}, completedTask(model.PriorityHigh, "work", now), now)
	require.Equal(t, 1, findAchievement(t, updated, "work-specialist").CurrentValue)

	reverted := Revert(updated, model.GameStats{})
	assert.Equal(t, 1, findAchievement(t, reverted, "work-specialist").CurrentValue,
		"incremental counters cannot be rebuilt from stats and stay put")
}

func TestMergeProgress(t *testing.T) {
	rows := []model.AchievementProgress{
		{AchievementID: "task-5", CurrentValue: 3},
		{AchievementID: "streak-7", CurrentValue: 7, Unlocked: true},
		{AchievementID: "no-such-id", CurrentValue: 99},
	}
	merged := MergeProgress(rows)

	assert.Equal(t, 3, findAchievement(t, merged, "task-5").CurrentValue)
	assert.True(t, findAchievement(t, merged, "streak-7").Unlocked)
	assert.Equal(t, "Week Warrior", findAchievement(t, merged, "streak-7").Name,
		"catalog metadata comes from the local catalog, not from rows")
	assert.Len(t, merged, len(Catalog()))
}
