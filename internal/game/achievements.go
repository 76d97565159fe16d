package game

import (
	"time"

	"taskquest/internal/model"
)

// ruleKind selects how an achievement's progress counter is computed.
type ruleKind int

const (
	// recomputed from aggregate stats on every evaluation and on revert
	ruleTaskCount ruleKind = iota
	ruleStreak
	ruleXP
	// incremented when the triggering task matches; these counters cannot be
	// recomputed from stats alone, so revert leaves them untouched
	ruleDailyCount
	ruleCategory
	rulePriority
	ruleEarlyBird
	ruleNightOwl
	ruleWeekend
	ruleRecurring
	// progress pinned externally via SetProgress; evaluation never changes it
	ruleManual
)

// Achievement is a named milestone plus the user's progress toward it.
// Catalog metadata (name, description, icon) is never persisted remotely;
// only CurrentValue and Unlocked travel through the achievement store.
type Achievement struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Category      string `json:"category"`
	RequiredValue int    `json:"requiredValue"`
	CurrentValue  int    `json:"currentValue"`
	Unlocked      bool   `json:"unlocked"`

	kind  ruleKind
	param string
}

// Catalog returns a fresh copy of the full achievement catalog with zero
// progress. Callers own the returned slice.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

var catalog = []Achievement{
	{ID: "first-task", Name: "First Steps", Description: "Complete your first task and begin your productivity journey", Icon: "award", Category: "beginner", RequiredValue: 1, kind: ruleTaskCount},
	{ID: "task-5", Name: "Getting Momentum", Description: "Complete 5 tasks - you're building great habits!", Icon: "target", Category: "beginner", RequiredValue: 5, kind: ruleTaskCount},
	{ID: "task-master", Name: "Task Master", Description: "Complete 10 tasks and prove your dedication", Icon: "trophy", Category: "beginner", RequiredValue: 10, kind: ruleTaskCount},
	{ID: "task-25", Name: "Quarter Century", Description: "Complete 25 tasks - you're becoming unstoppable!", Icon: "star", Category: "intermediate", RequiredValue: 25, kind: ruleTaskCount},
	{ID: "task-50", Name: "Half Century Hero", Description: "Complete 50 tasks - incredible dedication!", Icon: "crown", Category: "intermediate", RequiredValue: 50, kind: ruleTaskCount},
	{ID: "task-100", Name: "Centurion", Description: "Complete 100 tasks - you're a productivity legend!", Icon: "medal", Category: "advanced", RequiredValue: 100, kind: ruleTaskCount},
	{ID: "task-250", Name: "Task Titan", Description: "Complete 250 tasks - absolutely extraordinary!", Icon: "gem", Category: "expert", RequiredValue: 250, kind: ruleTaskCount},
	{ID: "task-500", Name: "Productivity God", Description: "Complete 500 tasks - divine level achievement!", Icon: "sparkles", Category: "legendary", RequiredValue: 500, kind: ruleTaskCount},

	{ID: "productive-day", Name: "Productivity Powerhouse", Description: "Complete 5 tasks in a single day - show your focus!", Icon: "zap", Category: "daily", RequiredValue: 5, kind: ruleDailyCount},
	{ID: "super-productive-day", Name: "Super Productive Day", Description: "Complete 10 tasks in a single day - incredible focus!", Icon: "lightning", Category: "daily", RequiredValue: 10, kind: ruleDailyCount},
	{ID: "mega-productive-day", Name: "Mega Productive Day", Description: "Complete 15 tasks in a single day - you're on fire!", Icon: "flame", Category: "daily", RequiredValue: 15, kind: ruleDailyCount},

	{ID: "streak-3", Name: "Consistency Champion", Description: "Maintain a 3-day streak and build lasting habits", Icon: "flame", Category: "streak", RequiredValue: 3, kind: ruleStreak},
	{ID: "streak-7", Name: "Week Warrior", Description: "Maintain a 7-day streak - you're unstoppable!", Icon: "star", Category: "streak", RequiredValue: 7, kind: ruleStreak},
	{ID: "streak-14", Name: "Fortnight Fighter", Description: "Maintain a 14-day streak - building serious momentum!", Icon: "trending-up", Category: "streak", RequiredValue: 14, kind: ruleStreak},
	{ID: "streak-21", Name: "Habit Former", Description: "Maintain a 21-day streak - habits are forming!", Icon: "repeat", Category: "streak", RequiredValue: 21, kind: ruleStreak},
	{ID: "streak-30", Name: "Monthly Master", Description: "Maintain a 30-day streak - incredible dedication!", Icon: "calendar", Category: "streak", RequiredValue: 30, kind: ruleStreak},
	{ID: "streak-45", Name: "Persistence Pro", Description: "Maintain a 45-day streak - you're in the zone!", Icon: "target", Category: "streak", RequiredValue: 45, kind: ruleStreak},
	{ID: "streak-60", Name: "Diamond Dedication", Description: "Maintain a 60-day streak - diamond-level commitment!", Icon: "gem", Category: "streak", RequiredValue: 60, kind: ruleStreak},
	{ID: "streak-66", Name: "Habit Master Supreme", Description: "Maintain a 66-day streak - scientifically proven habit formation!", Icon: "crown", Category: "streak", RequiredValue: 66, kind: ruleStreak},
	{ID: "streak-100", Name: "Centurion Streaker", Description: "Maintain a 100-day streak - legendary consistency!", Icon: "trophy", Category: "streak", RequiredValue: 100, kind: ruleStreak},

	{ID: "work-specialist", Name: "Work Warrior", Description: "Complete 25 work-related tasks", Icon: "briefcase", Category: "specialist", RequiredValue: 25, kind: ruleCategory, param: "work"},
	{ID: "health-guru", Name: "Health Guru", Description: "Complete 25 health-related tasks", Icon: "heart", Category: "specialist", RequiredValue: 25, kind: ruleCategory, param: "health"},
	{ID: "learning-enthusiast", Name: "Learning Enthusiast", Description: "Complete 25 education-related tasks", Icon: "book", Category: "specialist", RequiredValue: 25, kind: ruleCategory, param: "education"},
	{ID: "personal-champion", Name: "Personal Champion", Description: "Complete 25 personal development tasks", Icon: "user", Category: "specialist", RequiredValue: 25, kind: ruleCategory, param: "personal"},

	{ID: "high-priority-master", Name: "High Priority Master", Description: "Complete 20 high-priority tasks", Icon: "alert-triangle", Category: "priority", RequiredValue: 20, kind: rulePriority, param: "high"},
	{ID: "balanced-achiever", Name: "Balanced Achiever", Description: "Complete tasks in all priority levels (5 each)", Icon: "scale", Category: "priority", RequiredValue: 15, kind: ruleManual},

	{ID: "xp-500", Name: "XP Collector", Description: "Earn 500 total XP", Icon: "coins", Category: "xp", RequiredValue: 500, kind: ruleXP},
	{ID: "xp-1000", Name: "XP Hoarder", Description: "Earn 1,000 total XP", Icon: "dollar-sign", Category: "xp", RequiredValue: 1000, kind: ruleXP},
	{ID: "xp-2500", Name: "XP Millionaire", Description: "Earn 2,500 total XP", Icon: "banknote", Category: "xp", RequiredValue: 2500, kind: ruleXP},
	{ID: "xp-5000", Name: "XP Tycoon", Description: "Earn 5,000 total XP - incredible wealth!", Icon: "landmark", Category: "xp", RequiredValue: 5000, kind: ruleXP},

	{ID: "early-bird", Name: "Early Bird", Description: "Complete a task before 8 AM", Icon: "sunrise", Category: "special", RequiredValue: 1, kind: ruleEarlyBird},
	{ID: "night-owl", Name: "Night Owl", Description: "Complete a task after 10 PM", Icon: "moon", Category: "special", RequiredValue: 1, kind: ruleNightOwl},
	{ID: "weekend-warrior", Name: "Weekend Warrior", Description: "Complete 10 tasks on weekends", Icon: "calendar-days", Category: "special", RequiredValue: 10, kind: ruleWeekend},
	{ID: "recurring-master", Name: "Recurring Master", Description: "Complete 5 different recurring habits", Icon: "repeat", Category: "special", RequiredValue: 5, kind: ruleRecurring},
}

// Evaluate recomputes progress after a completion and returns the updated
// slice plus any achievements that unlocked on this evaluation. An unlock
// happens exactly once, when the counter crosses its threshold from below;
// re-evaluating unchanged inputs unlocks nothing new.
func Evaluate(achievements []Achievement, stats model.GameStats, task model.Task, now time.Time) ([]Achievement, []Achievement) {
	updated := make([]Achievement, len(achievements))
	copy(updated, achievements)

	var unlocked []Achievement
	for i := range updated {
		a := &updated[i]
		a.CurrentValue = nextValue(*a, stats, task, now)
		if !a.Unlocked && a.CurrentValue >= a.RequiredValue {
			a.Unlocked = true
			unlocked = append(unlocked, *a)
		}
	}
	return updated, unlocked
}

func nextValue(a Achievement, stats model.GameStats, task model.Task, now time.Time) int {
	switch a.kind {
	case ruleTaskCount:
		return stats.TasksCompleted
	case ruleStreak:
		return stats.Streak
	case ruleXP:
		return stats.TotalPoints
	case ruleDailyCount:
		if task.CompletedAt != nil && task.CompletedAt.Format(DateLayout) == now.Format(DateLayout) {
			return a.CurrentValue + 1
		}
	case ruleCategory:
		if task.Category == a.param {
			return a.CurrentValue + 1
		}
	case rulePriority:
		if string(task.Priority) == a.param {
			return a.CurrentValue + 1
		}
	case ruleEarlyBird:
		if task.CompletedAt != nil && task.CompletedAt.Hour() < 8 {
			return 1
		}
	case ruleNightOwl:
		if task.CompletedAt != nil && task.CompletedAt.Hour() >= 22 {
			return 1
		}
	case ruleWeekend:
		if task.CompletedAt != nil {
			if wd := task.CompletedAt.Weekday(); wd == time.Saturday || wd == time.Sunday {
				return a.CurrentValue + 1
			}
		}
	case ruleRecurring:
		if task.IsRecurring() {
			return a.CurrentValue + 1
		}
	}
	return a.CurrentValue
}

// Revert recomputes achievements from rolled-back stats after an undo.
// Counters derivable from aggregates (task counts, streaks, XP) are
// recomputed and may re-lock an achievement whose basis fell back below its
// threshold; unlock is deliberately reversible here so the display never
// disagrees with the stats it is based on. Incremental counters (daily,
// category, priority, time-of-day, weekend, recurring) cannot be rebuilt
// from stats alone and are left as they are.
func Revert(achievements []Achievement, stats model.GameStats) []Achievement {
	updated := make([]Achievement, len(achievements))
	copy(updated, achievements)

	for i := range updated {
		a := &updated[i]
		switch a.kind {
		case ruleTaskCount:
			a.CurrentValue = stats.TasksCompleted
		case ruleStreak:
			a.CurrentValue = stats.Streak
		case ruleXP:
			a.CurrentValue = stats.TotalPoints
		default:
			continue
		}
		a.Unlocked = a.CurrentValue >= a.RequiredValue
	}
	return updated
}

// SetProgress pins one achievement's counter to an externally computed value,
// for rules whose basis lives outside the evaluator (the balanced-priority
// count is derived from the whole task list). The unlock flag follows the
// value in both directions. Reports whether this call crossed the threshold
// from below.
func SetProgress(achievements []Achievement, id string, value int) (Achievement, bool) {
	for i := range achievements {
		a := &achievements[i]
		if a.ID != id {
			continue
		}
		wasUnlocked := a.Unlocked
		a.CurrentValue = value
		a.Unlocked = value >= a.RequiredValue
		return *a, a.Unlocked && !wasUnlocked
	}
	return Achievement{}, false
}

// MergeProgress overlays persisted progress rows onto a fresh catalog copy.
// Rows referencing unknown achievement ids are ignored.
func MergeProgress(rows []model.AchievementProgress) []Achievement {
	merged := Catalog()
	byID := make(map[string]*Achievement, len(merged))
	for i := range merged {
		byID[merged[i].ID] = &merged[i]
	}
	for _, row := range rows {
		if a, ok := byID[row.AchievementID]; ok {
			a.CurrentValue = row.CurrentValue
			a.Unlocked = row.Unlocked
		}
	}
	return merged
}
