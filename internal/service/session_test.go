package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskquest/internal/game"
	"taskquest/internal/model"
)

func newTestSession(now time.Time) *Session {
	ses := NewSession("user-1", nil)
	ses.Clock = func() time.Time { return now }
	return ses
}

func TestAddTaskDefaults(t *testing.T) {
	ses := newTestSession(time.Now())

	task, err := ses.AddTask(TaskInput{Title: "write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "general", task.Category)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, 10, task.Points)
	assert.False(t, task.IsRecurring())

	_, err = ses.AddTask(TaskInput{})
	assert.Error(t, err, "empty title is rejected")
}

func TestAddRecurringTaskAssignsGroupAndEndDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	ses := newTestSession(now)

	task, err := ses.AddTask(TaskInput{
		Title:    "morning run",
		Category: "health",
		Priority: model.PriorityHigh,
		Recurring: &RecurrenceInput{
			Type:             model.RecurDaily,
			Interval:         1,
			TotalRepetitions: 7,
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.RecurringGroupID)
	require.NotNil(t, task.EndDate)
	// 7 daily repetitions starting today span 6 further days.
	assert.Equal(t, now.AddDate(0, 0, 6), *task.EndDate)
	assert.Nil(t, task.NextDueAt, "due date appears only after the first completion")
}

func TestCompleteUndoRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	ses := newTestSession(now)

	task, err := ses.AddTask(TaskInput{Title: "deep work", Priority: model.PriorityHigh})
	require.NoError(t, err)

	before := ses.Stats()

	_, err = ses.CompleteTask(task.ID)
	require.NoError(t, err)
	afterComplete := ses.Stats()
	assert.Equal(t, before.TotalPoints+20, afterComplete.TotalPoints)
	assert.Equal(t, before.TasksCompleted+1, afterComplete.TasksCompleted)

	_, err = ses.UndoTask(task.ID)
	require.NoError(t, err)

	after := ses.Stats()
	assert.Equal(t, before.CurrentPoints, after.CurrentPoints)
	assert.Equal(t, before.TotalPoints, after.TotalPoints)
	assert.Equal(t, before.TasksCompleted, after.TasksCompleted)
	assert.Equal(t, before.Level, after.Level)
}

func TestCompleteHighPriorityExtendsStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	ses := newTestSession(now)
	ses.Load(nil, &model.GameStats{
		UserID:            "user-1",
		Level:             1,
		Streak:            4,
		LastCompletedDate: "2025-06-14",
	}, nil)

	task, err := ses.AddTask(TaskInput{Title: "ship feature", Priority: model.PriorityHigh})
	require.NoError(t, err)
	_, err = ses.CompleteTask(task.ID)
	require.NoError(t, err)

	stats := ses.Stats()
	assert.Equal(t, 5, stats.Streak)
	assert.Equal(t, 20, stats.TotalPoints)
	assert.Equal(t, game.CalculateLevel(stats.CurrentPoints), stats.Level)
}

func TestCompleteRecurringAdvancesPolicy(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
	ses := newTestSession(now)

	task, err := ses.AddTask(TaskInput{
		Title:     "stretch",
		Recurring: &RecurrenceInput{Type: model.RecurWeekly, Interval: 2},
	})
	require.NoError(t, err)

	done, err := ses.CompleteTask(task.ID)
	require.NoError(t, err)

	require.NotNil(t, done.NextDueAt)
	assert.Equal(t, now.AddDate(0, 0, 14), *done.NextDueAt)
	assert.Equal(t, 1, done.CompletedRepetitions)
	require.NotNil(t, done.LastCompletedAt)
	assert.Equal(t, now, *done.LastCompletedAt)
}

func TestUndoFloorsAtZero(t *testing.T) {
	now := time.Now()
	ses := newTestSession(now)

	task, err := ses.AddTask(TaskInput{Title: "tiny", Priority: model.PriorityLow})
	require.NoError(t, err)
	_, err = ses.CompleteTask(task.ID)
	require.NoError(t, err)
	_, err = ses.UndoTask(task.ID)
	require.NoError(t, err)

	// Undoing again is rejected rather than driving stats negative.
	_, err = ses.UndoTask(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotCompleted)

	stats := ses.Stats()
	assert.GreaterOrEqual(t, stats.CurrentPoints, 0)
	assert.GreaterOrEqual(t, stats.TasksCompleted, 0)
}

func TestCompleteTwiceRejected(t *testing.T) {
	ses := newTestSession(time.Now())
	task, err := ses.AddTask(TaskInput{Title: "once"})
	require.NoError(t, err)

	_, err = ses.CompleteTask(task.ID)
	require.NoError(t, err)
	_, err = ses.CompleteTask(task.ID)
	assert.ErrorIs(t, err, ErrTaskCompleted)
}

func TestFilterTasks(t *testing.T) {
	ses := newTestSession(time.Now())

	work, err := ses.AddTask(TaskInput{Title: "work thing", Category: "work"})
	require.NoError(t, err)
	_, err = ses.AddTask(TaskInput{Title: "health thing", Category: "health"})
	require.NoError(t, err)
	_, err = ses.CompleteTask(work.ID)
	require.NoError(t, err)

	assert.Len(t, ses.FilterTasks("", false), 1, "completed tasks hidden by default")
	assert.Len(t, ses.FilterTasks("", true), 2)
	assert.Len(t, ses.FilterTasks("all", true), 2)
	assert.Len(t, ses.FilterTasks("work", true), 1)
	assert.Len(t, ses.FilterTasks("work", false), 0)
}

func TestLevelUpAndLevelDownNotifications(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	ses := newTestSession(now)
	ses.Load(nil, &model.GameStats{UserID: "user-1", Level: 1, CurrentPoints: 90, TotalPoints: 90}, nil)

	task, err := ses.AddTask(TaskInput{Title: "level me", Priority: model.PriorityHigh})
	require.NoError(t, err)
	_, err = ses.CompleteTask(task.ID)
	require.NoError(t, err)

	require.Equal(t, 2, ses.Stats().Level)
	assert.True(t, hasNotification(ses, game.NotifyLevel))

	_, err = ses.UndoTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, ses.Stats().Level, "undo can level down")
}

func hasNotification(ses *Session, kind game.NotificationType) bool {
	for _, n := range ses.Notifications() {
		if n.Type == kind {
			return true
		}
	}
	return false
}

func TestBalancedAchieverCountsEveryPriority(t *testing.T) {
	ses := newTestSession(time.Now())

	complete := func(p model.Priority, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			task, err := ses.AddTask(TaskInput{Title: "task", Priority: p})
			require.NoError(t, err)
			_, err = ses.CompleteTask(task.ID)
			require.NoError(t, err)
		}
	}

	complete(model.PriorityLow, 5)
	complete(model.PriorityMedium, 5)
	complete(model.PriorityHigh, 4)
	require.False(t, findByID(t, ses.Achievements(), "balanced-achiever").Unlocked)

	complete(model.PriorityHigh, 1)
	balanced := findByID(t, ses.Achievements(), "balanced-achiever")
	assert.True(t, balanced.Unlocked)
	assert.Equal(t, 15, balanced.CurrentValue)

	// Extra completions in one priority do not inflate the counter.
	complete(model.PriorityHigh, 3)
	assert.Equal(t, 15, findByID(t, ses.Achievements(), "balanced-achiever").CurrentValue)
}

func findByID(t *testing.T, list []game.Achievement, id string) game.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in list", id)
	return game.Achievement{}
}

func TestDeleteTask(t *testing.T) {
	ses := newTestSession(time.Now())
	task, err := ses.AddTask(TaskInput{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, ses.DeleteTask(task.ID))
	assert.ErrorIs(t, ses.DeleteTask(task.ID), ErrTaskNotFound)
	assert.Empty(t, ses.Tasks())
}
