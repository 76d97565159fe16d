package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskquest/internal/game"
	"taskquest/internal/model"
)

var (
	// ErrTaskNotFound is returned when no task matches the id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskCompleted is returned when completing an already-completed task.
	ErrTaskCompleted = errors.New("task already completed")
	// ErrTaskNotCompleted is returned when undoing a task that is not done.
	ErrTaskNotCompleted = errors.New("task is not completed")
)

// TaskInput is the data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    model.Priority
	Recurring   *RecurrenceInput
}

// RecurrenceInput describes the habit policy of a new recurring task.
type RecurrenceInput struct {
	Type             model.RecurrenceType
	Interval         int
	TotalRepetitions int
}

// TaskUpdate carries partial updates; nil fields are left unchanged.
// Points are fixed at creation and never recomputed, even when the
// priority changes.
type TaskUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *model.Priority
}

// Session owns all local state for one signed-in user: tasks, game stats,
// achievements and the notification queue. Local state is the source of
// truth; every mutation applies here first and only then is mirrored to the
// remote stores through the outbox. One Session exists per active user and
// is destroyed at sign-out.
type Session struct {
	mu            sync.Mutex
	userID        string
	tasks         []model.Task
	stats         model.GameStats
	achievements  []game.Achievement
	notifications *game.NotificationQueue
	outbox        *Outbox

	// Clock supplies the current time; tests override it.
	Clock func() time.Time
}

// NewSession builds an empty session for the user. The outbox may be nil,
// in which case nothing is mirrored remotely.
func NewSession(userID string, outbox *Outbox) *Session {
	s := &Session{
		userID:        userID,
		stats:         model.DefaultStats(userID),
		achievements:  game.Catalog(),
		notifications: game.NewNotificationQueue(game.DefaultQueueCapacity),
		outbox:        outbox,
		Clock:         time.Now,
	}
	if outbox != nil {
		outbox.SetSource(s.Snapshot)
	}
	return s
}

// UserID returns the owning user's id.
func (s *Session) UserID() string {
	return s.userID
}

// Load replaces session state with rows pulled from the remote stores.
// Callers run Reconcile afterwards; the staleness pass must see the loaded
// rows before the generation scan does.
func (s *Session) Load(tasks []model.Task, stats *model.GameStats, progress []model.AchievementProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append([]model.Task(nil), tasks...)
	if stats != nil {
		s.stats = *stats
	} else {
		s.stats = model.DefaultStats(s.userID)
	}
	s.achievements = game.MergeProgress(progress)
}

// AddTask creates a task from the input and appends it to the store.
func (s *Session) AddTask(input TaskInput) (model.Task, error) {
	if input.Title == "" {
		return model.Task{}, fmt.Errorf("title is required")
	}
	if input.Category == "" {
		input.Category = "general"
	}
	if !input.Priority.Valid() {
		input.Priority = model.PriorityMedium
	}

	now := s.Clock()
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Points:      game.PriorityPoints[input.Priority],
		CreatedAt:   now,
	}

	if rec := input.Recurring; rec != nil {
		if !rec.Type.Valid() {
			return model.Task{}, fmt.Errorf("invalid recurrence type %q", rec.Type)
		}
		if rec.Interval <= 0 {
			return model.Task{}, fmt.Errorf("recurrence interval must be positive")
		}
		task.RecurringType = rec.Type
		task.RecurringInterval = rec.Interval
		task.RecurringGroupID = uuid.NewString()
		task.TotalRepetitions = rec.TotalRepetitions
		task.EndDate = task.EstimateEndDate(now)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.markDirty(DirtyTasks)
	return task, nil
}

// UpdateTask applies a partial update to the task with the given id.
func (s *Session) UpdateTask(id string, update TaskUpdate) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return model.Task{}, ErrTaskNotFound
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Category != nil {
		task.Category = *update.Category
	}
	if update.Priority != nil && update.Priority.Valid() {
		task.Priority = *update.Priority
	}

	s.markDirtyLocked(DirtyTasks)
	return *task, nil
}

// DeleteTask removes a task from the store.
func (s *Session) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.markDirtyLocked(DirtyTasks)
			return nil
		}
	}
	return ErrTaskNotFound
}

// CompleteTask marks a task done, advances its recurrence bookkeeping and
// runs the full game flow: points, streak, level, achievements and the
// notifications each of those may produce.
func (s *Session) CompleteTask(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return model.Task{}, ErrTaskNotFound
	}
	if task.Completed {
		return model.Task{}, ErrTaskCompleted
	}

	now := s.Clock()
	task.Completed = true
	task.CompletedAt = &now

	if task.IsRecurring() {
		nextDue := task.NextOccurrence(now)
		task.NextDueAt = &nextDue
		task.LastCompletedAt = &now
		task.CompletedRepetitions++
	}

	s.applyCompletionLocked(*task, now)

	s.markDirtyLocked(DirtyTasks | DirtyStats | DirtyAchievements)
	return *task, nil
}

// applyCompletionLocked updates stats, level, streak and achievements for a
// completed task snapshot, enqueueing the matching notifications.
func (s *Session) applyCompletionLocked(task model.Task, now time.Time) {
	earned := game.PriorityPoints[task.Priority]
	prev := s.stats

	s.stats.CurrentPoints += earned
	s.stats.TotalPoints += earned
	s.stats.TasksCompleted++
	s.stats = game.UpdateStreak(s.stats, now)

	if newLevel := game.CalculateLevel(s.stats.CurrentPoints); newLevel > prev.Level {
		s.stats.Level = newLevel
		reward := game.LevelRewardFor(newLevel)
		s.pushLocked(game.Notification{
			Type:    game.NotifyLevel,
			Message: fmt.Sprintf("%s LEVEL %d! You're now a %s!", reward.Medal, newLevel, reward.Nickname),
			Level:   newLevel,
		})
	}

	s.pushLocked(game.Notification{
		Type:    game.NotifyPoints,
		Message: fmt.Sprintf("+%d XP earned!", earned),
		Points:  earned,
	})

	if s.stats.Streak > prev.Streak && s.stats.Streak >= 3 {
		s.pushLocked(game.Notification{
			Type:    game.NotifyStreak,
			Message: game.StreakMessage(s.stats.Streak),
		})
	}

	updated, unlocked := game.Evaluate(s.achievements, s.stats, task, now)
	s.achievements = updated
	for _, a := range unlocked {
		s.pushLocked(game.Notification{
			Type:    game.NotifyAchievement,
			Message: fmt.Sprintf("🏆 Achievement Unlocked: %s!", a.Name),
		})
	}
	s.updateBalancedLocked()
}

// updateBalancedLocked recomputes the balanced-priority counter from the
// task list; the evaluator cannot, it only sees the triggering task.
func (s *Session) updateBalancedLocked() {
	counts := make(map[model.Priority]int)
	for _, t := range s.tasks {
		if t.Completed {
			counts[t.Priority]++
		}
	}
	value := 0
	for _, p := range []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh} {
		value += min(5, counts[p])
	}
	if a, unlocked := game.SetProgress(s.achievements, "balanced-achiever", value); unlocked {
		s.pushLocked(game.Notification{
			Type:    game.NotifyAchievement,
			Message: fmt.Sprintf("🏆 Achievement Unlocked: %s!", a.Name),
		})
	}
}

// UndoTask reverts a completion: the task goes back to pending and points,
// task count, level and achievement progress are rolled back. The streak is
// deliberately not rewound; it only ever resets by missing a day.
func (s *Session) UndoTask(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.findLocked(id)
	if task == nil {
		return model.Task{}, ErrTaskNotFound
	}
	if !task.Completed {
		return model.Task{}, ErrTaskNotCompleted
	}

	snapshot := *task // pre-undo state drives the revert

	task.Completed = false
	task.CompletedAt = nil
	if task.IsRecurring() && task.CompletedRepetitions > 0 {
		task.CompletedRepetitions--
	}

	removed := game.PriorityPoints[snapshot.Priority]
	prevLevel := s.stats.Level

	s.stats.CurrentPoints = max(0, s.stats.CurrentPoints-removed)
	s.stats.TotalPoints = max(0, s.stats.TotalPoints-removed)
	s.stats.TasksCompleted = max(0, s.stats.TasksCompleted-1)
	s.stats.Level = game.CalculateLevel(s.stats.CurrentPoints)

	if s.stats.Level < prevLevel {
		s.pushLocked(game.Notification{
			Type:    game.NotifyLevel,
			Message: fmt.Sprintf("📉 Level decreased to %d", s.stats.Level),
			Level:   s.stats.Level,
		})
	}

	s.pushLocked(game.Notification{
		Type:    game.NotifyPoints,
		Message: fmt.Sprintf("−%d XP (task undone)", removed),
		Points:  -removed,
	})

	s.achievements = game.Revert(s.achievements, s.stats)
	s.updateBalancedLocked()

	s.markDirtyLocked(DirtyTasks | DirtyStats | DirtyAchievements)
	return *task, nil
}

// FilterTasks returns tasks matching the category with completed tasks
// filtered out unless requested. Category "" or "all" matches everything.
// Order follows insertion order.
func (s *Session) FilterTasks(category string, includeCompleted bool) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Task
	for _, t := range s.tasks {
		if !includeCompleted && t.Completed {
			continue
		}
		if category != "" && category != "all" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Tasks returns a copy of every task in the store.
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

// Stats returns the current game stats.
func (s *Session) Stats() model.GameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Achievements returns a copy of the achievement list.
func (s *Session) Achievements() []game.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Achievement(nil), s.achievements...)
}

// Notifications expires stale entries and returns the remaining queue.
func (s *Session) Notifications() []game.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications.Expire(s.Clock())
	return s.notifications.Items()
}

// DismissNotification removes a notification by id.
func (s *Session) DismissNotification(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications.Dismiss(id)
}

// Snapshot returns row copies of the session state for the sync adapter.
func (s *Session) Snapshot() ([]model.Task, model.GameStats, []model.AchievementProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := append([]model.Task(nil), s.tasks...)
	now := s.Clock()
	rows := make([]model.AchievementProgress, len(s.achievements))
	for i, a := range s.achievements {
		rows[i] = model.AchievementProgress{
			UserID:        s.userID,
			AchievementID: a.ID,
			CurrentValue:  a.CurrentValue,
			Unlocked:      a.Unlocked,
			UpdatedAt:     now,
		}
	}
	stats := s.stats
	stats.UpdatedAt = now
	return tasks, stats, rows
}

// Sync marks every tier dirty and flushes to the remote stores right away.
func (s *Session) Sync(ctx context.Context) {
	if s.outbox == nil {
		return
	}
	s.outbox.MarkDirty(DirtyTasks | DirtyStats | DirtyAchievements)
	s.outbox.Flush(ctx)
}

// Online reports whether the last remote push succeeded. Sessions without
// an outbox count as online.
func (s *Session) Online() bool {
	if s.outbox == nil {
		return true
	}
	return s.outbox.Online()
}

func (s *Session) findLocked(id string) *model.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Session) pushLocked(n game.Notification) {
	n.CreatedAt = s.Clock()
	s.notifications.Push(n)
}

func (s *Session) markDirty(kind DirtyKind) {
	if s.outbox != nil {
		s.outbox.MarkDirty(kind)
	}
}

// markDirtyLocked is safe to call under s.mu: the outbox never calls back
// into the session synchronously, it only schedules a debounced flush.
func (s *Session) markDirtyLocked(kind DirtyKind) {
	s.markDirty(kind)
}
