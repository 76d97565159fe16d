package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"taskquest/internal/game"
	"taskquest/internal/model"
)

// Reconcile runs both recurring-task passes in their required order: first
// the coarse staleness reset, then the per-group generation scan. It runs
// once, right after Load: the staleness pass exists to unstick rows that
// went stale while no session was live, and must go first so the two
// passes never race on the same instance. Every decision derives from task
// state alone, so running it twice on unchanged input is a no-op the
// second time.
func (s *Session) Reconcile(now time.Time) {
	stale := s.ReconcileStaleCompletions(now)
	generated := s.ReconcileGeneration(now)
	if stale > 0 || generated > 0 {
		s.markDirty(DirtyTasks)
	}
}

// Scan is the periodic tick: generation only. The staleness reset stays out
// of the tick path on purpose — it shares the nextDue<=now trigger with
// generation and would rewrite a just-due completed instance in place before
// the scan could clone a fresh one.
func (s *Session) Scan(now time.Time) {
	if s.ReconcileGeneration(now) > 0 {
		s.markDirty(DirtyTasks)
	}
}

// ReconcileStaleCompletions force-resets recurring instances that were
// completed long ago and whose due date has since passed: they go back to
// pending with their per-instance repetition count zeroed and a fresh due
// date computed from the old completion (or now, when unknown). This
// unsticks habits that were finished and never revisited. Note it rewrites
// a completed instance in place rather than keeping it as history; the
// generation scan below would instead have cloned a new instance.
func (s *Session) ReconcileStaleCompletions(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset := 0
	for i := range s.tasks {
		t := &s.tasks[i]
		if !t.IsRecurring() || !t.Completed {
			continue
		}
		if t.NextDueAt == nil || t.NextDueAt.After(now) {
			continue
		}

		base := now
		if t.LastCompletedAt != nil {
			base = *t.LastCompletedAt
		}
		nextDue := t.NextOccurrence(base)

		t.Completed = false
		t.CompletedAt = nil
		t.CompletedRepetitions = 0
		t.LastCompletedAt = nil
		t.NextDueAt = &nextDue
		reset++

		log.Printf("reconcile: reset stale habit %q, next due %s", t.Title, nextDue.Format(game.DateLayout))
	}
	return reset
}

// ReconcileGeneration walks every recurring group and, where the journey is
// still ongoing, all instances are complete and the interval has elapsed,
// clones exactly one fresh instance. Completed journeys get a one-time
// celebration, gated on how recently the final completion happened rather
// than on any reconciler-local memory.
func (s *Session) ReconcileGeneration(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	generated := 0
	for _, group := range s.recurringGroupsLocked() {
		if task, notification, ok := s.scanGroupLocked(group, now); ok {
			if task != nil {
				s.tasks = append(s.tasks, *task)
				generated++
			}
			if notification != nil {
				s.pushLocked(*notification)
			}
		}
	}
	return generated
}

// recurringGroupsLocked buckets recurring instances by group id. Instances
// created before group ids existed fall back to the old title+category+
// priority tuple, ambiguous as that correlation is.
func (s *Session) recurringGroupsLocked() map[string][]model.Task {
	groups := make(map[string][]model.Task)
	for _, t := range s.tasks {
		if !t.IsRecurring() {
			continue
		}
		key := t.RecurringGroupID
		if key == "" {
			key = fmt.Sprintf("%s|%s|%s", t.Title, t.Category, t.Priority)
		}
		groups[key] = append(groups[key], t)
	}
	return groups
}

// scanGroupLocked applies the group state machine and returns a new instance
// and/or a notification to emit.
func (s *Session) scanGroupLocked(instances []model.Task, now time.Time) (*model.Task, *game.Notification, bool) {
	// Latest instance first; its policy governs the whole group.
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].CreatedAt.After(instances[j].CreatedAt)
	})
	latest := instances[0]

	var completed []model.Task
	for _, t := range instances {
		if t.Completed {
			completed = append(completed, t)
		}
	}

	totalReps := latest.TotalRepetitions
	completedCount := len(completed)

	// Journey complete: no more instances, celebrate once while the final
	// completion is still fresh.
	if totalReps > 0 && completedCount >= totalReps {
		last := completed[0]
		if last.CompletedAt != nil {
			daysSince := int(now.Sub(*last.CompletedAt).Hours() / 24)
			if daysSince <= 1 && !s.notifications.Has(game.NotifyCelebration, latest.ID) {
				return nil, &game.Notification{
					Type:    game.NotifyCelebration,
					Message: fmt.Sprintf("Habit Journey Complete! You've finished all %d repetitions of %q!", totalReps, latest.Title),
					TaskID:  latest.ID,
				}, true
			}
		}
		return nil, nil, false
	}

	// An active instance means nothing to do; generating here would violate
	// the single-active-instance rule.
	for _, t := range instances {
		if !t.Completed {
			return nil, nil, false
		}
	}
	if completedCount == 0 {
		return nil, nil, false
	}

	lastCompleted := completed[0]
	if lastCompleted.CompletedAt == nil {
		return nil, nil, false
	}

	nextDue := latest.NextOccurrence(*lastCompleted.CompletedAt)
	if now.Before(nextDue) {
		return nil, nil, false
	}
	if latest.EndDate != nil && now.After(*latest.EndDate) {
		// Journey lapsed past its end date: it ends silently.
		return nil, nil, false
	}

	futureDue := latest.NextOccurrence(nextDue)
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      latest.UserID,
		Title:       latest.Title,
		Description: latest.Description,
		Category:    latest.Category,
		Priority:    latest.Priority,
		Points:      latest.Points,
		CreatedAt:   now,

		RecurringType:     latest.RecurringType,
		RecurringInterval: latest.RecurringInterval,
		RecurringGroupID:  latest.RecurringGroupID,
		TotalRepetitions:  latest.TotalRepetitions,
		LastCompletedAt:   lastCompleted.CompletedAt,
		NextDueAt:         &futureDue,
		EndDate:           latest.EndDate,
	}

	var daysLeft int
	if latest.EndDate != nil {
		daysLeft = int((latest.EndDate.Sub(now).Hours() + 23) / 24)
	}

	// One notification per generated instance: milestone beats urgency
	// beats the default.
	var n game.Notification
	switch {
	case completedCount > 0 && completedCount%7 == 0:
		n = game.Notification{
			Type:    game.NotifyStreakMilestone,
			Message: fmt.Sprintf("%d Day Streak! You're building an incredible habit!", completedCount),
			TaskID:  task.ID,
		}
	case latest.EndDate != nil && daysLeft > 0 && daysLeft <= 7:
		n = game.Notification{
			Type:    game.NotifyHabitReminder,
			Message: fmt.Sprintf("Final Sprint! Only %d days left to complete your habit journey!", daysLeft),
			TaskID:  task.ID,
		}
	default:
		n = game.Notification{
			Type:    game.NotifyNewRecurring,
			Message: fmt.Sprintf("Habit Ready! Time to continue building your %q habit", latest.Title),
			TaskID:  task.ID,
		}
	}

	return &task, &n, true
}
