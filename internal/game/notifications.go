package game

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType names the event a notification reports.
type NotificationType string

const (
	NotifyPoints      NotificationType = "points"
	NotifyLevel       NotificationType = "level"
	NotifyAchievement NotificationType = "achievement"
	NotifyStreak      NotificationType = "streak"

	NotifyNewRecurring    NotificationType = "new_recurring"
	NotifyStreakMilestone NotificationType = "streak_milestone"
	NotifyHabitReminder   NotificationType = "habit_reminder"
	NotifyCelebration     NotificationType = "completion_celebration"
)

// Notification is one user-facing event.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Points    int              `json:"points,omitempty"`
	Level     int              `json:"level,omitempty"`
	TaskID    string           `json:"taskId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// DismissAfter returns how long a notification of the given type stays
// visible before auto-expiry. Rarer, more significant events linger longer.
func DismissAfter(t NotificationType) time.Duration {
	switch t {
	case NotifyLevel:
		return 12 * time.Second
	case NotifyAchievement, NotifyCelebration:
		return 8 * time.Second
	case NotifyStreak, NotifyStreakMilestone:
		return 6 * time.Second
	default:
		return 5 * time.Second
	}
}

// NotificationQueue is a bounded FIFO of notifications. Pushing beyond
// capacity evicts the oldest entry; dismissed or expired entries are gone
// for good, there is no replay.
type NotificationQueue struct {
	capacity int
	items    []Notification
}

// DefaultQueueCapacity bounds how many notifications are shown at once.
const DefaultQueueCapacity = 5

// NewNotificationQueue builds a queue holding at most capacity entries.
func NewNotificationQueue(capacity int) *NotificationQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &NotificationQueue{capacity: capacity}
}

// Push enqueues a notification, filling in its id, creation time and expiry
// deadline when unset.
func (q *NotificationQueue) Push(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.ExpiresAt.IsZero() {
		n.ExpiresAt = n.CreatedAt.Add(DismissAfter(n.Type))
	}
	q.items = append(q.items, n)
	if len(q.items) > q.capacity {
		q.items = q.items[len(q.items)-q.capacity:]
	}
	return n
}

// Dismiss removes the notification with the given id.
func (q *NotificationQueue) Dismiss(id string) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether an entry of the given type for the given task is
// still queued.
func (q *NotificationQueue) Has(t NotificationType, taskID string) bool {
	for _, n := range q.items {
		if n.Type == t && n.TaskID == taskID {
			return true
		}
	}
	return false
}

// Expire drops every notification whose deadline has passed.
func (q *NotificationQueue) Expire(now time.Time) {
	kept := q.items[:0]
	for _, n := range q.items {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	q.items = kept
}

// Items returns a copy of the queue contents, oldest first.
func (q *NotificationQueue) Items() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len reports the number of queued notifications.
func (q *NotificationQueue) Len() int {
	return len(q.items)
}
