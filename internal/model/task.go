package model

import "time"

// Priority classifies how important a task is and fixes its XP reward.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// RecurrenceType is the unit of a recurring habit's interval.
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

// Valid reports whether rt is one of the known recurrence units.
func (rt RecurrenceType) Valid() bool {
	return rt == RecurDaily || rt == RecurWeekly || rt == RecurMonthly
}

// Task represents a single unit of work. Recurring habits are stored as a
// flattened recurrence policy on the task row itself; all instances of one
// habit share a RecurringGroupID assigned when the first instance is created.
type Task struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Title       string
	Description string
	Category    string `gorm:"index"`
	Priority    Priority
	Points      int
	Completed   bool `gorm:"default:false"`
	CompletedAt *time.Time
	CreatedAt   time.Time

	RecurringType        RecurrenceType
	RecurringInterval    int
	RecurringGroupID     string `gorm:"index"`
	TotalRepetitions     int // 0 means unbounded
	CompletedRepetitions int
	LastCompletedAt      *time.Time
	NextDueAt            *time.Time
	EndDate              *time.Time
}

// IsRecurring reports whether the task carries a recurrence policy.
func (t *Task) IsRecurring() bool {
	return t.RecurringType != ""
}

// NextOccurrence advances from by one recurrence interval. Monthly uses
// calendar month arithmetic, not a fixed 30-day approximation.
func (t *Task) NextOccurrence(from time.Time) time.Time {
	switch t.RecurringType {
	case RecurDaily:
		return from.AddDate(0, 0, t.RecurringInterval)
	case RecurWeekly:
		return from.AddDate(0, 0, t.RecurringInterval*7)
	case RecurMonthly:
		return from.AddDate(0, t.RecurringInterval, 0)
	default:
		return from
	}
}

// EstimateEndDate computes the planned end of a bounded habit journey started
// at start. Monthly intervals are approximated as 30 days here, unlike
// NextOccurrence; the two deliberately disagree, matching the behavior the
// habit form always had.
func (t *Task) EstimateEndDate(start time.Time) *time.Time {
	if t.TotalRepetitions <= 0 {
		return nil
	}
	var totalDays int
	switch t.RecurringType {
	case RecurDaily:
		totalDays = (t.TotalRepetitions - 1) * t.RecurringInterval
	case RecurWeekly:
		totalDays = (t.TotalRepetitions - 1) * t.RecurringInterval * 7
	case RecurMonthly:
		totalDays = (t.TotalRepetitions - 1) * t.RecurringInterval * 30
	default:
		return nil
	}
	end := start.AddDate(0, 0, totalDays)
	return &end
}
