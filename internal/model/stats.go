package model

import "time"

// GameStats is the aggregate per-user progress row.
// LastCompletedDate is a date-only string (YYYY-MM-DD); streak comparisons
// are calendar-date based, never timestamp based.
type GameStats struct {
	UserID            string `gorm:"primaryKey"`
	Level             int
	CurrentPoints     int
	TotalPoints       int
	TasksCompleted    int
	Streak            int
	LastCompletedDate string
	UpdatedAt         time.Time
}

// DefaultStats returns the stats a brand-new user starts with.
func DefaultStats(userID string) GameStats {
	return GameStats{UserID: userID, Level: 1}
}
