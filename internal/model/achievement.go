package model

import "time"

// AchievementProgress is the per-user progress row for one achievement.
// Only progress is persisted; names, descriptions and thresholds live in the
// local catalog and are merged back in at load time.
type AchievementProgress struct {
	UserID        string `gorm:"primaryKey"`
	AchievementID string `gorm:"primaryKey"`
	CurrentValue  int
	Unlocked      bool
	UpdatedAt     time.Time
}
