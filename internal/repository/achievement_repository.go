package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskquest/internal/model"
)

// AchievementRepository is the remote achievement store. Only progress rows
// are persisted; catalog metadata stays local.
type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]model.AchievementProgress, error) {
	var rows []model.AchievementProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return rows, nil
}

func (r *AchievementRepository) UpsertProgress(ctx context.Context, rows []model.AchievementProgress) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("upsert achievements: %w", err)
	}
	return nil
}
