package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskquest/internal/model"
)

// StatsRepository is the remote game stats store.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetByUser returns the user's stats row, or nil if none exists yet.
func (r *StatsRepository) GetByUser(ctx context.Context, userID string) (*model.GameStats, error) {
	var stats model.GameStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	switch {
	case err == nil:
		return &stats, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("get stats: %w", err)
	}
}

// Upsert writes the stats row, creating it on first sync.
func (r *StatsRepository) Upsert(ctx context.Context, stats model.GameStats) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&stats).Error; err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}
