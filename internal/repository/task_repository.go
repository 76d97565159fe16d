package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskquest/internal/model"
)

// TaskRepository is the remote task store: a mirror of each session's
// in-memory tasks, written best-effort and read back at sign-in.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByUser returns every task row for the user, oldest first, so a
// reloaded session sees tasks in their original insertion order.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ReplaceForUser makes the remote rows match the given snapshot: upserts every
// task and deletes rows the snapshot no longer contains. Without the delete,
// locally removed tasks would resurrect on the next load.
func (r *TaskRepository) ReplaceForUser(ctx context.Context, userID string, tasks []model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(tasks) == 0 {
			return tx.Where("user_id = ?", userID).Delete(&model.Task{}).Error
		}
		ids := make([]string, len(tasks))
		for i, t := range tasks {
			ids[i] = t.ID
		}
		if err := tx.Where("user_id = ? AND id NOT IN ?", userID, ids).
			Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&tasks).Error
	})
	if err != nil {
		return fmt.Errorf("replace tasks: %w", err)
	}
	return nil
}
