package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskquest/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "taskquest.db"))
	require.NoError(t, err)
	return db
}

func taskRow(id, userID, title string, created time.Time) model.Task {
	return model.Task{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Category:  "general",
		Priority:  model.PriorityMedium,
		Points:    10,
		CreatedAt: created,
	}
}

func TestReplaceForUserMirrorsSnapshot(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	first := taskRow("t1", "u1", "one", base)
	second := taskRow("t2", "u1", "two", base.Add(time.Minute))
	require.NoError(t, repo.ReplaceForUser(ctx, "u1", []model.Task{first, second}))

	rows, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0].Title, "oldest first")

	// Snapshot without t1: the stale row must go away.
	second.Title = "two renamed"
	require.NoError(t, repo.ReplaceForUser(ctx, "u1", []model.Task{second}))

	rows, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "two renamed", rows[0].Title)

	// Empty snapshot clears the user's rows entirely.
	require.NoError(t, repo.ReplaceForUser(ctx, "u1", nil))
	rows, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReplaceForUserScopedToUser(t *testing.T) {
	repo := NewTaskRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.ReplaceForUser(ctx, "u1", []model.Task{taskRow("t1", "u1", "mine", now)}))
	require.NoError(t, repo.ReplaceForUser(ctx, "u2", []model.Task{taskRow("t2", "u2", "theirs", now)}))

	// Replacing u1's rows never touches u2's.
	require.NoError(t, repo.ReplaceForUser(ctx, "u1", nil))
	rows, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStatsUpsert(t *testing.T) {
	repo := NewStatsRepository(newTestDB(t))
	ctx := context.Background()

	got, err := repo.GetByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got, "missing stats are not an error")

	stats := model.DefaultStats("u1")
	stats.TotalPoints = 40
	require.NoError(t, repo.Upsert(ctx, stats))

	stats.TotalPoints = 60
	require.NoError(t, repo.Upsert(ctx, stats))

	got, err = repo.GetByUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 60, got.TotalPoints)
}

func TestAchievementProgressUpsert(t *testing.T) {
	repo := NewAchievementRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertProgress(ctx, nil), "empty batch is a no-op")

	rows := []model.AchievementProgress{
		{UserID: "u1", AchievementID: "first-task", CurrentValue: 1, Unlocked: true, UpdatedAt: time.Now()},
		{UserID: "u1", AchievementID: "task-master", CurrentValue: 1, UpdatedAt: time.Now()},
	}
	require.NoError(t, repo.UpsertProgress(ctx, rows))

	rows[1].CurrentValue = 5
	require.NoError(t, repo.UpsertProgress(ctx, rows))

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
}
