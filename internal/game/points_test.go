package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskquest/internal/model"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{"zero points", 0, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"mid table", 450, 4},
		{"just below threshold", 449, 3},
		{"top threshold", 3000, 10},
		{"beyond top threshold", 9999, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateLevel(tt.points))
		})
	}
}

func TestPointsForNextLevel(t *testing.T) {
	assert.Equal(t, 100, PointsForNextLevel(1, 0))
	assert.Equal(t, 30, PointsForNextLevel(1, 70))
	assert.Equal(t, 150, PointsForNextLevel(2, 100))
	assert.Equal(t, 0, PointsForNextLevel(10, 3000), "max level has no next")
}

func TestLevelProgressPercent(t *testing.T) {
	assert.Equal(t, 0, LevelProgressPercent(1, 0))
	assert.Equal(t, 50, LevelProgressPercent(1, 50))
	assert.Equal(t, 100, LevelProgressPercent(10, 3000), "clamped at max level")
	// level 2 spans 100..250
	assert.Equal(t, 33, LevelProgressPercent(2, 150))
}

func TestPriorityPoints(t *testing.T) {
	assert.Equal(t, 5, PriorityPoints[model.PriorityLow])
	assert.Equal(t, 10, PriorityPoints[model.PriorityMedium])
	assert.Equal(t, 20, PriorityPoints[model.PriorityHigh])
}
