package game

import (
	"time"

	"taskquest/internal/model"
)

// DateLayout is the date-only format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// UpdateStreak advances the streak for a completion happening at now.
// Comparisons are local-calendar-date based: a second completion on the same
// day is a no-op, a completion the day after the last one extends the streak,
// anything else starts over at 1.
func UpdateStreak(stats model.GameStats, now time.Time) model.GameStats {
	today := now.Format(DateLayout)

	switch stats.LastCompletedDate {
	case "":
		stats.Streak = 1
	case today:
		return stats
	case now.AddDate(0, 0, -1).Format(DateLayout):
		stats.Streak++
	default:
		stats.Streak = 1
	}

	stats.LastCompletedDate = today
	return stats
}
