package services_test

import (
	"testing"
	"time"

	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestApplySession(t *testing.T) {
	today := time.Date(2026, time.August, 28, 14, 30, 0, 0, time.UTC)

	t.Run("first session ever starts a streak of 1", func(t *testing.T) {
		stats := services.ApplySession(models.UserStats{}, 82, today)

		assert.Equal(t, 82, stats.TotalXP)
		assert.Equal(t, 1, stats.StreakCount)
		assert.Equal(t, "2026-08-28", stats.LastCompletedDate)
	})

	t.Run("second session same day adds XP only", func(t *testing.T) {
		stats := models.UserStats{TotalXP: 100, StreakCount: 3, LastCompletedDate: "2026-08-28"}
		stats = services.ApplySession(stats, 50, today)

		assert.Equal(t, 150, stats.TotalXP)
		assert.Equal(t, 3, stats.StreakCount)
	})

	t.Run("session the day after extends the streak", func(t *testing.T) {
		stats := models.UserStats{TotalXP: 100, StreakCount: 3, LastCompletedDate: "2026-08-27"}
		stats = services.ApplySession(stats, 82, today)

		assert.Equal(t, 182, stats.TotalXP)
		assert.Equal(t, 4, stats.StreakCount)
		assert.Equal(t, "2026-08-28", stats.LastCompletedDate)
	})

	t.Run("a gap resets the streak to 1", func(t *testing.T) {
		stats := models.UserStats{TotalXP: 100, StreakCount: 9, LastCompletedDate: "2026-08-25"}
		stats = services.ApplySession(stats, 10, today)

		assert.Equal(t, 1, stats.StreakCount)
	})

	t.Run("streak survives a month boundary", func(t *testing.T) {
		firstOfMonth := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
		stats := models.UserStats{StreakCount: 5, LastCompletedDate: "2026-08-31"}
		stats = services.ApplySession(stats, 60, firstOfMonth)

		assert.Equal(t, 6, stats.StreakCount)
	})
}
