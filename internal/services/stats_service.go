package services

import (
	"errors"
	"time"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ApplySession folds one completed session into the stats: the overall
// score becomes experience, and the streak moves by calendar day. Two
// sessions on the same local date never advance the streak twice; a gap of
// two or more days resets it to 1.
func ApplySession(stats models.UserStats, overallScore int, today time.Time) models.UserStats {
	stats.TotalXP += overallScore

	todayStr := today.Format(dateLayout)
	if stats.LastCompletedDate != todayStr {
		yesterdayStr := today.AddDate(0, 0, -1).Format(dateLayout)
		if stats.LastCompletedDate == yesterdayStr {
			stats.StreakCount++
		} else {
			stats.StreakCount = 1
		}
	}
	stats.LastCompletedDate = todayStr
	return stats
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// RecordSession applies one completed session to the user's stats row,
// creating it on first use.
func (ss *StatsService) RecordSession(userID uuid.UUID, overallScore int, today time.Time) (*models.UserStats, error) {
	var stats models.UserStats
	err := ss.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.UserStats{UserID: userID}).FirstOrCreate(&stats).Error; err != nil {
			return err
		}
		stats = ApplySession(stats, overallScore, today)
		return tx.Model(&models.UserStats{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
			"total_xp":            stats.TotalXP,
			"streak_count":        stats.StreakCount,
			"last_completed_date": stats.LastCompletedDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ss *StatsService) GetStats(userID uuid.UUID) (*models.UserStats, error) {
	var stats models.UserStats
	err := ss.db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
