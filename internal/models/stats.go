package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStats accumulates lifetime experience and the day-streak record.
// LastCompletedDate is a local calendar date ("2006-01-02"); the streak
// boundary is midnight, not a 24-hour window. Empty means no session yet.
type UserStats struct {
	gorm.Model
	UserID            uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	TotalXP           int       `json:"totalXp"`
	StreakCount       int       `json:"streakCount"`
	LastCompletedDate string    `json:"lastCompletedDate"`
}
