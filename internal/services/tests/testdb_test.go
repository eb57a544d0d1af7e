package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. The shared-cache
// DSN keeps every pooled connection on the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.CompletedSession{},
		&models.SessionMessage{},
		&models.CoPilotSession{},
		&models.CoPilotTurn{},
		&models.UserStats{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, tier models.SubscriptionTier, creditsUsed int, lastReset time.Time) *models.User {
	t.Helper()

	user := &models.User{
		ID:                      uuid.New(),
		Auth0ID:                 "auth0|" + uuid.NewString(),
		Email:                   uuid.NewString() + "@example.com",
		Name:                    "Seeded User",
		SubscriptionTier:        tier,
		CreditsUsed:             creditsUsed,
		MonthlySimulationsLimit: tier.MonthlyLimit(),
		LastResetDate:           lastReset,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &user
}
