package services

import (
	"time"

	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/utils/broker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Feature is a usage-limited action a user may request.
type Feature string

const (
	FeatureSimulation Feature = "simulation"
	FeatureCopilot    Feature = "copilot"
)

// HasCredits reports whether the user may start another gated action. Pro
// always passes; other tiers need a limit and headroom under it.
func HasCredits(user *models.User) bool {
	if user.SubscriptionTier == models.TierPro {
		return true
	}
	return user.MonthlySimulationsLimit != nil && user.CreditsUsed < *user.MonthlySimulationsLimit
}

// CanUseFeature applies the admission rule for one feature. The co-pilot is
// trial-or-pro only: basic subscribers are refused regardless of credits.
func CanUseFeature(user *models.User, feature Feature) bool {
	if !HasCredits(user) {
		return false
	}
	if feature == FeatureCopilot && user.SubscriptionTier == models.TierBasic {
		return false
	}
	return true
}

// MonthRolledOver reports whether now falls in a different calendar month or
// year than the stored reset date.
func MonthRolledOver(lastReset, now time.Time) bool {
	return lastReset.Month() != now.Month() || lastReset.Year() != now.Year()
}

type CreditService struct {
	db            *gorm.DB
	broker        *broker.Broker
	checkInterval time.Duration
}

func NewCreditService(db *gorm.DB, b *broker.Broker, checkInterval time.Duration) *CreditService {
	cs := &CreditService{
		db:            db,
		broker:        b,
		checkInterval: checkInterval,
	}
	go cs.periodicReset()
	return cs
}

func (cs *CreditService) CanUseFeature(user *models.User, feature Feature) bool {
	return CanUseFeature(user, feature)
}

// Consume charges one credit to a non-pro user and returns the refreshed
// row. Pro users are returned untouched. Callers invoke this exactly once
// per admitted session, before the session exists.
func (cs *CreditService) Consume(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if user.SubscriptionTier == models.TierPro {
			return nil
		}
		user.CreditsUsed++
		return tx.Model(&user).Update("credits_used", user.CreditsUsed).Error
	})
	if err != nil {
		return nil, err
	}

	cs.publishCreditUpdate(&user)
	return &user, nil
}

func (cs *CreditService) publishCreditUpdate(user *models.User) {
	cs.broker.Publish(broker.TopicCreditUpdate+user.ID.String(), broker.Event{
		Type:    "credit_update",
		Payload: user.ToProfile(),
	})
}

func (cs *CreditService) periodicReset() {
	ticker := time.NewTicker(cs.checkInterval)
	for range ticker.C {
		if err := cs.ResetExpiredCredits(time.Now()); err != nil {
			log.Error().Err(err).Msg("Monthly credit reset sweep failed")
		}
	}
}

// ResetExpiredCredits zeroes the counters of basic-tier users whose stored
// reset month differs from the current one. Trial allowances are fixed at
// signup and reset only on a plan change.
func (cs *CreditService) ResetExpiredCredits(now time.Time) error {
	var users []models.User
	if err := cs.db.Where("subscription_tier = ?", models.TierBasic).Find(&users).Error; err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		if !MonthRolledOver(user.LastResetDate, now) {
			continue
		}
		updates := map[string]interface{}{
			"credits_used":    0,
			"last_reset_date": now,
		}
		if err := cs.db.Model(user).Updates(updates).Error; err != nil {
			log.Error().Err(err).Str("userID", user.ID.String()).Msg("Failed to reset monthly credits")
			continue
		}
		user.CreditsUsed = 0
		user.LastResetDate = now
		log.Info().Str("userID", user.ID.String()).Msg("Monthly credits reset")
		cs.publishCreditUpdate(user)
	}
	return nil
}
