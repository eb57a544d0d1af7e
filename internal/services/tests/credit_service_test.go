package services_test

import (
	"testing"
	"time"

	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestHasCredits(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "pro always passes",
			user: models.User{SubscriptionTier: models.TierPro, CreditsUsed: 9999},
			want: true,
		},
		{
			name: "trial under limit",
			user: models.User{SubscriptionTier: models.TierTrial, CreditsUsed: 4, MonthlySimulationsLimit: intPtr(5)},
			want: true,
		},
		{
			name: "trial at limit",
			user: models.User{SubscriptionTier: models.TierTrial, CreditsUsed: 5, MonthlySimulationsLimit: intPtr(5)},
			want: false,
		},
		{
			name: "basic under limit",
			user: models.User{SubscriptionTier: models.TierBasic, CreditsUsed: 19, MonthlySimulationsLimit: intPtr(20)},
			want: true,
		},
		{
			name: "non-pro with nil limit is denied",
			user: models.User{SubscriptionTier: models.TierBasic, CreditsUsed: 0},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.HasCredits(&tt.user))
		})
	}
}

func TestCanUseFeature(t *testing.T) {
	t.Run("copilot refused to basic even with credits", func(t *testing.T) {
		user := models.User{SubscriptionTier: models.TierBasic, CreditsUsed: 0, MonthlySimulationsLimit: intPtr(20)}
		assert.True(t, services.CanUseFeature(&user, services.FeatureSimulation))
		assert.False(t, services.CanUseFeature(&user, services.FeatureCopilot))
	})

	t.Run("copilot allowed for trial with credits", func(t *testing.T) {
		user := models.User{SubscriptionTier: models.TierTrial, CreditsUsed: 0, MonthlySimulationsLimit: intPtr(5)}
		assert.True(t, services.CanUseFeature(&user, services.FeatureCopilot))
	})

	t.Run("copilot allowed for pro", func(t *testing.T) {
		user := models.User{SubscriptionTier: models.TierPro}
		assert.True(t, services.CanUseFeature(&user, services.FeatureCopilot))
	})

	t.Run("exhausted credits deny every feature", func(t *testing.T) {
		user := models.User{SubscriptionTier: models.TierTrial, CreditsUsed: 5, MonthlySimulationsLimit: intPtr(5)}
		assert.False(t, services.CanUseFeature(&user, services.FeatureSimulation))
		assert.False(t, services.CanUseFeature(&user, services.FeatureCopilot))
	})
}

func TestMonthRolledOver(t *testing.T) {
	t.Run("same month", func(t *testing.T) {
		last := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		now := time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)
		assert.False(t, services.MonthRolledOver(last, now))
	})

	t.Run("next month", func(t *testing.T) {
		last := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
		now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, services.MonthRolledOver(last, now))
	})

	t.Run("same month a year later", func(t *testing.T) {
		last := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
		now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
		assert.True(t, services.MonthRolledOver(last, now))
	})
}
