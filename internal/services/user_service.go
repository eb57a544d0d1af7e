package services

import (
	"errors"
	"time"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnknownTier = errors.New("unknown subscription tier")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateOrUpdateUser resolves a user from verified token claims. It runs on
// every authenticated request, so an existing row is returned as-is: the
// credit counter and reset date belong to the credit services. Only a brand
// new user gets the trial tier and a fresh allowance.
func (us *UserService) CreateOrUpdateUser(auth0ID, email, name, avatarURL string) (*models.User, error) {
	var user models.User
	err := us.db.Where("auth0_id = ?", auth0ID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Auth0ID:                 auth0ID,
		Email:                   email,
		Name:                    name,
		AvatarURL:               avatarURL,
		SubscriptionTier:        models.TierTrial,
		CreditsUsed:             0,
		MonthlySimulationsLimit: models.TierTrial.MonthlyLimit(),
		LastResetDate:           time.Now(),
	}
	if err := us.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (us *UserService) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	result := us.db.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (us *UserService) GetUserByAuth0ID(auth0ID string) (*models.User, error) {
	var user models.User
	result := us.db.Where("auth0_id = ?", auth0ID).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// ChangePlan moves the user to a new tier, resetting credits and assigning
// the tier's allowance.
func (us *UserService) ChangePlan(userID uuid.UUID, tier models.SubscriptionTier) (*models.User, error) {
	switch tier {
	case models.TierTrial, models.TierBasic, models.TierPro:
	default:
		return nil, ErrUnknownTier
	}

	user, err := us.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.SubscriptionTier = tier
	user.CreditsUsed = 0
	user.MonthlySimulationsLimit = tier.MonthlyLimit()
	user.LastResetDate = time.Now()
	if err := us.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CancelSubscription steps the user down one tier: pro becomes basic, basic
// becomes trial. Trial has nothing below it.
func (us *UserService) CancelSubscription(userID uuid.UUID) (*models.User, error) {
	user, err := us.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	switch user.SubscriptionTier {
	case models.TierPro:
		return us.ChangePlan(userID, models.TierBasic)
	case models.TierBasic:
		return us.ChangePlan(userID, models.TierTrial)
	default:
		return user, nil
	}
}

func (us *UserService) SetLocale(userID uuid.UUID, localeTag string) error {
	return us.db.Model(&models.User{}).Where("id = ?", userID).Update("locale", localeTag).Error
}

func (us *UserService) CompleteOnboarding(userID uuid.UUID) error {
	return us.db.Model(&models.User{}).Where("id = ?", userID).Update("has_completed_onboarding", true).Error
}

// ListUsers returns the full roster, used by the initial data load and the
// admin views.
func (us *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	result := us.db.Order("created_at asc").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (us *UserService) ListOrganizations() ([]models.Organization, error) {
	var orgs []models.Organization
	result := us.db.Order("name asc").Find(&orgs)
	if result.Error != nil {
		return nil, result.Error
	}
	return orgs, nil
}
