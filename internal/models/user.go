package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionTier string

const (
	TierTrial SubscriptionTier = "trial"
	TierBasic SubscriptionTier = "basic"
	TierPro   SubscriptionTier = "pro"
)

// MonthlyLimit returns the simulation allowance for a tier. Pro is
// unlimited, signalled by nil.
func (t SubscriptionTier) MonthlyLimit() *int {
	switch t {
	case TierBasic:
		limit := 20
		return &limit
	case TierTrial:
		limit := 5
		return &limit
	default:
		return nil
	}
}

type UserRole string

const (
	RoleMember     UserRole = "member"
	RoleManager    UserRole = "manager"
	RoleSuperAdmin UserRole = "super-admin"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Auth0ID        string    `gorm:"unique;not null"`
	Email          string    `gorm:"unique;not null"`
	Name           string
	AvatarURL      string
	Role           UserRole `gorm:"default:'member'"`
	OrganizationID *uuid.UUID
	Locale         string `gorm:"default:'en-US'"`

	SubscriptionTier        SubscriptionTier `gorm:"default:'trial'"`
	CreditsUsed             int
	MonthlySimulationsLimit *int
	LastResetDate           time.Time
	HasCompletedOnboarding  bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Organization struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Name          string    `gorm:"unique;not null"`
	LicenseLimit  int
	BillingStatus string
	MonthlyAmount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// HasRole reports whether the user holds at least the given role. Super
// admins pass every check.
func (u *User) HasRole(role UserRole) bool {
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.Role == role
}

// Profile is the entitlement view of a user sent to the client after login
// and after every gated action.
type Profile struct {
	ID                      uuid.UUID        `json:"id"`
	Name                    string           `json:"name"`
	Email                   string           `json:"email"`
	AvatarURL               string           `json:"avatarUrl,omitempty"`
	Role                    UserRole         `json:"role"`
	OrganizationID          *uuid.UUID       `json:"organizationId,omitempty"`
	SubscriptionTier        SubscriptionTier `json:"subscriptionStatus"`
	CreditsUsed             int              `json:"creditsUsed"`
	MonthlySimulationsLimit *int             `json:"monthlySimulationsLimit"`
	LastResetDate           time.Time        `json:"lastResetDate"`
	HasCompletedOnboarding  bool             `json:"hasCompletedOnboarding"`
	Locale                  string           `json:"locale"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:                      u.ID,
		Name:                    u.Name,
		Email:                   u.Email,
		AvatarURL:               u.AvatarURL,
		Role:                    u.Role,
		OrganizationID:          u.OrganizationID,
		SubscriptionTier:        u.SubscriptionTier,
		CreditsUsed:             u.CreditsUsed,
		MonthlySimulationsLimit: u.MonthlySimulationsLimit,
		LastResetDate:           u.LastResetDate,
		HasCompletedOnboarding:  u.HasCompletedOnboarding,
		Locale:                  u.Locale,
	}
}
