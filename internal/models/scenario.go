package models

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Scenario is a role-play definition. Reference data: seeded at startup,
// mutated only through the admin endpoints.
type Scenario struct {
	ID                string `gorm:"primary_key" json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	SystemInstruction string `gorm:"type:text" json:"systemInstruction"`
	Lang              string `json:"lang"`
	Category          string `json:"category"`

	ProspectName      string `json:"prospectName"`
	ProspectRole      string `json:"prospectRole"`
	ProspectAvatarURL string `json:"prospectAvatarUrl"`

	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	Personality string     `json:"personality"`

	Translations []ScenarioTranslation `gorm:"foreignKey:ScenarioID" json:"translations,omitempty"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ScenarioTranslation carries the per-locale text variant of a scenario.
type ScenarioTranslation struct {
	gorm.Model        `json:"-"`
	ScenarioID        string `gorm:"index:idx_scenario_locale,unique" json:"-"`
	Locale            string `gorm:"index:idx_scenario_locale,unique" json:"locale"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	SystemInstruction string `gorm:"type:text" json:"systemInstruction"`
	ProspectName      string `json:"prospectName"`
	ProspectRole      string `json:"prospectRole"`
	Personality       string `json:"personality"`
}
