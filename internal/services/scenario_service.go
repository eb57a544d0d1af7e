package services

import (
	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScenarioService is the catalog of role-play definitions. Reference data:
// seeded once, read everywhere, edited only through the admin surface.
type ScenarioService struct {
	db *gorm.DB
}

func NewScenarioService(db *gorm.DB) *ScenarioService {
	return &ScenarioService{db: db}
}

func (ss *ScenarioService) ListScenarios() ([]models.Scenario, error) {
	var scenarios []models.Scenario
	result := ss.db.Preload("Translations").Order("id asc").Find(&scenarios)
	if result.Error != nil {
		return nil, result.Error
	}
	return scenarios, nil
}

func (ss *ScenarioService) GetScenario(id string) (*models.Scenario, error) {
	var scenario models.Scenario
	result := ss.db.Preload("Translations").Where("id = ?", id).First(&scenario)
	if result.Error != nil {
		return nil, result.Error
	}
	return &scenario, nil
}

// Localize returns the scenario with its text fields swapped for the
// requested locale's variant. Missing translations leave the base (en-US)
// text in place.
func (ss *ScenarioService) Localize(s models.Scenario, lang locale.Language) models.Scenario {
	if lang == locale.Language(s.Lang) {
		return s
	}
	for _, tr := range s.Translations {
		if tr.Locale != string(lang) {
			continue
		}
		s.Title = tr.Title
		s.Description = tr.Description
		s.SystemInstruction = tr.SystemInstruction
		s.ProspectName = tr.ProspectName
		s.ProspectRole = tr.ProspectRole
		s.Personality = tr.Personality
		s.Lang = tr.Locale
		return s
	}
	return s
}

func (ss *ScenarioService) CreateScenario(s *models.Scenario) error {
	return ss.db.Create(s).Error
}

func (ss *ScenarioService) UpdateScenario(s *models.Scenario) error {
	return ss.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_id = ?", s.ID).Delete(&models.ScenarioTranslation{}).Error; err != nil {
			return err
		}
		return tx.Save(s).Error
	})
}

func (ss *ScenarioService) DeleteScenario(id string) error {
	return ss.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_id = ?", id).Delete(&models.ScenarioTranslation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Scenario{}).Error
	})
}

// SeedCatalog inserts the built-in scenarios on first run. Existing rows are
// left alone so admin edits survive restarts.
func (ss *ScenarioService) SeedCatalog() error {
	for _, scenario := range builtinScenarios() {
		s := scenario
		err := ss.db.Where(models.Scenario{ID: s.ID}).FirstOrCreate(&s).Error
		if err != nil {
			return err
		}
	}
	log.Info().Msg("Scenario catalog seeded")
	return nil
}
