package services

import (
	"sort"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuildProgress computes the reporting view for one (program, user) pair.
// Stage order is advisory: completion counts stages in any order, and the
// order only picks the "continue" stage.
func BuildProgress(program models.CoachingProgram, userID uuid.UUID, completedScenarioIDs []string) models.ProgramProgress {
	completed := make(map[string]bool, len(completedScenarioIDs))
	for _, id := range completedScenarioIDs {
		completed[id] = true
	}

	// Drop completions that no longer correspond to a stage, e.g. after an
	// admin edited the program.
	valid := make([]string, 0, len(completedScenarioIDs))
	stages := append([]models.ProgramStage(nil), program.Stages...)
	sort.Slice(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })

	continueID := ""
	for _, stage := range stages {
		if completed[stage.ScenarioID] {
			valid = append(valid, stage.ScenarioID)
		} else if continueID == "" {
			continueID = stage.ScenarioID
		}
	}

	return models.ProgramProgress{
		ProgramID:            program.ID,
		UserID:               userID,
		CompletedScenarioIDs: valid,
		StageCount:           len(program.Stages),
		Completed:            len(program.Stages) > 0 && len(valid) == len(program.Stages),
		ContinueScenarioID:   continueID,
	}
}

type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// ProgramsForUser returns the programs the user is assigned to, stages
// preloaded.
func (ps *ProgressService) ProgramsForUser(userID uuid.UUID) ([]models.CoachingProgram, error) {
	var assignments []models.ProgramAssignment
	if err := ps.db.Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []models.CoachingProgram{}, nil
	}

	programIDs := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		programIDs[i] = a.ProgramID
	}

	var programs []models.CoachingProgram
	if err := ps.db.Preload("Stages").Where("id IN ?", programIDs).Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// RecordCompletion marks the scenario completed in every assigned program
// that carries it as a stage. Re-completing a stage is a no-op. Returns the
// refreshed progress views of the programs that were touched.
func (ps *ProgressService) RecordCompletion(userID uuid.UUID, scenarioID string) ([]models.ProgramProgress, error) {
	programs, err := ps.ProgramsForUser(userID)
	if err != nil {
		return nil, err
	}

	var touched []models.ProgramProgress
	for _, program := range programs {
		hasStage := false
		for _, stage := range program.Stages {
			if stage.ScenarioID == scenarioID {
				hasStage = true
				break
			}
		}
		if !hasStage {
			continue
		}

		completion := models.StageCompletion{
			ProgramID:  program.ID,
			UserID:     userID,
			ScenarioID: scenarioID,
		}
		err := ps.db.Where(models.StageCompletion{
			ProgramID:  program.ID,
			UserID:     userID,
			ScenarioID: scenarioID,
		}).FirstOrCreate(&completion).Error
		if err != nil {
			return nil, err
		}

		progress, err := ps.progressFor(program, userID)
		if err != nil {
			return nil, err
		}
		touched = append(touched, progress)
	}
	return touched, nil
}

// ProgressForUser returns the progress view of every assigned program,
// lazily treating missing completion rows as an empty set.
func (ps *ProgressService) ProgressForUser(userID uuid.UUID) ([]models.ProgramProgress, error) {
	programs, err := ps.ProgramsForUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProgramProgress, 0, len(programs))
	for _, program := range programs {
		progress, err := ps.progressFor(program, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, progress)
	}
	return views, nil
}

// CreateProgram stores a program with its stages. The stage order values
// come in as given; gaps are fine.
func (ps *ProgressService) CreateProgram(program *models.CoachingProgram) error {
	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	for i := range program.Stages {
		program.Stages[i].ProgramID = program.ID
	}
	return ps.db.Create(program).Error
}

// AssignProgram adds a user to a program. Re-assignment is a no-op.
func (ps *ProgressService) AssignProgram(programID, userID uuid.UUID) error {
	assignment := models.ProgramAssignment{ProgramID: programID, UserID: userID}
	return ps.db.Where(models.ProgramAssignment{
		ProgramID: programID,
		UserID:    userID,
	}).FirstOrCreate(&assignment).Error
}

func (ps *ProgressService) ListPrograms() ([]models.CoachingProgram, error) {
	var programs []models.CoachingProgram
	if err := ps.db.Preload("Stages").Preload("Assignments").Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (ps *ProgressService) DeleteProgram(id uuid.UUID) error {
	return ps.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&models.ProgramStage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&models.ProgramAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&models.StageCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CoachingProgram{}, "id = ?", id).Error
	})
}

func (ps *ProgressService) progressFor(program models.CoachingProgram, userID uuid.UUID) (models.ProgramProgress, error) {
	var completions []models.StageCompletion
	err := ps.db.Where("program_id = ? AND user_id = ?", program.ID, userID).Find(&completions).Error
	if err != nil {
		return models.ProgramProgress{}, err
	}

	ids := make([]string, len(completions))
	for i, c := range completions {
		ids[i] = c.ScenarioID
	}
	return BuildProgress(program, userID, ids), nil
}
