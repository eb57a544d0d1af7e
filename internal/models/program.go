package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoachingProgram is an ordered list of scenario stages assigned to a set of
// users within one organization.
type CoachingProgram struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Name           string
	Description    string
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`

	Stages      []ProgramStage      `gorm:"foreignKey:ProgramID"`
	Assignments []ProgramAssignment `gorm:"foreignKey:ProgramID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *CoachingProgram) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProgramStage places one scenario at a position inside a program. Order is
// advisory: it drives the "continue" pick, not a sequencing constraint.
type ProgramStage struct {
	gorm.Model
	ProgramID  uuid.UUID `gorm:"type:uuid;index:idx_program_stage,unique"`
	ScenarioID string    `gorm:"index:idx_program_stage,unique"`
	Order      int       `gorm:"column:stage_order"`
}

type ProgramAssignment struct {
	gorm.Model
	ProgramID uuid.UUID `gorm:"type:uuid;index:idx_program_user,unique"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_program_user,unique"`
}

// StageCompletion is one element of a user's completion set for a program.
// The unique index makes re-completing a stage a no-op.
type StageCompletion struct {
	gorm.Model
	ProgramID  uuid.UUID `gorm:"type:uuid;index:idx_completion,unique"`
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_completion,unique"`
	ScenarioID string    `gorm:"index:idx_completion,unique"`
}

// ProgramProgress is the reporting view of one (program, user) pair.
type ProgramProgress struct {
	ProgramID            uuid.UUID `json:"programId"`
	UserID               uuid.UUID `json:"userId"`
	CompletedScenarioIDs []string  `json:"completedStageScenarioIds"`
	StageCount           int       `json:"stageCount"`
	Completed            bool      `json:"completed"`
	// ContinueScenarioID is the lowest-order stage not yet completed, empty
	// when the program is done.
	ContinueScenarioID string `json:"continueScenarioId,omitempty"`
}
