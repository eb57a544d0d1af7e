package models

// Feedback is the structured score report derived from one transcript. The
// field set mirrors the completion-service response schema exactly: a
// response missing any of these fields is rejected wholesale.
type Feedback struct {
	OverallScore        int                      `json:"overallScore"`
	PacingWPM           int                      `json:"pacingWPM"`
	ClarityScore        int                      `json:"clarityScore"`
	InferredTonality    string                   `json:"inferredTonality"`
	Strengths           []string                 `json:"strengths"`
	AreasForImprovement []string                 `json:"areasForImprovement"`
	Summary             string                   `json:"summary"`
	ContextualFeedback  []ContextualFeedbackItem `json:"contextualFeedback"`
	TalkToListenRatio   TalkToListenRatio        `json:"talkToListenRatio"`
	DiscourseStructure  DiscourseStructure       `json:"discourseStructure"`
	SkillScores         SkillScores              `json:"skillScores"`
}

type ContextualFeedbackItem struct {
	MessageIndex int    `json:"messageIndex"`
	Comment      string `json:"comment"`
	Type         string `json:"type"` // "strength" or "improvement"
}

type TalkToListenRatio struct {
	User     int `json:"user"`
	Prospect int `json:"prospect"`
}

type DiscourseStructure struct {
	OpeningEffectiveness int `json:"openingEffectiveness"`
	DiscoveryQuestions   int `json:"discoveryQuestions"`
	CallToActionStrength int `json:"callToActionStrength"`
}

type SkillScores struct {
	RapportBuilding   int `json:"rapportBuilding"`
	ObjectionHandling int `json:"objectionHandling"`
	Closing           int `json:"closing"`
}

type ActionPlanItem struct {
	Suggestion         string `json:"suggestion"`
	RelevantScenarioID string `json:"relevantScenarioId"`
}
