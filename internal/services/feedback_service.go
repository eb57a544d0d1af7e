package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyTranscript   = errors.New("transcript is empty")
	ErrMalformedFeedback = errors.New("completion service returned a malformed feedback report")
	ErrMalformedPlan     = errors.New("completion service returned a malformed action plan")
)

// FeedbackService turns transcripts into structured score reports through a
// single structured-output request per report. Failures are total: it never
// returns a partial report, and it never retries on its own.
type FeedbackService struct {
	feedbackModel ContentGenerator
	planModel     ContentGenerator
	liveModel     ContentGenerator
}

func NewFeedbackService(client GenAIClient, modelName string) *FeedbackService {
	feedbackModel := client.GenerativeModel(modelName)
	feedbackModel.ResponseMIMEType = "application/json"
	feedbackModel.ResponseSchema = feedbackSchema()

	planModel := client.GenerativeModel(modelName)
	planModel.ResponseMIMEType = "application/json"
	planModel.ResponseSchema = actionPlanSchema()

	liveModel := client.GenerativeModel(modelName)
	liveModel.ResponseMIMEType = "application/json"
	liveModel.ResponseSchema = liveResponseSchema()

	return &FeedbackService{
		feedbackModel: feedbackModel,
		planModel:     planModel,
		liveModel:     liveModel,
	}
}

// NewFeedbackServiceWithGenerators wires pre-built generators, used by tests.
func NewFeedbackServiceWithGenerators(feedback, plan, live ContentGenerator) *FeedbackService {
	return &FeedbackService{
		feedbackModel: feedback,
		planModel:     plan,
		liveModel:     live,
	}
}

// ComputeTalkToListenRatio derives the word-count split between the user
// ("Closer") and the AI ("Prospect") across the whole transcript. 50/50 when
// the transcript carries no words.
func ComputeTalkToListenRatio(transcript []models.ChatMessage) models.TalkToListenRatio {
	var userWords, prospectWords int
	for _, msg := range transcript {
		words := len(strings.Fields(msg.Text))
		if msg.Sender == models.SenderUser {
			userWords += words
		} else {
			prospectWords += words
		}
	}

	total := userWords + prospectWords
	if total == 0 {
		return models.TalkToListenRatio{User: 50, Prospect: 50}
	}

	user := int(math.Round(float64(userWords) / float64(total) * 100))
	return models.TalkToListenRatio{User: user, Prospect: 100 - user}
}

// EstimateWPM estimates the Closer's speaking pace assuming roughly 15
// seconds of wall-clock time per turn-pair. Defaults to 140 when the
// estimated duration is zero.
func EstimateWPM(transcript []models.ChatMessage) int {
	var userWords int
	for _, msg := range transcript {
		if msg.Sender == models.SenderUser {
			userWords += len(strings.Fields(msg.Text))
		}
	}

	estimatedMinutes := float64(len(transcript)) / 2 * 15 / 60
	if estimatedMinutes <= 0 {
		return 140
	}
	return int(math.Round(float64(userWords) / estimatedMinutes))
}

func (fs *FeedbackService) GenerateFeedback(ctx context.Context, transcript []models.ChatMessage, lang locale.Language) (*models.Feedback, error) {
	if len(transcript) == 0 {
		return nil, ErrEmptyTranscript
	}

	ratio := ComputeTalkToListenRatio(transcript)
	averageWPM := EstimateWPM(transcript)
	prompt := buildFeedbackPrompt(transcript, ratio, averageWPM, lang)

	resp, err := fs.feedbackModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("feedback generation failed: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}

	feedback, err := parseFeedback(raw, len(transcript), ratio)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected feedback response")
		return nil, err
	}
	return feedback, nil
}

func buildFeedbackPrompt(transcript []models.ChatMessage, ratio models.TalkToListenRatio, averageWPM int, lang locale.Language) string {
	var sb strings.Builder
	for i, msg := range transcript {
		speaker := "Prospect"
		if msg.Sender == models.SenderUser {
			speaker = "Closer"
		}
		fmt.Fprintf(&sb, "[%d] %s: %s\n", i, speaker, msg.Text)
	}

	ratioJSON, _ := json.Marshal(ratio)

	return fmt.Sprintf(`You are a world-class sales coach (think a mix of Chris Voss and Jordan Belfort). Analyze the following sales conversation transcript with extreme precision.
Each line is prefixed with its message index (e.g., '[0]', '[1]').

Analyze the 'Closer's performance based on the entire conversation.

IMPORTANT: You MUST provide your entire analysis (summary, strengths, areasForImprovement, contextualFeedback comments) in %s.

Provide a concise, critical, and actionable feedback report in the specified JSON format.
- **overallScore**: Rate the Closer's overall performance on a scale of 1 to 100.
- **pacingWPM**: Calculate the Closer's average pacing in words per minute (WPM). A typical conversational pace is 140-160 WPM. Use the provided average WPM of %d as a baseline.
- **clarityScore**: Rate the clarity of the Closer's language on a scale of 1 to 100.
- **inferredTonality**: Infer the Closer's primary tonality (e.g., 'Confident', 'Hesitant', 'Empathetic', 'Assertive', 'Neutral').
- **strengths**: Identify 3 key strengths.
- **areasForImprovement**: Identify 3 key areas for improvement.
- **summary**: A concise overall summary and a key takeaway.
- **contextualFeedback**: Provide specific feedback on individual messages. Focus on the most impactful moments.
- **talkToListenRatio**: This is already calculated for you. Use these values: %s.
- **discourseStructure**: Analyze the conversation's structure. Rate the effectiveness of the 'opening' (how they started), 'discoveryQuestions' (if they asked good, open-ended questions), and 'callToActionStrength' (how strong their closing or next steps were) on a scale of 0-100.
- **skillScores**: Analyze and rate the Closer's performance on these specific sales skills on a scale of 0-100: 'rapportBuilding', 'objectionHandling', and 'closing'.

Transcript:
%s`, lang.DisplayName(), averageWPM, ratioJSON, sb.String())
}

// parseFeedback enforces the full response contract: every schema field
// present, contextual annotations pointing at real messages, and the
// locally computed ratio echoed back unchanged.
func parseFeedback(raw string, transcriptLen int, want models.TalkToListenRatio) (*models.Feedback, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}

	required := []string{
		"overallScore", "pacingWPM", "clarityScore", "inferredTonality",
		"strengths", "areasForImprovement", "summary", "contextualFeedback",
		"talkToListenRatio", "discourseStructure", "skillScores",
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrMalformedFeedback, key)
		}
	}

	var feedback models.Feedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}

	if feedback.OverallScore < 0 || feedback.OverallScore > 100 {
		return nil, fmt.Errorf("%w: overallScore out of range", ErrMalformedFeedback)
	}
	if feedback.TalkToListenRatio != want {
		return nil, fmt.Errorf("%w: talkToListenRatio was not echoed back", ErrMalformedFeedback)
	}
	for _, item := range feedback.ContextualFeedback {
		if item.Type != "strength" && item.Type != "improvement" {
			return nil, fmt.Errorf("%w: contextualFeedback type %q", ErrMalformedFeedback, item.Type)
		}
		if item.MessageIndex < 0 || item.MessageIndex >= transcriptLen {
			return nil, fmt.Errorf("%w: contextualFeedback index %d out of range", ErrMalformedFeedback, item.MessageIndex)
		}
	}

	return &feedback, nil
}

func (fs *FeedbackService) GenerateActionPlan(ctx context.Context, feedback *models.Feedback, scenarios []models.Scenario, lang locale.Language) ([]models.ActionPlanItem, error) {
	var scenarioList strings.Builder
	known := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		fmt.Fprintf(&scenarioList, "- %s (ID: %s)\n", s.Title, s.ID)
		known[s.ID] = true
	}

	prompt := fmt.Sprintf(`You are an AI Sales Coach. Based on the following feedback report, generate a personalized 2-step action plan to help the user improve.

IMPORTANT: The 'suggestion' for each step MUST be in %s.

Feedback Report:
- Summary: %s
- Areas for Improvement: %s
- Lowest Skill Score: Identify the skill with the lowest score from these: Rapport Building (%d), Objection Handling (%d), Closing (%d).

For each step in the plan:
1. Provide a concise, actionable suggestion for the user.
2. From the list of available scenarios below, choose the ONE scenario that is MOST relevant for practicing that specific step.
3. You MUST include the exact ID of the chosen scenario.

Available Scenarios:
%s
Return the plan in the specified JSON format.`,
		lang.DisplayName(),
		feedback.Summary,
		strings.Join(feedback.AreasForImprovement, ", "),
		feedback.SkillScores.RapportBuilding,
		feedback.SkillScores.ObjectionHandling,
		feedback.SkillScores.Closing,
		scenarioList.String(),
	)

	resp, err := fs.planModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("action plan generation failed: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}

	var plan []models.ActionPlanItem
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	for _, item := range plan {
		if item.Suggestion == "" {
			return nil, fmt.Errorf("%w: empty suggestion", ErrMalformedPlan)
		}
		if !known[item.RelevantScenarioID] {
			return nil, fmt.Errorf("%w: unknown scenario id %q", ErrMalformedPlan, item.RelevantScenarioID)
		}
	}
	return plan, nil
}

// GenerateLiveResponse produces the co-pilot suggestion for a prospect
// utterance. An empty utterance yields no suggestion and no service call.
func (fs *FeedbackService) GenerateLiveResponse(ctx context.Context, prospectTranscript string) (string, error) {
	if strings.TrimSpace(prospectTranscript) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(`You are an elite AI sales closer. A prospect just said the following:
---
%q
---
Your task is to generate the single best, complete, and natural-sounding response to say back to them. The response should be ready to be read aloud immediately. Do not add any commentary, preamble, or explanation. Provide only the response text.`, prospectTranscript)

	resp, err := fs.liveModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("live response generation failed: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return "", fmt.Errorf("malformed live response: %w", err)
	}
	if parsed.Response == "" {
		return "", errors.New("malformed live response: empty suggestion")
	}
	return parsed.Response, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("response part is not text")
	}
	return string(text), nil
}

func feedbackSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallScore":        {Type: genai.TypeInteger},
			"pacingWPM":           {Type: genai.TypeInteger},
			"clarityScore":        {Type: genai.TypeInteger},
			"inferredTonality":    {Type: genai.TypeString},
			"strengths":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"areasForImprovement": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"summary":             {Type: genai.TypeString},
			"contextualFeedback": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"messageIndex": {Type: genai.TypeInteger},
						"comment":      {Type: genai.TypeString},
						"type":         {Type: genai.TypeString},
					},
					Required: []string{"messageIndex", "comment", "type"},
				},
			},
			"talkToListenRatio": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"user":     {Type: genai.TypeInteger},
					"prospect": {Type: genai.TypeInteger},
				},
				Required: []string{"user", "prospect"},
			},
			"discourseStructure": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"openingEffectiveness": {Type: genai.TypeInteger},
					"discoveryQuestions":   {Type: genai.TypeInteger},
					"callToActionStrength": {Type: genai.TypeInteger},
				},
				Required: []string{"openingEffectiveness", "discoveryQuestions", "callToActionStrength"},
			},
			"skillScores": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"rapportBuilding":   {Type: genai.TypeInteger},
					"objectionHandling": {Type: genai.TypeInteger},
					"closing":           {Type: genai.TypeInteger},
				},
				Required: []string{"rapportBuilding", "objectionHandling", "closing"},
			},
		},
		Required: []string{
			"overallScore", "pacingWPM", "clarityScore", "inferredTonality",
			"strengths", "areasForImprovement", "summary", "contextualFeedback",
			"talkToListenRatio", "discourseStructure", "skillScores",
		},
	}
}

func actionPlanSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestion":         {Type: genai.TypeString},
				"relevantScenarioId": {Type: genai.TypeString},
			},
			Required: []string{"suggestion", "relevantScenarioId"},
		},
	}
}

func liveResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response": {Type: genai.TypeString},
		},
		Required: []string{"response"},
	}
}
