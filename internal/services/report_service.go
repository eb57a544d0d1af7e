package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ptissem4/RepIq/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ReportService renders a completed session's feedback report as a PDF for
// manager reviews and offline sharing.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

func (rs *ReportService) SessionReportPDF(session *models.CompletedSession) ([]byte, error) {
	var feedback models.Feedback
	if err := json.Unmarshal(session.FeedbackJSON, &feedback); err != nil {
		return nil, fmt.Errorf("session has no readable feedback: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Session Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	title := session.CustomTitle
	if title == "" {
		title = session.Scenario.Title
	}
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Completed %s - %s (%s)", session.CompletedAt.Format("Jan 2, 2006"), session.Scenario.ProspectName, session.Scenario.ProspectRole), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall Score: %d / 100", feedback.OverallScore), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Skill Scores", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Rapport Building: %d    Objection Handling: %d    Closing: %d",
		feedback.SkillScores.RapportBuilding,
		feedback.SkillScores.ObjectionHandling,
		feedback.SkillScores.Closing), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Talk/Listen: %d/%d    Pacing: %d WPM    Clarity: %d    Tonality: %s",
		feedback.TalkToListenRatio.User,
		feedback.TalkToListenRatio.Prospect,
		feedback.PacingWPM,
		feedback.ClarityScore,
		feedback.InferredTonality), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	writeList := func(heading string, items []string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, item := range items {
			pdf.MultiCell(0, 5.5, "- "+item, "", "L", false)
		}
		pdf.Ln(2)
	}
	writeList("Strengths", feedback.Strengths)
	writeList("Areas for Improvement", feedback.AreasForImprovement)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5.5, feedback.Summary, "", "L", false)

	if session.ManagerFeedback != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Manager Review", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5.5, session.ManagerFeedback, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
