package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ptissem4/RepIq/internal/auth"
	errs "github.com/ptissem4/RepIq/internal/errors"
	"github.com/ptissem4/RepIq/internal/locale"
	"github.com/ptissem4/RepIq/internal/models"
	"github.com/ptissem4/RepIq/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"google.golang.org/api/iterator"
)

func SetupRoutes(
	r *gin.Engine,
	training *services.TrainingService,
	scenarios *services.ScenarioService,
	sessions services.SessionStore,
	copilot *services.CoPilotService,
	progress *services.ProgressService,
	stats *services.StatsService,
	users *services.UserService,
	reports *services.ReportService,
	stripeService *services.StripeService,
) {
	api := r.Group("/api")
	{
		api.POST("/stripe/webhook", stripeWebhookHandler(stripeService, users))
	}

	authed := api.Group("", auth.AuthMiddleware(users))
	{
		authed.GET("/initial-data", initialDataHandler(scenarios, sessions, stats, progress, users))
		authed.GET("/scenarios", listScenariosHandler(scenarios))

		authed.POST("/simulations", startSimulationHandler(training))
		authed.POST("/simulations/:session_id/message", simulationMessageHandler(training))
		authed.POST("/simulations/:session_id/heartbeat", heartbeatHandler(training))
		authed.POST("/simulations/:session_id/end", completeSessionHandler(training))
		authed.POST("/simulations/:session_id/feedback/retry", completeSessionHandler(training))
		authed.DELETE("/simulations/:session_id", abandonSessionHandler(training))

		authed.GET("/sessions", listSessionsHandler(sessions))
		authed.GET("/sessions/:id", getSessionHandler(sessions))
		authed.PATCH("/sessions/:id", renameSessionHandler(sessions))
		authed.DELETE("/sessions/:id", deleteSessionHandler(sessions))
		authed.POST("/sessions/:id/action-plan", actionPlanHandler(training))
		authed.GET("/sessions/:id/report.pdf", sessionReportHandler(sessions, reports))
		authed.POST("/sessions/:id/review", auth.RequireRole(models.RoleManager), reviewSessionHandler(sessions))

		authed.POST("/copilot/sessions", startCoPilotHandler(training))
		authed.GET("/copilot/sessions", listCoPilotSessionsHandler(copilot))
		authed.POST("/copilot/sessions/:id/suggest", copilotSuggestHandler(copilot))
		authed.PATCH("/copilot/sessions/:id", renameCoPilotSessionHandler(copilot))
		authed.DELETE("/copilot/sessions/:id", deleteCoPilotSessionHandler(copilot))

		authed.GET("/programs", listProgramsHandler(progress))
		authed.GET("/stats", statsHandler(stats))

		authed.POST("/account/plan", changePlanHandler(users))
		authed.POST("/account/cancel", cancelSubscriptionHandler(users))
		authed.PUT("/account/locale", setLocaleHandler(users))
		authed.POST("/account/onboarding-complete", completeOnboardingHandler(users))
		authed.POST("/checkout", checkoutHandler(stripeService))

		admin := authed.Group("/admin", auth.RequireRole(models.RoleSuperAdmin))
		{
			admin.GET("/users", listUsersHandler(users, sessions))
			admin.GET("/organizations", listOrganizationsHandler(users))
			admin.GET("/programs", listAllProgramsHandler(progress))
			admin.POST("/programs", createProgramHandler(progress))
			admin.DELETE("/programs/:id", deleteProgramHandler(progress))
			admin.POST("/programs/:id/assignments", assignProgramHandler(progress))
			admin.POST("/scenarios", createScenarioHandler(scenarios))
			admin.PUT("/scenarios/:id", updateScenarioHandler(scenarios))
			admin.DELETE("/scenarios/:id", deleteScenarioHandler(scenarios))
		}
	}
}

func currentUser(c *gin.Context) *models.User {
	return auth.CurrentUser(c)
}

func userLang(user *models.User) locale.Language {
	return locale.Parse(user.Locale)
}

// initialDataHandler returns everything the client needs to render after
// login in one round trip. Managers additionally receive the roster and all
// team sessions.
func initialDataHandler(scenarios *services.ScenarioService, sessions services.SessionStore, stats *services.StatsService, progress *services.ProgressService, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		lang := userLang(user)

		catalog, err := scenarios.ListScenarios()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		localized := make([]models.Scenario, len(catalog))
		for i, s := range catalog {
			localized[i] = scenarios.Localize(s, lang)
		}

		ownSessions, err := sessions.GetSessionsByUserID(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		userStats, err := stats.GetStats(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		programProgress, err := progress.ProgressForUser(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		payload := gin.H{
			"profile":   user.ToProfile(),
			"scenarios": localized,
			"sessions":  ownSessions,
			"stats":     userStats,
			"programs":  programProgress,
		}

		if user.HasRole(models.RoleManager) {
			roster, err := users.ListUsers()
			if err != nil {
				errs.HandleError(c, errs.New500Error(err))
				return
			}
			teamSessions, err := sessions.GetAllSessions()
			if err != nil {
				errs.HandleError(c, errs.New500Error(err))
				return
			}
			payload["roster"] = roster
			payload["teamSessions"] = teamSessions
		}

		c.JSON(http.StatusOK, payload)
	}
}

func listScenariosHandler(scenarios *services.ScenarioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		catalog, err := scenarios.ListScenarios()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		lang := userLang(user)
		localized := make([]models.Scenario, len(catalog))
		for i, s := range catalog {
			localized[i] = scenarios.Localize(s, lang)
		}
		c.JSON(http.StatusOK, gin.H{"scenarios": localized})
	}
}

func startSimulationHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			ScenarioID string `json:"scenarioId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}

		user := currentUser(c)
		lang := userLang(user)
		sessionID, scenario, err := training.StartSimulation(c.Request.Context(), user, request.ScenarioID, lang)
		if err == services.ErrUpgradeRequired {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"upgradeRequired": true,
				"message":         locale.T(lang, "gate.upgradeRequired", nil),
			})
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"sessionId": sessionID,
			"scenario":  scenario,
		})
	}
}

func simulationMessageHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")
		var request struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}

		responseIterator, err := training.SendMessage(c.Request.Context(), sessionID, request.Message)
		if err == services.ErrLiveSessionNotFound {
			errs.HandleError(c, errs.New404Error("Session not found"))
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		var aiResponse strings.Builder
		c.Stream(func(w io.Writer) bool {
			response, err := responseIterator.Next()
			if err == iterator.Done {
				if err := training.RecordAIResponse(sessionID, aiResponse.String()); err != nil {
					c.SSEvent("error", err.Error())
					return false
				}
				c.SSEvent("done", "")
				return false
			}
			if err != nil {
				c.SSEvent("error", err.Error())
				return false
			}

			if len(response.Candidates) > 0 && len(response.Candidates[0].Content.Parts) > 0 {
				if content, ok := response.Candidates[0].Content.Parts[0].(genai.Text); ok {
					aiResponse.WriteString(string(content))
					c.SSEvent("message", string(content))
				}
			}
			return true
		})
	}
}

func heartbeatHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")
		if err := training.UpdateSessionHeartbeat(sessionID); err != nil {
			errs.HandleError(c, errs.New404Error("Session not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// completeSessionHandler serves both the normal end-of-session call and the
// feedback retry. A feedback failure maps to 502 and keeps the transcript,
// so the client can call the retry route with the same session id.
func completeSessionHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")
		user := currentUser(c)

		result, err := training.CompleteSession(c.Request.Context(), user, sessionID)
		if err == services.ErrLiveSessionNotFound {
			errs.HandleError(c, errs.New404Error("Session not found"))
			return
		}
		if err == services.ErrEmptyTranscript {
			errs.HandleError(c, errs.New400Error("Session has no messages to analyze"))
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New502Error("Feedback generation failed, the session can be retried", err))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func abandonSessionHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		training.AbandonSession(c.Param("session_id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func listSessionsHandler(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		list, err := sessions.GetSessionsByUserID(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": list})
	}
}

func getSessionHandler(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		session, ok := loadOwnedSession(c, sessions, user)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func renameSessionHandler(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var request struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		if err := sessions.RenameSession(id, user.ID, request.Title); err != nil {
			handleOwnershipError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func deleteSessionHandler(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		user := currentUser(c)
		if err := sessions.DeleteSession(id, user.ID); err != nil {
			handleOwnershipError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func actionPlanHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		user := currentUser(c)
		plan, err := training.ActionPlan(c.Request.Context(), user, id, userLang(user))
		if err == services.ErrNotSessionOwner {
			errs.HandleError(c, errs.New403Error())
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New502Error("Action plan generation failed", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"actionPlan": plan})
	}
}

func sessionReportHandler(sessions services.SessionStore, reports *services.ReportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		session, ok := loadOwnedSession(c, sessions, user)
		if !ok {
			return
		}
		pdf, err := reports.SessionReportPDF(session)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=session-%s.pdf", session.ID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func reviewSessionHandler(sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var request struct {
			Comment string `json:"comment" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		if err := sessions.ReviewSession(id, user.ID, request.Comment, time.Now()); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func startCoPilotHandler(training *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		session, err := training.StartCoPilot(user)
		if err == services.ErrUpgradeRequired || err == services.ErrCopilotNotInPlan {
			key := "gate.upgradeRequired"
			if err == services.ErrCopilotNotInPlan {
				key = "gate.copilotRestricted"
			}
			c.JSON(http.StatusPaymentRequired, gin.H{
				"upgradeRequired": true,
				"message":         locale.T(userLang(user), key, nil),
			})
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func listCoPilotSessionsHandler(copilot *services.CoPilotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		list, err := copilot.GetSessionsByUserID(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": list})
	}
}

func copilotSuggestHandler(copilot *services.CoPilotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var request struct {
			ProspectSays string `json:"prospectSays" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		turn, err := copilot.Suggest(c.Request.Context(), id, user.ID, request.ProspectSays)
		if err == services.ErrNotCoPilotOwner {
			errs.HandleError(c, errs.New403Error())
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New502Error("Suggestion generation failed", err))
			return
		}
		c.JSON(http.StatusOK, turn)
	}
}

func renameCoPilotSessionHandler(copilot *services.CoPilotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var request struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		if err := copilot.RenameSession(id, user.ID, request.Title); err != nil {
			handleOwnershipError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func deleteCoPilotSessionHandler(copilot *services.CoPilotService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		user := currentUser(c)
		if err := copilot.DeleteSession(id, user.ID); err != nil {
			handleOwnershipError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func listProgramsHandler(progress *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		programs, err := progress.ProgramsForUser(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		progressList, err := progress.ProgressForUser(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"programs": programs,
			"progress": progressList,
		})
	}
}

func statsHandler(stats *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		userStats, err := stats.GetStats(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, userStats)
	}
}

func changePlanHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Plan string `json:"plan" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		updated, err := users.ChangePlan(user.ID, models.SubscriptionTier(request.Plan))
		if err == services.ErrUnknownTier {
			errs.HandleError(c, errs.New400Error("Unknown plan"))
			return
		}
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, updated.ToProfile())
	}
}

func cancelSubscriptionHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		updated, err := users.CancelSubscription(user.ID)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, updated.ToProfile())
	}
}

func setLocaleHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Locale string `json:"locale" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		user := currentUser(c)
		if err := users.SetLocale(user.ID, request.Locale); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func completeOnboardingHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if err := users.CompleteOnboarding(user.ID); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func checkoutHandler(stripeService *services.StripeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Plan string `json:"plan" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}

		var priceID string
		switch models.SubscriptionTier(request.Plan) {
		case models.TierBasic:
			priceID = os.Getenv("STRIPE_BASIC_PRICE_ID")
		case models.TierPro:
			priceID = os.Getenv("STRIPE_PRO_PRICE_ID")
		default:
			errs.HandleError(c, errs.New400Error("Invalid plan"))
			return
		}

		user := currentUser(c)
		session, err := stripeService.CreateCheckoutSession(user.ID.String(), priceID, request.Plan)
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionId": session.ID})
	}
}

func stripeWebhookHandler(stripeService *services.StripeService, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const MaxBodyBytes = int64(65536)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			errs.HandleError(c, errs.New400Error("Error reading request body"))
			return
		}

		signatureHeader := c.GetHeader("Stripe-Signature")
		event, err := stripeService.HandleWebhook(payload, signatureHeader)
		if err != nil {
			errs.HandleError(c, errs.New400Error("Failed to verify webhook signature"))
			return
		}

		switch event.Type {
		case "checkout.session.completed":
			var session stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
				errs.HandleError(c, errs.New400Error("Failed to parse checkout session"))
				return
			}
			if err := processSuccessfulCheckoutSession(session, users); err != nil {
				errs.HandleError(c, errs.New500Error(err))
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func processSuccessfulCheckoutSession(session stripe.CheckoutSession, users *services.UserService) error {
	userID, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	plan := models.SubscriptionTier(session.Metadata["plan"])
	if _, err := users.ChangePlan(userID, plan); err != nil {
		return fmt.Errorf("failed to apply plan change: %v", err)
	}
	return nil
}

func listUsersHandler(users *services.UserService, sessions services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		roster, err := users.ListUsers()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		all, err := sessions.GetAllSessions()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}

		type rosterEntry struct {
			models.Profile
			SessionCount int `json:"sessionCount"`
			AverageScore int `json:"averageScore"`
		}
		counts := make(map[uuid.UUID]int)
		scoreSums := make(map[uuid.UUID]int)
		for _, s := range all {
			var feedback models.Feedback
			if err := json.Unmarshal(s.FeedbackJSON, &feedback); err != nil {
				continue
			}
			counts[s.UserID]++
			scoreSums[s.UserID] += feedback.OverallScore
		}

		entries := make([]rosterEntry, len(roster))
		for i, u := range roster {
			entry := rosterEntry{Profile: u.ToProfile()}
			if n := counts[u.ID]; n > 0 {
				entry.SessionCount = n
				entry.AverageScore = scoreSums[u.ID] / n
			}
			entries[i] = entry
		}
		c.JSON(http.StatusOK, gin.H{"users": entries})
	}
}

func listOrganizationsHandler(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := users.ListOrganizations()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"organizations": orgs})
	}
}

func listAllProgramsHandler(progress *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		programs, err := progress.ListPrograms()
		if err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"programs": programs})
	}
}

func createProgramHandler(progress *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Name           string    `json:"name" binding:"required"`
			Description    string    `json:"description"`
			OrganizationID uuid.UUID `json:"organizationId"`
			Stages         []struct {
				ScenarioID string `json:"scenarioId" binding:"required"`
				Order      int    `json:"order"`
			} `json:"stages" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}

		program := models.CoachingProgram{
			Name:           request.Name,
			Description:    request.Description,
			OrganizationID: request.OrganizationID,
		}
		for _, s := range request.Stages {
			program.Stages = append(program.Stages, models.ProgramStage{
				ScenarioID: s.ScenarioID,
				Order:      s.Order,
			})
		}
		if err := progress.CreateProgram(&program); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusCreated, program)
	}
}

func deleteProgramHandler(progress *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		if err := progress.DeleteProgram(id); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func assignProgramHandler(progress *services.ProgressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c)
		if !ok {
			return
		}
		var request struct {
			UserID uuid.UUID `json:"userId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		if err := progress.AssignProgram(id, request.UserID); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func createScenarioHandler(scenarios *services.ScenarioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scenario models.Scenario
		if err := c.ShouldBindJSON(&scenario); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		if scenario.ID == "" {
			errs.HandleError(c, errs.New400Error("Scenario id is required"))
			return
		}
		if err := scenarios.CreateScenario(&scenario); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusCreated, scenario)
	}
}

func updateScenarioHandler(scenarios *services.ScenarioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scenario models.Scenario
		if err := c.ShouldBindJSON(&scenario); err != nil {
			errs.HandleError(c, errs.New400Error(err.Error()))
			return
		}
		scenario.ID = c.Param("id")
		if err := scenarios.UpdateScenario(&scenario); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, scenario)
	}
}

func deleteScenarioHandler(scenarios *services.ScenarioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := scenarios.DeleteScenario(c.Param("id")); err != nil {
			errs.HandleError(c, errs.New500Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errs.HandleError(c, errs.New400Error("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// loadOwnedSession fetches a session and enforces ownership. Managers may
// read any session, which the review and team views rely on.
func loadOwnedSession(c *gin.Context, sessions services.SessionStore, user *models.User) (*models.CompletedSession, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	session, err := sessions.GetSessionByID(id)
	if err != nil {
		errs.HandleError(c, errs.New404Error("Session not found"))
		return nil, false
	}
	if session.UserID != user.ID && !user.HasRole(models.RoleManager) {
		errs.HandleError(c, errs.New403Error())
		return nil, false
	}
	return session, true
}

func handleOwnershipError(c *gin.Context, err error) {
	if err == services.ErrNotSessionOwner || err == services.ErrNotCoPilotOwner {
		errs.HandleError(c, errs.New403Error())
		return
	}
	errs.HandleError(c, errs.New500Error(err))
}
