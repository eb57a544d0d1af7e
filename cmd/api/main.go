package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ptissem4/RepIq/cmd/api/config"
	"github.com/ptissem4/RepIq/internal/api"
	"github.com/ptissem4/RepIq/internal/auth"
	"github.com/ptissem4/RepIq/internal/database"
	"github.com/ptissem4/RepIq/internal/services"
	"github.com/ptissem4/RepIq/internal/utils/broker"
	"github.com/ptissem4/RepIq/internal/wsocket"

	"github.com/gorilla/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	genaiAPIKey := os.Getenv("GOOGLE_AI_STUDIO_API_KEY")
	if genaiAPIKey == "" {
		log.Fatal("GOOGLE_AI_STUDIO_API_KEY is not set in the environment")
	}

	ctx := context.Background()

	database.InitDB()

	cfg := config.NewConfig()

	stripePublicKey := os.Getenv("STRIPE_PUBLIC_KEY")
	stripeSecretKey := os.Getenv("STRIPE_SECRET_KEY")
	stripeService := services.NewStripeService(stripePublicKey, stripeSecretKey)

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(genaiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	defer genaiClient.Close()

	modelName := os.Getenv("GENAI_MODEL")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	messageBroker := broker.NewBroker()

	userService := services.NewUserService(database.DB)
	scenarioService := services.NewScenarioService(database.DB)
	if err := scenarioService.SeedCatalog(); err != nil {
		log.Fatalf("Failed to seed scenario catalog: %v", err)
	}

	creditService := services.NewCreditService(database.DB, messageBroker, cfg.CreditResetInterval)
	rolePlayService := services.NewRolePlaySessionService(
		genaiClient,
		messageBroker,
		modelName,
		cfg.HeartbeatTimeout,
		cfg.SessionTimeout,
	)
	feedbackService := services.NewFeedbackService(genaiClient, modelName)
	sessionStore := services.NewSessionStore(database.DB)
	progressService := services.NewProgressService(database.DB)
	statsService := services.NewStatsService(database.DB)
	copilotService := services.NewCoPilotService(database.DB, feedbackService)
	reportService := services.NewReportService()

	trainingService := services.NewTrainingService(
		scenarioService,
		creditService,
		rolePlayService,
		feedbackService,
		sessionStore,
		progressService,
		statsService,
		copilotService,
	)

	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(allowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: restrict to ALLOWED_ORIGINS before exposing publicly
		},
	}

	wsHandler := wsocket.NewHandler(trainingService, upgrader)

	api.SetupRoutes(
		r,
		trainingService,
		scenarioService,
		sessionStore,
		copilotService,
		progressService,
		statsService,
		userService,
		reportService,
		stripeService,
	)
	auth.SetupRoutes(r, userService)

	r.GET("/ws", auth.AuthMiddleware(userService), func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			return
		}
		wsHandler.HandleWebSocket(c.Writer, c.Request, user, messageBroker)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
