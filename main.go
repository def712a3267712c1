package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"devshare/internal/auth"
	"devshare/internal/db"
	"devshare/internal/handlers"
	"devshare/internal/middleware"
	"devshare/internal/observability"
	"devshare/internal/repositories"
	"devshare/internal/telemetry"
	"devshare/internal/ws"
)

func main() {
	_ = godotenv.Load(".env.local")

	environment := getEnv("APP_ENV", "development")

	shutdownTracing := telemetry.SetupTracing("devshare")
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if environment == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Println("JWT_SECRET not set, using development fallback")
		secret = "dev-secret-change-me"
	}

	var publisher observability.Publisher
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("AMQP_EXCHANGE", "devshare.events"))
		if err != nil {
			log.Printf("amqp disabled: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}
	observability.SetPublisher(publisher)

	audit := telemetry.NewAuditEmitter(publisher, "audit.devshare", "devshare", environment)

	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	projectRepo := repositories.NewProjectRepo(database)
	engagementRepo := repositories.NewEngagementRepo(database)

	sessions := auth.NewSessionManager(userRepo, []byte(secret), auth.DefaultTokenTTL, environment == "production")

	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(sessions, audit)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, hub, audit)
	projectHandler := handlers.NewProjectHandler(projectRepo, engagementRepo, audit)
	messageWS := ws.NewMessageSocketHandler(hub, sessions)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware("devshare"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireSession := middleware.RequireSession(sessions)
	optionalSession := middleware.OptionalSession(sessions)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authHandler.Logout)
	router.GET("/auth/session", authHandler.Session)

	router.GET("/messages", requireSession, messageHandler.List)
	router.POST("/messages", requireSession, messageHandler.Send)

	router.GET("/projects", optionalSession, projectHandler.List)
	router.POST("/projects", requireSession, projectHandler.Create)
	router.GET("/projects/:id", optionalSession, projectHandler.Get)
	router.PUT("/projects/:id", requireSession, projectHandler.Update)
	router.DELETE("/projects/:id", requireSession, projectHandler.Delete)
	router.POST("/projects/:id/like", requireSession, projectHandler.Like)
	router.DELETE("/projects/:id/like", requireSession, projectHandler.Unlike)
	router.POST("/projects/:id/repost", requireSession, projectHandler.Repost)
	router.DELETE("/projects/:id/repost", requireSession, projectHandler.Unrepost)
	router.GET("/projects/:id/comments", projectHandler.ListComments)
	router.POST("/projects/:id/comments", requireSession, projectHandler.CreateComment)

	router.GET("/ws/messages", messageWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, hub, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
