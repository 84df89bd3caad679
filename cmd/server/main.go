package main

import (
	"contact_flow_app_go/config"
	"contact_flow_app_go/db"
	"contact_flow_app_go/handlers"
	"contact_flow_app_go/models"
	"contact_flow_app_go/realtime"
	"contact_flow_app_go/services"
	"contact_flow_app_go/services/jobs"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Feedback{}, &models.ChatMessage{}, &models.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Relay and services
	hub := realtime.NewHub()
	storage := services.NewStorage(cfg)
	transcripts := services.NewTranscriptService(db.DB, storage)
	feedbackService := services.NewFeedbackService(db.DB, hub,
		services.NewAdminNotifier(db.DB, cfg),
		transcripts,
	)
	chatService := services.NewChatService(db.DB, hub)
	tokens := services.NewResumeTokenIssuer(cfg.SessionSecret, cfg.ResumeTokenTTL)

	h := handlers.New(db.DB, cfg, feedbackService, chatService, tokens, transcripts)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.JSONErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	handlers.RegisterRoutes(e, h, realtime.NewServer(hub, cfg.RelayClientBuffer, cfg.AllowedOrigins))

	// Background jobs
	scheduler, err := jobs.StartScheduler(db.DB)
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule jobs: %v", err)
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
