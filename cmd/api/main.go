// @title Dress Code Planner API
// @version 1.0
// @description Event planning with dress-code themes, AI suggestions, and invitations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"dresscodeplanner/config"
	_ "dresscodeplanner/docs"
	"dresscodeplanner/internal/adapters/auth"
	"dresscodeplanner/internal/adapters/email"
	"dresscodeplanner/internal/adapters/openai"
	"dresscodeplanner/internal/adapters/storage"
	"dresscodeplanner/internal/calendar"
	httpdelivery "dresscodeplanner/internal/delivery/http"
	"dresscodeplanner/internal/delivery/http/controllers"
	"dresscodeplanner/internal/delivery/http/middleware"
	"dresscodeplanner/internal/domain"
	"dresscodeplanner/internal/repository/postgres"
	"dresscodeplanner/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	bcryptCost      = 10
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	subscriber := postgres.NewEventSubscriber(cfg.DBUrl, logger)

	// Adapters
	store := storage.New(storage.Config{
		BaseURL:        cfg.Storage.BaseURL,
		AnonKey:        cfg.Storage.AnonKey,
		ServiceRoleKey: cfg.Storage.ServiceRoleKey,
	}, nil)
	aiClient := openai.New(cfg.OpenAI.APIKey, nil)
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokens := auth.NewJWT(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SES.Region,
			AccessKeyID:     cfg.Email.SES.AccessKeyID,
			SecretAccessKey: cfg.Email.SES.SecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	// Services
	models := make([]domain.ModelConfig, 0, len(cfg.OpenAI.ChatModels))
	for _, m := range cfg.OpenAI.ChatModels {
		models = append(models, domain.ModelConfig{Model: m})
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, hasher, tokens, store, cfg.Storage.ProfileBucket, cfg.AdminEmails, serviceTimeout)
	eventService := services.NewEventService(eventRepo, subscriber, store, cfg.Storage.EventBucket, zone, logger, serviceTimeout)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, userRepo, emailService, cfg.AppBaseURL+"/invitations", logger, serviceTimeout)
	suggestionService := services.NewSuggestionService(aiClient, models, cfg.AIEnabled, logger, serviceTimeout)
	imageService := services.NewImageService(aiClient, store, http.DefaultClient, cfg.OpenAI.ImageModel, cfg.Storage.EventBucket, cfg.AIEnabled, logger)

	exporter := calendar.NewExporter(zone)

	mux := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:      logger,
		Verifier:    tokens,
		Users:       userService,
		Auth:        controllers.NewAuthController(logger, userService),
		Events:      controllers.NewEventController(logger, eventService, exporter),
		Invitations: controllers.NewInvitationController(logger, invitationService),
		Suggestions: controllers.NewSuggestionController(logger, suggestionService, imageService),
		Profile:     controllers.NewUserController(logger, userService),
		Admin:       controllers.NewAdminController(logger, userService),
	})

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
