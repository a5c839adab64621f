package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/remexre/nihctfplat/internal/handler"
	"github.com/remexre/nihctfplat/internal/mailer"
	"github.com/remexre/nihctfplat/internal/repository"
	"github.com/remexre/nihctfplat/internal/router"
	"github.com/remexre/nihctfplat/internal/service"
	"github.com/remexre/nihctfplat/internal/store"
	"github.com/remexre/nihctfplat/internal/view"
	config2 "github.com/remexre/nihctfplat/pkg/config"
)

func main() {
	// Configure logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config2.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Apply schema migrations
	if err := store.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to database
	pool, err := config2.MustInitDB(context.Background(), *cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	exec := store.NewExecutor(pool, cfg.ExecutorWorkers)
	defer exec.Close()

	slog.Info("successfully connected to database")

	// Initialize repositories
	userRepo := repository.NewUserRepository(exec)
	teamRepo := repository.NewTeamRepository(exec)
	loginRepo := repository.NewLoginRepository(exec)
	authRepo := repository.NewAuthRepository(exec)

	// Initialize collaborators
	renderer, err := view.New()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	smtp, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		Insecure: cfg.SMTPInsecure,
	})
	if err != nil {
		slog.Error("failed to configure mailer", "error", err)
		os.Exit(1)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize services
	authService := service.NewAuthService(authRepo, userRepo)
	loginService := service.NewLoginService(loginRepo, userRepo, renderer, smtp, cfg.BaseURL)
	userService := service.NewUserService(userRepo, loginService)
	teamService := service.NewTeamService(teamRepo)

	// Initialize handlers
	pageHandler := handler.NewPageHandler(renderer)
	authHandler := handler.NewAuthHandler(userService, loginService, renderer, validate)
	teamHandler := handler.NewTeamHandler(teamService, renderer, validate)

	slog.Info("successfully configured services and handlers")

	// Setup router
	r := router.SetupRouter(pageHandler, authHandler, teamHandler, authService, teamService)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
