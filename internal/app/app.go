// Package app initializes and orchestrates the main components of the
// ReviewThor application. It wires together configuration, the review
// service client, the GitHub client factory, and the HTTP server.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/krejcif/reviewthor/internal/config"
	"github.com/krejcif/reviewthor/internal/github"
	"github.com/krejcif/reviewthor/internal/jobs"
	"github.com/krejcif/reviewthor/internal/llm"
	"github.com/krejcif/reviewthor/internal/review"
	"github.com/krejcif/reviewthor/internal/server"
)

// App holds the main application components.
type App struct {
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing ReviewThor",
		"review_model", cfg.ReviewModel,
		"token_budget", cfg.TokenBudget,
		"max_files", cfg.MaxFilesPerReview,
	)

	service, err := llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.ReviewModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service client: %w", err)
	}

	defaults, err := config.LoadPolicyDefaults(cfg.PolicyDefaultsPath)
	if err != nil {
		if !errors.Is(err, config.ErrDefaultsNotFound) {
			return nil, fmt.Errorf("failed to load policy defaults: %w", err)
		}
		logger.Warn("policy defaults file not found, using built-in defaults", "path", cfg.PolicyDefaultsPath)
	}

	clients := github.NewInstallationClientFactory(cfg, logger)
	orch := review.NewOrchestrator(service, logger)
	job := jobs.NewReviewJob(cfg, clients, orch, defaults, logger)
	httpServer := server.NewServer(cfg, job, logger)

	logger.Info("ReviewThor initialized successfully")
	return &App{cfg: cfg, server: httpServer, logger: logger}, nil
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting ReviewThor", "server_port", a.cfg.ServerPort)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down ReviewThor")

	if err := a.server.Stop(); err != nil {
		a.logger.Error("error during HTTP server shutdown", "error", err)
		return err
	}

	a.logger.Info("ReviewThor stopped successfully")
	return nil
}
