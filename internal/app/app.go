package app

import (
	"context"
	"fmt"

	"github.com/riggerhire/rigmatch/internal/config"
	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/riggerhire/rigmatch/internal/logger"
	"github.com/riggerhire/rigmatch/internal/matcher"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App is the dependency container for the CLI application
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Matcher *matcher.Matcher
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	// Flags override the file
	log, err := logger.New(cfg.LogJSON || viper.GetBool("json"), cfg.LogDebug || viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := database.Initialize(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Debug("app initialized",
		zap.String("config", config.GetConfigPath()),
		zap.String("db", cfg.DBPath),
		zap.Int("workers", cfg.Workers),
	)

	return &App{
		Config:  cfg,
		Logger:  log,
		Matcher: matcher.New(matcher.NewRuleScorer(nil), log, cfg.Workers),
	}, nil
}

// RankOptions returns the configured ranking thresholds
func (a *App) RankOptions() matcher.RankOptions {
	return matcher.RankOptions{
		MinScore:      a.Config.MinScore,
		MaxDistanceKm: a.Config.MaxDistanceKm,
	}
}

// Close closes all resources
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return database.Close()
}
