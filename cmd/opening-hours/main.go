package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/belphemur/opening-hours/internal/config"
	"github.com/belphemur/opening-hours/internal/database"
	"github.com/belphemur/opening-hours/internal/logging"
	"github.com/belphemur/opening-hours/internal/openinghours"
	appSignals "github.com/belphemur/opening-hours/internal/signals"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultConfigPath = "configs/opening-hours.toml"

func main() {
	// Loaded before logging so ENV can come from .env
	envErr := godotenv.Load()

	// Determine if we're in development mode
	isDev := os.Getenv("ENV") != "production"
	logging.Initialize(isDev)
	logger := logging.GetLogger("main")

	if envErr != nil {
		logger.Debug().Err(envErr).Msg(".env file not found, using process environment")
	}

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting opening-hours")

	// Create context that's canceled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		stop()
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	logger := logging.GetLogger("main")

	// Get config file path from environment or use default
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Stack().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	level := logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Info().Str("log_level", level.String()).Msg("Log level set")

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0755); err != nil {
		logger.Error().Err(err).Str("path", filepath.Dir(cfg.Service.StateFile)).Msg("Failed to create data directory")
		return err
	}

	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database: %w", err)
		logger.Error().Err(wrappedErr).Str("db_path", cfg.Service.StateFile).Msg("Database initialization failed")
		return wrappedErr
	}
	defer db.Close()

	if err := db.MigrateDatabase(); err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database schema: %w", err)
		logger.Error().Err(wrappedErr).Msg("Database schema initialization failed")
		return wrappedErr
	}

	store, err := database.NewRangeStore(db)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize range store: %w", err)
		logger.Error().Err(wrappedErr).Msg("Range store initialization failed")
		return wrappedErr
	}

	appSignals.OnRangeStored(func(ctx context.Context, data appSignals.RangeStoredData) {
		logger.Debug().
			Str("rule", data.Rule).
			Str("range", data.Canonical).
			Int("position", data.Position).
			Msg("Weekday range stored")
	}, "main-range-stored")
	defer appSignals.RemoveRangeStoredListener("main-range-stored")

	if err := saveRules(ctx, store, cfg.Rules); err != nil {
		return err
	}

	stats := store.Stats()
	logger.Info().
		Int("rules", len(cfg.Rules)).
		Int64("inserted", stats.Inserted).
		Int64("duplicates", stats.Duplicates).
		Msg("Rules synchronized")

	for _, arg := range args {
		ranges, err := openinghours.ParseSelector(arg)
		if err != nil {
			logger.Error().Stack().Err(err).Str("selector", arg).Msg("Invalid selector")
			return fmt.Errorf("invalid selector %q: %w", arg, err)
		}
		if _, err := fmt.Fprintln(stdout, openinghours.NewRangeSet(ranges...).String()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return nil
}

// saveRules stores each configured rule, warning about repeated ranges
func saveRules(ctx context.Context, store *database.RangeStore, rules []config.RuleConfig) error {
	logger := logging.GetLogger("main")

	for i := range rules {
		rule := &rules[i]
		set := openinghours.NewRangeSet(rule.Ranges()...)
		if set.Len() < len(rule.Weekdays) {
			logger.Warn().
				Str("rule", rule.Name).
				Int("repeated", len(rule.Weekdays)-set.Len()).
				Msg("Rule lists the same weekday range more than once")
		}

		if _, err := store.Save(ctx, rule.Name, set.Ranges()); err != nil {
			logger.Error().Stack().Err(err).Str("rule", rule.Name).Msg("Failed to save rule")
			return err
		}
	}
	return nil
}
