// Package main provides the one-shot prediction run CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/match-oracle/internal/config"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/logger"
	"github.com/yourusername/match-oracle/internal/repository"
	"github.com/yourusername/match-oracle/internal/service"
)

var (
	configFile string
	dateArg    string
	skipApply  bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&dateArg, "date", "d", "", "Target day in YYYY-MM-DD (default: today, UTC)")
	rootCmd.Flags().BoolVar(&skipApply, "skip-apply", false, "Skip applying pending settled results before predicting")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate predictions for one day's fixtures",
	Long:  `Applies pending settled results to team ratings, then regenerates the full prediction set for every fixture kicking off on the target day.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func run(ctx context.Context) error {
	defer db.Close()

	date, err := resolveDate(dateArg)
	if err != nil {
		return err
	}

	engines := service.NewEngines(&cfg.Engine, repos.Team)

	if !skipApply {
		ratingSvc := service.NewRatingService(engines.Rating, engines.RatingStore, repos.Team, repos.Fixture, appLog)
		applied, err := ratingSvc.ApplyPending(ctx, time.Time{})
		if err != nil {
			return fmt.Errorf("failed to apply pending results: %w", err)
		}
		appLog.WithField("applied", applied).Info("Pending results applied")
	}

	predictionSvc := service.NewPredictionService(
		&cfg.Engine, engines.Rating, engines.Estimator, engines.Combiner, repos, appLog,
	)
	if err := predictionSvc.GenerateForDate(ctx, date); err != nil {
		return fmt.Errorf("prediction run failed: %w", err)
	}

	fmt.Printf("Prediction run for %s completed\n", date.Format("2006-01-02"))
	return nil
}

func resolveDate(arg string) (time.Time, error) {
	if arg == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", arg)
	}
	return date, nil
}
