// Package main provides the entry point for the prediction engine daemon.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/match-oracle/internal/config"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/health"
	"github.com/yourusername/match-oracle/internal/logger"
	"github.com/yourusername/match-oracle/internal/metrics"
	"github.com/yourusername/match-oracle/internal/repository"
	"github.com/yourusername/match-oracle/internal/scheduler"
	"github.com/yourusername/match-oracle/internal/service"
)

func main() {
	configPath := os.Getenv("MATCH_ORACLE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Match Oracle engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	engines := service.NewEngines(&cfg.Engine, repos.Team)
	ratingSvc := service.NewRatingService(engines.Rating, engines.RatingStore, repos.Team, repos.Fixture, appLog)
	predictionSvc := service.NewPredictionService(&cfg.Engine, engines.Rating, engines.Estimator, engines.Combiner, repos, appLog)
	cloneSvc := service.NewCloneService(engines.Detector, engines.Rating, repos, appLog)

	sched := scheduler.NewScheduler(appLog)
	if err := sched.SchedulePredictionRun(cfg.Schedule.Predictions, &dailyRun{ratings: ratingSvc, predictions: predictionSvc}); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule prediction run")
	}
	if err := sched.ScheduleCloneDetection(cfg.Schedule.Clones, cloneSvc); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule clone detection")
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = metrics.Handler()
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
		Metrics:     metricsHandler,
		NextRun:     sched.GetNextRun,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)

	appLog.WithField("next_run", sched.GetNextRun()).Info("Engine running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("Shutting down")
	healthServer.SetReady(false)

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Failed to stop scheduler")
	}
	cancel()

	appLog.Info("Engine stopped")
}

// dailyRun applies pending settled results before generating predictions, so
// the daily pass always predicts from up-to-date ratings.
type dailyRun struct {
	ratings     *service.RatingService
	predictions *service.PredictionService
}

func (d *dailyRun) GenerateForDate(ctx context.Context, date time.Time) error {
	if _, err := d.ratings.ApplyPending(ctx, time.Time{}); err != nil {
		return err
	}
	return d.predictions.GenerateForDate(ctx, date)
}
