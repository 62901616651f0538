// Package main provides the entry point for the backtest CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/dataset"
	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/injury"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/situation"
	"github.com/yourusername/gridiron-edge/internal/sizing"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		gameLog    = flag.String("game-log", "", "Override game log path")
		seedPath   = flag.String("seed-ratings", "", "Override seed ratings path")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		output     = flag.String("output", "", "Override output path for the JSON report")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	applyOverrides(cfg, *gameLog, *seedPath, *startDate, *endDate, *output)

	log := logger.NewLogger(cfg.App.LogLevel)
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	harness, games := buildReplay(cfg, log)

	log.WithFields(logrus.Fields{
		"games": len(games),
		"start": cfg.Backtest.StartDate,
		"end":   cfg.Backtest.EndDate,
	}).Info("Starting replay")

	report, err := harness.Run(ctx, games)
	if err != nil {
		log.WithError(err).Warn("Replay ended early")
	}
	if report == nil {
		os.Exit(1)
	}

	fmt.Print(backtest.ConsoleReport(report))

	if cfg.Backtest.OutputPath != "" {
		if err := backtest.WriteJSONReport(report, cfg.Backtest.OutputPath); err != nil {
			log.WithError(err).Fatal("Failed to write report")
		}
		log.WithField("path", cfg.Backtest.OutputPath).Info("Report written")
	}

	if cfg.Database.Enabled && cfg.Backtest.PersistReport {
		persistReport(ctx, cfg, report, log)
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	bootstrap := logrus.New()

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, gameLog, seedPath, startDate, endDate, output string) {
	if gameLog != "" {
		cfg.Dataset.GameLogPath = gameLog
	}
	if seedPath != "" {
		cfg.Dataset.SeedRatingsPath = seedPath
	}
	if startDate != "" {
		cfg.Backtest.StartDate = startDate
	}
	if endDate != "" {
		cfg.Backtest.EndDate = endDate
	}
	if output != "" {
		cfg.Backtest.OutputPath = output
	}
}

// buildReplay assembles the full pipeline and loads the date-filtered
// game log.
func buildReplay(cfg *config.Config, log *logrus.Logger) (*backtest.Harness, []backtest.ReplayGame) {
	loader := dataset.NewLoader(log)

	teams, coords, err := loader.LoadSeedRatings(cfg.Dataset.SeedRatingsPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load seed ratings")
	}

	store := rating.NewStore()
	store.Seed(teams)
	metrics.SeededTeams.Set(float64(store.Len()))

	engine, err := rating.NewEngine(cfg.League, store, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create rating engine")
	}

	calculator, err := situation.NewCalculator(situation.DefaultFactorTable(), cfg.Edge.SituationalCap, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create situational calculator")
	}

	valuator, err := injury.NewValuator(injury.DefaultCurveTable(), injury.DefaultPositionValues(),
		cfg.Injury.TeamCapPoints, cfg.Injury.LingeringWindowDays, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create injury valuator")
	}

	detector, err := edge.NewDetector(cfg.Edge, cfg.League.KeyNumbers, engine, calculator, valuator, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create edge detector")
	}

	sizer, err := sizing.NewSizer(cfg.Sizing, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create bet sizer")
	}

	harness, err := backtest.NewHarness(cfg.Backtest, engine, detector, sizer, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create harness")
	}

	entries, err := loader.LoadGameLog(cfg.Dataset.GameLogPath, coords)
	if err != nil {
		log.WithError(err).Fatal("Failed to load game log")
	}

	games := filterByDate(entries, cfg.Backtest.StartDate, cfg.Backtest.EndDate, log)
	return harness, games
}

func filterByDate(entries []dataset.Entry, start, end string, log *logrus.Logger) []backtest.ReplayGame {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		log.WithError(err).Fatal("Invalid start date")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		log.WithError(err).Fatal("Invalid end date")
	}
	endDate = endDate.AddDate(0, 0, 1) // inclusive end day

	games := make([]backtest.ReplayGame, 0, len(entries))
	for _, entry := range entries {
		kickoff := entry.Context.Game.Kickoff
		if kickoff.Before(startDate) || !kickoff.Before(endDate) {
			continue
		}
		games = append(games, backtest.ReplayGame{
			Context:  entry.Context,
			Line:     entry.Line,
			Injuries: entry.Injuries,
		})
	}
	return games
}

func persistReport(ctx context.Context, cfg *config.Config, report *backtest.Report, log *logrus.Logger) {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database, report not persisted")
		return
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.WithError(err).Error("Failed to create repositories")
		return
	}

	id, err := repos.Report.Save(ctx, report)
	if err != nil {
		log.WithError(err).Error("Failed to persist report")
		return
	}
	log.WithField("report_id", id).Info("Report persisted")
}
