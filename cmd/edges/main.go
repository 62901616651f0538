// Package main provides the entry point for the slate evaluation CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/dataset"
	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/injury"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/situation"
	"github.com/yourusername/gridiron-edge/internal/sizing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	season     int
	week       int
	bankroll   float64
	watch      bool
	interval   int

	appLogger *logrus.Logger
	cfg       *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&season, "season", 0, "Season to fetch when a data service is configured")
	rootCmd.Flags().IntVar(&week, "week", 0, "Week to fetch when a data service is configured")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for stake sizing (defaults to backtest.initial_bankroll)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Re-evaluate the slate on an interval until interrupted")
	rootCmd.Flags().IntVar(&interval, "interval", 300, "Polling interval in seconds for --watch")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "edges",
	Short: "Evaluate a point-spread slate for betting edges",
	Long:  `Runs the full rating, situational, injury and calibration pipeline over a slate and prints sized recommendations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger = logger.NewLogger(cfg.App.LogLevel)
		if cfg.IsProduction() {
			appLogger.SetFormatter(&logrus.JSONFormatter{})
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edges %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
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

// pipeline bundles everything one slate evaluation needs. The fetcher
// and repositories are nil unless configured.
type pipeline struct {
	loader   *dataset.Loader
	fetcher  *dataset.Fetcher
	coords   map[string][2]float64
	detector *edge.Detector
	sizer    *sizing.Sizer
	db       *database.DB
	repos    *repository.Repositories
	bankroll decimal.Decimal
}

func (p *pipeline) Close() {
	if p.fetcher != nil {
		p.fetcher.Close()
	}
	if p.db != nil {
		p.db.Close()
	}
}

func buildPipeline(ctx context.Context) (*pipeline, error) {
	loader := dataset.NewLoader(appLogger)

	teams, coords, err := loader.LoadSeedRatings(cfg.Dataset.SeedRatingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed ratings: %w", err)
	}

	store := rating.NewStore()
	store.Seed(teams)
	metrics.SeededTeams.Set(float64(store.Len()))

	engine, err := rating.NewEngine(cfg.League, store, appLogger)
	if err != nil {
		return nil, err
	}
	calculator, err := situation.NewCalculator(situation.DefaultFactorTable(), cfg.Edge.SituationalCap, appLogger)
	if err != nil {
		return nil, err
	}
	valuator, err := injury.NewValuator(injury.DefaultCurveTable(), injury.DefaultPositionValues(),
		cfg.Injury.TeamCapPoints, cfg.Injury.LingeringWindowDays, appLogger)
	if err != nil {
		return nil, err
	}
	detector, err := edge.NewDetector(cfg.Edge, cfg.League.KeyNumbers, engine, calculator, valuator, appLogger)
	if err != nil {
		return nil, err
	}
	sizer, err := sizing.NewSizer(cfg.Sizing, appLogger)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		loader:   loader,
		coords:   coords,
		detector: detector,
		sizer:    sizer,
		bankroll: decimal.NewFromFloat(cfg.Backtest.InitialBankroll),
	}
	if bankroll > 0 {
		p.bankroll = decimal.NewFromFloat(bankroll)
	}

	if cfg.Dataset.ServiceURL != "" {
		p.fetcher, err = dataset.NewFetcher(cfg.Dataset, loader, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create slate fetcher: %w", err)
		}
	}

	if cfg.Database.Enabled {
		p.db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		p.repos, err = repository.NewRepositories(p.db)
		if err != nil {
			return nil, err
		}
		appLogger.Info("Database connection established")
	}

	return p, nil
}

func run(ctx context.Context) error {
	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	if p.fetcher != nil && (season == 0 || week == 0) {
		return fmt.Errorf("--season and --week are required when a data service is configured")
	}

	if !watch {
		return p.evaluate(ctx)
	}
	return runWatch(ctx, p)
}

func runWatch(ctx context.Context, p *pipeline) error {
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLogger.WithField("port", cfg.Metrics.Port).Info("Metrics server started")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	sched := scheduler.NewScheduler(appLogger)
	if err := sched.SchedulePolling(interval, p.evaluate); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	// Evaluate once immediately rather than waiting out the first tick.
	if err := p.evaluate(ctx); err != nil {
		appLogger.WithError(err).Error("Initial slate evaluation failed")
	}

	<-ctx.Done()
	appLogger.Info("Shutting down")
	sched.Stop()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.WithError(err).Error("Metrics server shutdown failed")
		}
	}
	return nil
}

func (p *pipeline) evaluate(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.SlateEvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := p.loadEntries(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nSlate Evaluation (%d games, bankroll $%s)\n", len(entries), p.bankroll.StringFixed(2))
	fmt.Println("------------------------------------------------------------")

	playable := 0
	for _, entry := range entries {
		assessment, err := p.detector.Assess(entry.Context, entry.Line, entry.Injuries)
		if err != nil {
			matchup := fmt.Sprintf("%s@%s", entry.Context.Game.AwayTeam, entry.Context.Game.HomeTeam)
			appLogger.WithError(err).WithField("matchup", matchup).Error("Assessment failed")
			continue
		}

		var stake *models.StakeRecommendation
		if assessment.Playable() {
			stake, err = p.sizer.Size(assessment, p.bankroll)
			if err != nil {
				appLogger.WithError(err).WithField("matchup", assessment.Matchup).Error("Sizing failed")
				continue
			}
			if !stake.IsPass() {
				playable++
			}
		}

		printAssessment(assessment, stake)

		if p.repos != nil {
			if err := p.persist(ctx, assessment, stake); err != nil {
				appLogger.WithError(err).Warn("Failed to persist assessment")
			}
		}
	}

	fmt.Printf("------------------------------------------------------------\n")
	fmt.Printf("%d of %d games produced a sized play\n\n", playable, len(entries))
	return nil
}

func (p *pipeline) loadEntries(ctx context.Context) ([]dataset.Entry, error) {
	if p.fetcher != nil {
		return p.fetcher.FetchSlate(ctx, season, week, p.coords)
	}
	return p.loader.LoadSlate(cfg.Dataset.SlatePath, p.coords)
}

func (p *pipeline) persist(ctx context.Context, assessment *models.EdgeAssessment, stake *models.StakeRecommendation) error {
	if err := p.repos.Assessment.Save(ctx, assessment); err != nil {
		return err
	}
	if stake == nil {
		return nil
	}
	return p.repos.Assessment.SaveStake(ctx, stake)
}

func printAssessment(a *models.EdgeAssessment, stake *models.StakeRecommendation) {
	fmt.Printf("%-24s line %+.1f  model %+.1f  edge %+.2f\n",
		a.Matchup, a.MarketLine, a.CorrectedMargin, a.EdgePoints)

	switch a.Outcome {
	case models.OutcomeRecommended:
		fmt.Printf("  %s %s", a.Classification, a.RecommendedSide)
		if a.KeyNumberCrossed {
			fmt.Print("  (crosses key number)")
		}
		if stake != nil && !stake.IsPass() {
			fmt.Printf("  %.1f stars  $%s (%.2f%% of bankroll)",
				stake.Stars, stake.BetAmount.StringFixed(2), stake.BetPercentage)
		} else {
			fmt.Print("  pass (edge below price floor)")
		}
		fmt.Println()
	case models.OutcomeSuppressed:
		fmt.Println("  suppressed: model disagrees with the market beyond trust")
	case models.OutcomeInsufficientData:
		fmt.Println("  skipped: insufficient data")
	default:
		fmt.Println("  no edge")
	}
}
