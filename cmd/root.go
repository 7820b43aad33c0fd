package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/shortlist/internal/adapters/mq/worker"
	"github.com/okian/shortlist/internal/adapters/repository"
	service "github.com/okian/shortlist/internal/app"
	"github.com/okian/shortlist/internal/config"
	"github.com/okian/shortlist/internal/domain/scoring"
	"github.com/okian/shortlist/internal/domain/vectorspace"
	"github.com/okian/shortlist/pkg/logger"
	"github.com/okian/shortlist/pkg/metrics"
)

// cli carries what every subcommand needs once the root has loaded config.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "shortlist",
		Short: "Assessment recommendation engine",
		Long: "shortlist ranks catalog assessments for a free-text hiring query. " +
			"Configuration comes from SHORTLIST_* environment variables and the YAML file named by SHORTLIST_CONFIG.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
	}
	root.AddCommand(
		newServeCmd(c),
		newRecommendCmd(c),
		newEvaluateCmd(c),
		newPredictCmd(c),
		newLoadtestCmd(c),
	)
	return root
}

// setup loads configuration, initializes the global logger and rebuilds the
// metrics manager. Logs go to stderr so command output on stdout stays
// machine readable.
func (c *cli) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	metrics.Configure(metricsOptions(cfg)...)
	c.cfg = cfg
	c.log = logger.Get()
	return nil
}

// metricsOptions maps configuration onto the metrics manager.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(cfg.MetricsRefreshInterval),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	}
}

// engineOptions maps configuration onto engine options.
func (c *cli) engineOptions() []service.Option {
	return []service.Option{
		service.WithLogger(c.log.Named("engine")),
		service.WithDefaultTopK(c.cfg.DefaultTopK),
		service.WithMaxResults(c.cfg.MaxResults),
		service.WithCandidatePool(c.cfg.CandidatePool),
		service.WithMinResults(c.cfg.MinResults),
		service.WithDurationTolerance(c.cfg.DurationTolerance),
		service.WithBoostOptions(
			scoring.WithExactMultiplier(c.cfg.ExactBoost),
			scoring.WithFuzzyMultiplier(c.cfg.FuzzyBoost),
			scoring.WithFuzzyThreshold(c.cfg.FuzzyThreshold),
		),
		service.WithVectorOptions(
			vectorspace.WithMaxFeatures(c.cfg.MaxFeatures),
			vectorspace.WithMaxDF(c.cfg.MaxDF),
		),
	}
}

func (c *cli) repoOptions() []repository.Option {
	return []repository.Option{repository.WithLogger(c.log.Named("repository"))}
}

// loadEngine builds the engine from the configured catalog and training log.
func (c *cli) loadEngine(ctx context.Context) (*service.Engine, error) {
	cat := repository.NewFileCatalog(c.cfg.CatalogPath, c.repoOptions()...)
	var train repository.TrainingSource
	if c.cfg.TrainingPath != "" {
		train = repository.NewFileTraining(c.cfg.TrainingPath, c.repoOptions()...)
	}
	return service.Load(ctx, cat, train, c.engineOptions()...)
}

// pool returns a batch runner around rec sized by configuration.
func (c *cli) pool(rec worker.Recommender) *worker.Pool {
	return worker.NewPool(rec,
		worker.WithWorkers(c.cfg.BatchWorkers),
		worker.WithQueueCapacity(c.cfg.BatchQueueSize),
		worker.WithPoolLogger(c.log),
	)
}
