// Package cli wires the configuration, embedding model, clustering pipeline
// and renderers behind the titlecluster command.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"titlecluster/internal/config"
	"titlecluster/internal/corpus"
	"titlecluster/internal/embedding"
	"titlecluster/internal/kmeans"
	"titlecluster/internal/logging"
	"titlecluster/internal/report"
	"titlecluster/internal/segmenter"
	"titlecluster/internal/service"
	"titlecluster/internal/summarizer"
	"titlecluster/internal/tui"
	"titlecluster/internal/vectorizer"
	"titlecluster/internal/vectorstore/memory"
)

type rootOptions struct {
	configPath string
	modelPath  string
	modelType  string
	segmenter  string
	initName   string
	seed       int64
	maxIter    int
	workers    int
	format     string
	samples    int
	logLevel   string
}

// NewRootCmd builds the titlecluster command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "titlecluster [files...]",
		Short:         "Cluster short titles by averaged word embeddings and rank clusters by cohesion",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default ./titlecluster.yaml or ~/.config/titlecluster/config.yaml)")
	f.StringVarP(&opts.modelPath, "model", "m", "", "embedding model path")
	f.StringVar(&opts.modelType, "model-type", "", "embedding format: text, word2vec-bin or sqlite")
	f.StringVar(&opts.segmenter, "segmenter", "", "tokenizer: whitespace, words or gse")
	f.StringVar(&opts.initName, "init", "", "centroid seeding: kmeans++ or random")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible clustering")
	f.IntVar(&opts.maxIter, "max-iter", 0, "maximum k-means iterations")
	f.IntVar(&opts.workers, "workers", 0, "parallel assignment workers")
	f.StringVarP(&opts.format, "format", "f", "", "output: text, json or tui")
	f.IntVar(&opts.samples, "samples", 0, "members shown per cluster")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newImportModelCmd())
	return cmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	_ = godotenv.Load()
	if err := NewRootCmd().Execute(); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("titlecluster failed")
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if opts.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(opts.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Embedding.Path = opts.modelPath
	}
	if f.Changed("model-type") {
		cfg.Embedding.Type = opts.modelType
	}
	if f.Changed("segmenter") {
		cfg.Segmenter.Type = opts.segmenter
	}
	if f.Changed("init") {
		cfg.Cluster.Init = opts.initName
	}
	if f.Changed("seed") {
		seed := opts.seed
		cfg.Cluster.Seed = &seed
	}
	if f.Changed("max-iter") {
		cfg.Cluster.MaxIterations = opts.maxIter
	}
	if f.Changed("workers") {
		cfg.Cluster.Workers = opts.workers
	}
	if f.Changed("format") {
		cfg.Report.Format = opts.format
	}
	if f.Changed("samples") {
		cfg.Report.SampleSize = opts.samples
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCluster(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	model, err := embedding.Open(cfg.Embedding)
	if err != nil {
		return err
	}
	defer model.Close()
	logger.Info().
		Str("model", cfg.Embedding.Path).
		Str("backend", model.Name()).
		Int("dimension", model.Dimension()).
		Msg("embedding model loaded")

	seg, err := segmenter.New(cfg.Segmenter)
	if err != nil {
		return err
	}
	vec, err := vectorizer.New(model)
	if err != nil {
		return err
	}
	initFn, err := kmeans.InitializerByName(cfg.Cluster.Init)
	if err != nil {
		return err
	}
	engineOpts := []kmeans.Option{
		kmeans.WithMaxIterations(cfg.Cluster.MaxIterations),
		kmeans.WithInit(initFn),
		kmeans.WithWorkers(cfg.Cluster.Workers),
		kmeans.WithLogger(logger),
	}
	if cfg.Cluster.Seed != nil {
		engineOpts = append(engineOpts, kmeans.WithSeed(*cfg.Cluster.Seed))
	}

	svc := service.NewClusterService(
		corpus.NewLoader(seg, logger),
		vec,
		kmeans.New(engineOpts...),
		memory.NewStorage(),
		summarizer.NewKeywordExtractor(),
		cfg.Report.Keywords,
		logger,
	)
	res, err := svc.Run(args)
	if err != nil {
		return err
	}
	logger.Info().
		Int("sentences", len(res.Sentences)).
		Int("clusters", len(res.Clusters)).
		Int("iterations", res.Iterations).
		Bool("converged", res.Converged).
		Int64("seed", res.Seed).
		Msg("clustering finished")

	if cfg.Report.Format == "tui" {
		p := tea.NewProgram(tui.New(svc, res, cfg.Report.SampleSize), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}
	f, err := report.New(cfg.Report.Format, cfg.Report.SampleSize)
	if err != nil {
		return err
	}
	return f.Format(cmd.OutOrStdout(), res)
}
