package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"trivia/internal/platform/config"
	"trivia/internal/platform/logger"
	platformmetrics "trivia/internal/platform/metrics"
	"trivia/internal/trivia/aggregator"
	"trivia/internal/trivia/classify"
	"trivia/internal/trivia/metrics"
	"trivia/internal/trivia/ports"
	"trivia/internal/trivia/sources"
)

type rootOptions struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:          "trivia",
		Short:        "Daily trivia question aggregator",
		Long:         "trivia pulls one random question from each configured store, normalizes and classifies it, and emits the day's question set as JSON.",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default "+config.DefaultConfigPath()+")")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newVersionCmd(opts))
	return root
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "trivia %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// app holds the components shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	sources    []ports.Source
	classifier ports.Classifier
	service    *aggregator.Service
}

type appOption func(*app)

// withClassifier replaces the configured classifier.
func withClassifier(wrap func(ports.Classifier, *slog.Logger) ports.Classifier) appOption {
	return func(a *app) {
		a.classifier = wrap(a.classifier, a.logger)
	}
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config, stderr io.Writer, opts ...appOption) (*app, error) {
	log := logger.NewWithWriter(stderr, cfg.Log)

	reg, err := sources.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	promReg := platformmetrics.NewRegistry()
	a := &app{
		cfg:        cfg,
		logger:     log,
		registry:   promReg,
		metrics:    metrics.New(promReg),
		sources:    reg.All(),
		classifier: classify.New(cfg.Classifier),
	}
	for _, opt := range opts {
		opt(a)
	}

	svc, err := aggregator.New(a.classifier,
		aggregator.WithLogger(log),
		aggregator.WithMetrics(a.metrics),
		aggregator.WithFetchTimeout(cfg.FetchTimeout),
	)
	if err != nil {
		return nil, err
	}
	a.service = svc
	return a, nil
}
