package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	platformmetrics "trivia/internal/platform/metrics"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/publish"
	"trivia/internal/trivia/report"
)

type runOptions struct {
	output      string
	metricsFile string
	jsonOnly    bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one aggregation and write the day's question set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregation(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (overrides output.path)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	cmd.Flags().BoolVar(&opts.jsonOnly, "json", false, "print only the JSON document, without the summary")
	return cmd
}

func runAggregation(ctx context.Context, root *rootOptions, opts *runOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.metricsFile != "" {
		cfg.Output.MetricsFile = opts.metricsFile
	}

	a, err := newApp(cfg, root.stderr)
	if err != nil {
		return err
	}
	if len(a.sources) == 0 {
		a.logger.Warn("no sources enabled")
	}

	result := a.service.Run(ctx, a.sources)

	if err := report.WriteJSON(root.stdout, result); err != nil {
		return err
	}
	if err := report.WriteFile(cfg.Output.Path, result); err != nil {
		return err
	}
	if opts.jsonOnly {
		fmt.Fprintf(root.stderr, "Saved to: %s\n", cfg.Output.Path)
	} else {
		fmt.Fprintf(root.stdout, "\nSaved to: %s\n\n", cfg.Output.Path)
		if err := report.Summary(root.stdout, result); err != nil {
			return err
		}
	}

	if cfg.Kafka.Enabled {
		publishResult(ctx, a, result)
	}

	if err := platformmetrics.WriteTextfile(cfg.Output.MetricsFile, a.registry); err != nil {
		a.logger.Warn("writing metrics textfile failed", "path", cfg.Output.MetricsFile, "error", err)
	}
	return nil
}

// publishResult ships the document to Kafka. Failures are logged only.
func publishResult(ctx context.Context, a *app, result *models.AggregationResult) {
	pub, err := publish.NewKafka(a.cfg.Kafka, publish.WithLogger(a.logger))
	if err != nil {
		a.logger.Error("kafka publisher unavailable", "error", err)
		return
	}
	defer pub.Close()

	if err := pub.EnsureTopic(ctx); err != nil {
		a.logger.Error("ensuring kafka topic failed", "topic", a.cfg.Kafka.Topic, "error", err)
		return
	}
	if err := pub.Publish(ctx, result); err != nil {
		a.logger.Error("publishing result failed", "run_id", result.RunID, "error", err)
	}
}
