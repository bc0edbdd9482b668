package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"trivia/internal/platform/httpserver"
	httptransport "trivia/internal/transport/http"
	"trivia/internal/trivia/classify"
	"trivia/internal/trivia/handler"
	"trivia/internal/trivia/ports"
	"trivia/internal/trivia/publish"
	"trivia/pkg/platform/circuit"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the daily question set over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			a, err := newApp(cfg, root.stderr, withClassifier(guard))
			if err != nil {
				return err
			}

			var publisher ports.Publisher
			if cfg.Kafka.Enabled {
				pub, err := publish.NewKafka(cfg.Kafka, publish.WithLogger(a.logger))
				if err != nil {
					return err
				}
				defer pub.Close()
				if err := pub.EnsureTopic(cmd.Context()); err != nil {
					a.logger.Error("ensuring kafka topic failed", "topic", cfg.Kafka.Topic, "error", err)
				}
				publisher = pub
			}

			h := handler.New(a.service, a.sources, publisher, a.logger)
			router := httptransport.NewRouter(a.logger, a.registry, h)
			return httpserver.Run(cmd.Context(), httpserver.New(cfg.Server.Addr, router), a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// guard wraps the classifier in a circuit breaker so a dead endpoint is not
// retried on every request.
func guard(c ports.Classifier, logger *slog.Logger) ports.Classifier {
	return classify.NewGuarded(c, circuit.New("classifier"), logger)
}
