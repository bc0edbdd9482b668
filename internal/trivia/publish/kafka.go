// Package publish ships aggregation results to a Kafka topic.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/report"
)

// Record headers.
const (
	HeaderRunID      = "run_id"
	HeaderTotalCount = "total_count"
	HeaderTimestamp  = "timestamp"
)

// Kafka produces one record per aggregation run, keyed by run id.
type Kafka struct {
	client            *kgo.Client
	admin             *kadm.Client
	topic             string
	partitions        int32
	replicationFactor int16
	logger            *slog.Logger
}

type Option func(k *Kafka)

func WithLogger(logger *slog.Logger) Option {
	return func(k *Kafka) {
		k.logger = logger
	}
}

// NewKafka creates a producer for cfg.Topic. Unset partition and replication
// counts fall back to the broker defaults when the topic is created.
func NewKafka(cfg config.Kafka, opts ...Option) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RecordDeliveryTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}

	k := &Kafka{
		client:            client,
		admin:             kadm.NewClient(client),
		topic:             cfg.Topic,
		partitions:        cfg.Partitions,
		replicationFactor: cfg.ReplicationFactor,
		logger:            slog.Default(),
	}
	if k.partitions <= 0 {
		k.partitions = -1
	}
	if k.replicationFactor <= 0 {
		k.replicationFactor = -1
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// EnsureTopic creates the topic unless it already exists.
func (k *Kafka) EnsureTopic(ctx context.Context) error {
	resp, err := k.admin.CreateTopic(ctx, k.partitions, k.replicationFactor, nil, k.topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("creating topic %s: %w", k.topic, err)
	}
	return nil
}

// Publish produces the result synchronously.
func (k *Kafka) Publish(ctx context.Context, result *models.AggregationResult) error {
	rec, err := buildRecord(k.topic, result)
	if err != nil {
		return err
	}
	if err := k.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("producing to %s: %w", k.topic, err)
	}
	k.logger.InfoContext(ctx, "result published",
		"topic", k.topic,
		"run_id", result.RunID,
		"total_count", result.TotalCount,
	)
	return nil
}

// Close flushes nothing; ProduceSync has already waited for delivery.
func (k *Kafka) Close() {
	k.client.Close()
}

func buildRecord(topic string, result *models.AggregationResult) (*kgo.Record, error) {
	value, err := report.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(result.RunID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderRunID, Value: []byte(result.RunID)},
			{Key: HeaderTotalCount, Value: []byte(strconv.Itoa(result.TotalCount))},
			{Key: HeaderTimestamp, Value: []byte(result.Timestamp)},
		},
	}, nil
}
