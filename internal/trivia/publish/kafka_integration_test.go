//go:build integration

package publish_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/publish"
	"trivia/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestKafkaSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
}

func (s *KafkaSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Kafka{
		Enabled:           true,
		Brokers:           []string{s.broker.Broker},
		Topic:             "trivia.test-results",
		Partitions:        1,
		ReplicationFactor: 1,
	}
	pub, err := publish.NewKafka(cfg)
	s.Require().NoError(err)
	defer pub.Close()

	s.Require().NoError(pub.EnsureTopic(ctx))
	s.Require().NoError(pub.EnsureTopic(ctx), "existing topic is not an error")

	result := &models.AggregationResult{
		RunID:      "run-42",
		Timestamp:  "2025-12-24T18:30:00Z",
		TotalCount: 0,
		Questions:  []*models.CanonicalQuestion{},
	}
	s.Require().NoError(pub.Publish(ctx, result))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())

	var records []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	s.Require().Len(records, 1)
	s.Equal("run-42", string(records[0].Key))

	var decoded models.AggregationResult
	s.Require().NoError(json.Unmarshal(records[0].Value, &decoded))
	s.Equal("run-42", decoded.RunID)
}
