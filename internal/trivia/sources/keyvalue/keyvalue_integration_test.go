//go:build integration

package keyvalue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/sources/keyvalue"
	"trivia/pkg/testutil/containers"
)

type KeyValueSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestKeyValueSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KeyValueSuite))
}

func (s *KeyValueSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *KeyValueSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *KeyValueSuite) source(opts ...keyvalue.Option) *keyvalue.Source {
	return keyvalue.New(models.SourceRedis, config.RedisConfig{URL: s.redis.URL}, opts...)
}

func (s *KeyValueSuite) TestFetchRandomDecodesStoredBlob() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "trivial:game:1",
		`{"txt": "¿Cuál es el elemento más abundante en el universo?", "opts": ["Oxígeno", "Hidrógeno", "Carbono", "Helio"], "ans_idx": 1, "diff": 2, "tstamp": "2025-12-20T10:00:00"}`, 0).Err())
	s.Require().NoError(s.redis.Client.Set(ctx, "other:key", `not json`, 0).Err())

	raw, err := s.source().FetchRandom(ctx)
	s.Require().NoError(err)
	s.Equal("¿Cuál es el elemento más abundante en el universo?", raw.Question)
	s.Equal([]bool{false, true, false, false}, raw.CorrectFlags)
	s.Equal("2", raw.Difficulty)
}

func (s *KeyValueSuite) TestFetchRandomUsesPicker() {
	ctx := context.Background()
	for _, key := range []string{"trivial:game:1", "trivial:game:2", "trivial:game:3"} {
		s.Require().NoError(s.redis.Client.Set(ctx, key, `{"txt": "`+key+`", "opts": ["a"], "ans_idx": 0, "diff": 1}`, 0).Err())
	}

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		idx := i
		raw, err := s.source(keyvalue.WithPicker(func(n int) int {
			s.Equal(3, n)
			return idx
		})).FetchRandom(ctx)
		s.Require().NoError(err)
		seen[raw.Question] = true
	}
	s.Len(seen, 3, "every index selects a distinct key")
}

func (s *KeyValueSuite) TestEmptyStoreIsNotFound() {
	_, err := s.source().FetchRandom(context.Background())
	s.Require().Error(err)
	s.Equal(models.KindNotFound, models.KindOf(err))
}

func (s *KeyValueSuite) TestHealth() {
	s.NoError(s.source().Health(context.Background()))
}
