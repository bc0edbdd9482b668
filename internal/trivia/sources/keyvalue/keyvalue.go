// Package keyvalue reads questions stored as JSON blobs in Redis.
package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"trivia/internal/platform/config"
	"trivia/internal/platform/redis"
	"trivia/internal/trivia/models"
	"trivia/pkg/platform/sentinel"
)

// DefaultKeyPattern matches the keys questions are stored under.
const DefaultKeyPattern = "trivial:game:*"

const scanBatch = 100

// Source picks one key matching a pattern uniformly at random and decodes
// its value.
type Source struct {
	name    models.SourceName
	cfg     config.RedisConfig
	pattern string
	pick    func(n int) int
}

// Option configures a Source.
type Option func(*Source)

// WithKeyPattern overrides DefaultKeyPattern.
func WithKeyPattern(pattern string) Option {
	return func(s *Source) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// WithPicker replaces the random index picker; pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Source) {
		if pick != nil {
			s.pick = pick
		}
	}
}

// New constructs a Redis-backed source.
func New(name models.SourceName, cfg config.RedisConfig, opts ...Option) *Source {
	s := &Source{
		name:    name,
		cfg:     cfg,
		pattern: DefaultKeyPattern,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() models.SourceName {
	return s.name
}

// FetchRandom opens a client, selects a random key and decodes its blob.
func (s *Source) FetchRandom(ctx context.Context) (*models.RawRecord, error) {
	client, err := redis.New(ctx, s.cfg)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "connect", err)
	}
	defer client.Close()

	keys, err := s.matchingKeys(ctx, client)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "scan keys", err)
	}
	if len(keys) == 0 {
		return nil, s.fail(models.KindNotFound, fmt.Sprintf("no keys match %q", s.pattern), sentinel.ErrNotFound)
	}

	key := keys[s.pick(len(keys))]
	blob, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, s.fail(models.KindNotFound, fmt.Sprintf("key %s vanished", key), sentinel.ErrNotFound)
		}
		return nil, s.fail(models.KindSourceUnavailable, "get "+key, err)
	}

	raw, err := decode([]byte(blob))
	if err != nil {
		return nil, s.fail(models.KindMalformedRecord, "decode "+key, err)
	}
	return raw, nil
}

// Health opens a client and pings it.
func (s *Source) Health(ctx context.Context) error {
	client, err := redis.New(ctx, s.cfg)
	if err != nil {
		return s.fail(models.KindSourceUnavailable, "connect", err)
	}
	defer client.Close()
	return client.Health(ctx)
}

func (s *Source) matchingKeys(ctx context.Context, client *redis.Client) ([]string, error) {
	var keys []string
	iter := client.Scan(ctx, 0, s.pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Source) fail(kind models.FailureKind, msg string, err error) error {
	return models.NewFailure(kind, s.name, msg, err)
}

// blob is the stored shape: {"txt", "opts", "ans_idx", "diff", "tstamp"}.
type blob struct {
	Text       string          `json:"txt"`
	Options    []string        `json:"opts"`
	AnswerIdx  *int            `json:"ans_idx"`
	Difficulty json.RawMessage `json:"diff"`
	Timestamp  string          `json:"tstamp"`
}

func decode(data []byte) (*models.RawRecord, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrMalformed, err)
	}

	raw := &models.RawRecord{
		Question:   b.Text,
		Options:    b.Options,
		Difficulty: scalar(b.Difficulty),
		CreatedAt:  b.Timestamp,
	}

	if b.AnswerIdx != nil {
		idx := *b.AnswerIdx
		if idx < 0 || idx >= len(b.Options) {
			return nil, fmt.Errorf("%w: ans_idx %d out of range for %d options", sentinel.ErrMalformed, idx, len(b.Options))
		}
		raw.CorrectFlags = make([]bool, len(b.Options))
		raw.CorrectFlags[idx] = true
	}
	return raw, nil
}

// scalar renders a JSON number or string as plain text.
func scalar(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(v))
	if text == "null" {
		return ""
	}
	return text
}
