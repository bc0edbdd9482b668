// Package document samples one question document from a MongoDB collection.
// Question text, options and answer live in a list of per-language
// localizations; difficulty and creation time sit at the top level.
package document

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"trivia/internal/trivia/models"
	"trivia/pkg/platform/sentinel"
)

const DefaultLanguage = "es"

type localization struct {
	Language string   `bson:"language"`
	Text     string   `bson:"text"`
	Items    []string `bson:"items"`
	OkItem   string   `bson:"ok_item"`
}

type questionDoc struct {
	Difficulty    any            `bson:"difficulty"`
	CreatedAt     any            `bson:"createdAt"`
	Localizations []localization `bson:"localizations"`
}

// Source samples the configured collection.
type Source struct {
	name             models.SourceName
	uri              string
	database         string
	collection       string
	language         string
	selectionTimeout time.Duration
}

// Option configures a Source.
type Option func(*Source)

// WithLanguage selects which localization is read. Empty keeps the default.
func WithLanguage(lang string) Option {
	return func(s *Source) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithSelectionTimeout bounds how long the driver waits for a reachable
// server.
func WithSelectionTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.selectionTimeout = d
		}
	}
}

// New constructs a document source.
func New(name models.SourceName, uri, database, collection string, opts ...Option) *Source {
	s := &Source{
		name:             name,
		uri:              uri,
		database:         database,
		collection:       collection,
		language:         DefaultLanguage,
		selectionTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Name() models.SourceName {
	return s.name
}

func (s *Source) connect(ctx context.Context) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(s.uri).
		SetServerSelectionTimeout(s.selectionTimeout))
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "connect", err)
	}
	return client, nil
}

// FetchRandom samples a single document and extracts the configured
// localization.
func (s *Source) FetchRandom(ctx context.Context) (*models.RawRecord, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	pipeline := mongo.Pipeline{{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}}}
	cursor, err := client.Database(s.database).Collection(s.collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "sample collection", err)
	}
	defer cursor.Close(context.WithoutCancel(ctx))

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, s.fail(models.KindSourceUnavailable, "read sample", err)
		}
		return nil, s.fail(models.KindNotFound, "collection "+s.collection+" is empty", sentinel.ErrNotFound)
	}

	var doc questionDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, s.fail(models.KindMalformedRecord, "decode document", err)
	}

	raw, err := toRaw(doc, s.language)
	if err != nil {
		return nil, s.fail(models.KindMalformedRecord, "extract localization", err)
	}
	return raw, nil
}

// Health connects and pings the primary.
func (s *Source) Health(ctx context.Context) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return s.fail(models.KindSourceUnavailable, "ping", err)
	}
	return nil
}

func (s *Source) fail(kind models.FailureKind, msg string, err error) error {
	return models.NewFailure(kind, s.name, msg, err)
}

func toRaw(doc questionDoc, language string) (*models.RawRecord, error) {
	for _, loc := range doc.Localizations {
		if loc.Language != language {
			continue
		}
		return &models.RawRecord{
			Question:      loc.Text,
			Options:       loc.Items,
			CorrectAnswer: loc.OkItem,
			Difficulty:    scalar(doc.Difficulty),
			CreatedAt:     timestamp(doc.CreatedAt),
		}, nil
	}
	return nil, fmt.Errorf("%w: no %q localization", sentinel.ErrMalformed, language)
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// timestamp renders createdAt, which may be stored as an ISO string or as a
// BSON date.
func timestamp(v any) string {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return scalar(v)
	}
}

