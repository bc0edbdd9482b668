// Package aggregator drives one aggregation run: every source is fetched in
// configured order, normalized and classified, and the survivors are
// collected into a single result document.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trivia/internal/trivia/metrics"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/normalize"
	"trivia/internal/trivia/ports"
)

const DefaultFetchTimeout = 10 * time.Second

// Service orchestrates aggregation runs and source health checks.
type Service struct {
	classifier   ports.Classifier
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
	newID        func() string
	fetchTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the clock used for the run timestamp and for dates
// missing from a record.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRunID overrides run id generation.
func WithRunID(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithFetchTimeout bounds each source's fetch. Non-positive values keep the
// default.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New constructs a Service.
func New(classifier ports.Classifier, opts ...Option) (*Service, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	s := &Service{
		classifier:   classifier,
		logger:       slog.Default(),
		tracer:       otel.Tracer("trivia/aggregator"),
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run fetches one question per source, strictly in order. It never fails:
// every per-source failure becomes a skipped entry and a warning, and a run
// where nothing succeeds still yields an empty, valid result.
func (s *Service) Run(ctx context.Context, sources []ports.Source) *models.AggregationResult {
	start := time.Now()
	runID := s.newID()

	ctx, span := s.tracer.Start(ctx, "aggregator.Run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("sources", len(sources)),
	))
	defer span.End()

	result := &models.AggregationResult{
		RunID:     runID,
		Timestamp: s.now().Format(time.RFC3339),
		Questions: []*models.CanonicalQuestion{},
	}

	for _, src := range sources {
		q, err := s.collect(ctx, src)
		if err != nil {
			kind := models.KindOf(err)
			result.Skipped = append(result.Skipped, models.SkippedSource{
				Source: src.Name(),
				Kind:   kind,
				Reason: err.Error(),
			})
			s.metrics.IncrementOutcome(src.Name().String(), metrics.OutcomeSkipped, string(kind))
			s.logger.WarnContext(ctx, "source skipped",
				"run_id", runID,
				"source", src.Name().String(),
				"kind", string(kind),
				"error", err,
			)
			continue
		}

		result.Questions = append(result.Questions, q)
		s.metrics.IncrementOutcome(src.Name().String(), metrics.OutcomeSucceeded, "")
		s.logger.InfoContext(ctx, "question collected",
			"run_id", runID,
			"source", src.Name().String(),
			"category", q.CategoryLabel(),
		)
	}

	result.TotalCount = len(result.Questions)
	s.metrics.ObserveRun(time.Since(start), result.TotalCount)
	span.SetAttributes(
		attribute.Int("total_count", result.TotalCount),
		attribute.Int("skipped", len(result.Skipped)),
	)
	return result
}

// collect runs one source through fetch, normalize and classify.
func (s *Service) collect(ctx context.Context, src ports.Source) (*models.CanonicalQuestion, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.collect", trace.WithAttributes(
		attribute.String("source", src.Name().String()),
	))
	defer span.End()

	raw, err := s.fetch(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(models.KindOf(err)))
		return nil, err
	}

	q, err := normalize.Normalize(src.Name(), *raw, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(models.KindOf(err)))
		return nil, err
	}

	q.AssignCategory(s.classify(ctx, src.Name(), q.Question))
	span.SetAttributes(attribute.String("category", q.CategoryLabel()))
	return q, nil
}

func (s *Service) fetch(ctx context.Context, src ports.Source) (*models.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	raw, err := src.FetchRandom(ctx)
	s.metrics.ObserveFetchLatency(src.Name().String(), time.Since(start))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewFailure(models.KindSourceUnavailable, src.Name(),
				fmt.Sprintf("fetch exceeded %s", s.fetchTimeout), err)
		}
		return nil, err
	}
	if raw == nil {
		return nil, models.NewFailure(models.KindNotFound, src.Name(), "source returned no record", nil)
	}
	return raw, nil
}

// classify never fails; unavailability and labels outside the closed set
// degrade to Unclassified.
func (s *Service) classify(ctx context.Context, source models.SourceName, text string) models.Category {
	category, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.WarnContext(ctx, "classification degraded",
			"source", source.String(),
			"kind", string(models.KindClassifierUnavailable),
			"error", err,
		)
		category = models.Unclassified
	}
	if parsed, ok := models.ParseCategory(string(category)); ok {
		category = parsed
	} else {
		category = models.Unclassified
	}
	s.metrics.IncrementClassification(string(category))
	return category
}

// Check probes every source concurrently and reports each one's health.
// A nil entry means the source is reachable.
func (s *Service) Check(ctx context.Context, sources []ports.Source) map[models.SourceName]error {
	results := make([]error, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
			results[i] = src.Health(ctx)
			return nil
		})
	}
	_ = g.Wait()

	health := make(map[models.SourceName]error, len(sources))
	for i, src := range sources {
		health[src.Name()] = results[i]
		if results[i] != nil {
			s.logger.WarnContext(ctx, "source unhealthy",
				"source", src.Name().String(),
				"error", results[i],
			)
		}
	}
	return health
}
