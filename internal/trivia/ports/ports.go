package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Source,Classifier,Publisher

import (
	"context"

	"trivia/internal/trivia/models"
)

// Source fetches one random question from a single backing store.
//
// Each call opens its own connection and releases it before returning.
// Failures are reported as *models.Failure or wrap one of the
// pkg/platform/sentinel errors.
type Source interface {
	Name() models.SourceName
	FetchRandom(ctx context.Context) (*models.RawRecord, error)
	Health(ctx context.Context) error
}

// Classifier labels question text with a topical category.
// It returns models.ErrClassifierUnavailable when it cannot run.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Category, error)
}

// Publisher ships a finished aggregation document to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, result *models.AggregationResult) error
	Close()
}
