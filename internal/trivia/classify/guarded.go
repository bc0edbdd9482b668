package classify

import (
	"context"
	"fmt"
	"log/slog"

	"trivia/internal/trivia/models"
	"trivia/internal/trivia/ports"
	"trivia/pkg/platform/circuit"
)

// Guarded stops calling a failing classifier until the breaker lets a probe
// through. Long-running processes use it so a dead endpoint does not cost a
// full timeout per question.
type Guarded struct {
	next    ports.Classifier
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuarded wraps next with breaker.
func NewGuarded(next ports.Classifier, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

func (g *Guarded) Classify(ctx context.Context, text string) (models.Category, error) {
	if !g.breaker.Allow() {
		return models.Unclassified, fmt.Errorf("%w: circuit %s open", models.ErrClassifierUnavailable, g.breaker.Name())
	}

	category, err := g.next.Classify(ctx, text)
	if err != nil {
		// The caller gave up; that says nothing about the classifier.
		if ctx.Err() != nil {
			return category, err
		}
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "classifier circuit opened", "circuit", g.breaker.Name(), "error", err)
		}
		return category, err
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "classifier circuit closed", "circuit", g.breaker.Name())
	}
	return category, nil
}
