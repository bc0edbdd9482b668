// Package classify assigns one topical category from the closed set to a
// question text.
package classify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/ports"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderKeyword     = "keyword"
	ProviderNone        = "none"

	defaultTimeout = 30 * time.Second
)

// New creates a Classifier from the classifier config. A provider that
// cannot run (no token, unknown name) yields an Unavailable classifier so
// the aggregation still completes.
func New(cfg config.Classifier) ports.Classifier {
	switch cfg.Provider {
	case ProviderHuggingFace:
		if cfg.Token == "" {
			return Unavailable{Reason: "no Hugging Face token configured"}
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		return NewHuggingFace(cfg.Endpoint, cfg.Model, cfg.Token, &http.Client{Timeout: timeout})
	case ProviderKeyword:
		return Keyword{}
	case ProviderNone, "":
		return Unavailable{Reason: "classification disabled"}
	default:
		return Unavailable{Reason: fmt.Sprintf("unknown classifier provider %q (valid: huggingface, keyword, none)", cfg.Provider)}
	}
}

// Unavailable always fails with models.ErrClassifierUnavailable.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Classify(context.Context, string) (models.Category, error) {
	return models.Unclassified, fmt.Errorf("%w: %s", models.ErrClassifierUnavailable, u.Reason)
}

// candidateLabels is the closed label set sent to zero-shot models.
func candidateLabels() []string {
	all := models.AllCategories()
	labels := make([]string, len(all))
	for i, c := range all {
		labels[i] = string(c)
	}
	return labels
}
