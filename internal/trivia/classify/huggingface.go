package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trivia/internal/trivia/models"
)

const (
	DefaultEndpoint = "https://api-inference.huggingface.co/models"
	DefaultModel    = "facebook/bart-large-mnli"
)

// HuggingFace calls a hosted zero-shot classification model.
type HuggingFace struct {
	url    string
	token  string
	client *http.Client
}

// NewHuggingFace builds a zero-shot classifier. Empty endpoint or model fall
// back to the public inference API and bart-large-mnli.
func NewHuggingFace(endpoint, model, token string, client *http.Client) *HuggingFace {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HuggingFace{
		url:    strings.TrimRight(endpoint, "/") + "/" + model,
		token:  token,
		client: client,
	}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

// zeroShotResponse is the classic inference API shape: parallel label and
// score slices sorted by score.
type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// labelScore is the router API shape: a list of label/score pairs.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest scoring label. Transport and API failures
// wrap models.ErrClassifierUnavailable.
func (h *HuggingFace) Classify(ctx context.Context, text string) (models.Category, error) {
	body, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: candidateLabels()},
	})
	if err != nil {
		return models.Unclassified, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return models.Unclassified, fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return models.Unclassified, fmt.Errorf("%w: huggingface request: %v", models.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.Unclassified, fmt.Errorf("%w: huggingface API %d: %s", models.ErrClassifierUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Unclassified, fmt.Errorf("%w: read response: %v", models.ErrClassifierUnavailable, err)
	}
	label, err := topLabel(raw)
	if err != nil {
		return models.Unclassified, fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}

	category, _ := models.ParseCategory(label)
	return category, nil
}

func topLabel(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pairs []labelScore
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(pairs) == 0 {
			return "", fmt.Errorf("empty huggingface response")
		}
		best := pairs[0]
		for _, p := range pairs[1:] {
			if p.Score > best.Score {
				best = p
			}
		}
		return best.Label, nil
	}

	var zr zeroShotResponse
	if err := json.Unmarshal(trimmed, &zr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(zr.Labels) == 0 {
		return "", fmt.Errorf("empty huggingface response")
	}
	best := 0
	for i := range zr.Labels {
		if i < len(zr.Scores) && zr.Scores[i] > zr.Scores[best] {
			best = i
		}
	}
	return zr.Labels[best], nil
}
