package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trivia/internal/trivia/models"
	"trivia/internal/trivia/ports"
	"trivia/pkg/platform/httputil"
)

// Service defines the aggregation operations exposed over HTTP.
type Service interface {
	Run(ctx context.Context, sources []ports.Source) *models.AggregationResult
	Check(ctx context.Context, sources []ports.Source) map[models.SourceName]error
}

// Handler wires trivia endpoints to the aggregator.
type Handler struct {
	service   Service
	sources   []ports.Source
	publisher ports.Publisher
	logger    *slog.Logger
}

// New constructs a trivia handler. publisher may be nil.
func New(service Service, sources []ports.Source, publisher ports.Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   service,
		sources:   sources,
		publisher: publisher,
		logger:    logger,
	}
}

// Register mounts trivia endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/questions/daily", h.HandleDaily)
	r.Get("/healthz", h.HandleHealth)
}

// HealthResponse reports per-source reachability.
type HealthResponse struct {
	Status  string            `json:"status"`
	Sources map[string]string `json:"sources"`
}

// HandleDaily handles GET /questions/daily: one full aggregation run.
func (h *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	result := h.service.Run(ctx, h.sources)

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, result); err != nil {
			h.logger.ErrorContext(ctx, "publishing result failed",
				"request_id", middleware.GetReqID(ctx),
				"run_id", result.RunID,
				"error", err,
			)
		}
	}

	h.logger.InfoContext(ctx, "daily questions served",
		"request_id", middleware.GetReqID(ctx),
		"run_id", result.RunID,
		"total_count", result.TotalCount,
		"skipped", len(result.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleHealth handles GET /healthz. Any unreachable source turns the
// response into a 503.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := h.service.Check(r.Context(), h.sources)

	resp := HealthResponse{Status: "ok", Sources: make(map[string]string, len(health))}
	status := http.StatusOK
	for name, err := range health {
		if err != nil {
			resp.Sources[name.String()] = string(models.KindOf(err))
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Sources[name.String()] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
