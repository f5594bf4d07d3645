package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"watershed/internal/directory/models"
	"watershed/internal/directory/service"
	"watershed/internal/jurisdiction"
	"watershed/pkg/platform/httputil"
	"watershed/pkg/requestcontext"
)

// Service defines the interface for location resolution.
type Service interface {
	ResolveLocation(ctx context.Context, q service.Query) (*models.ResolvedLocation, error)
}

// Handler wires location endpoints to the directory service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a location handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts location endpoints on the router. Path segments are
// lowercase hyphenated slugs ("santa-monica"); the resource kind comes
// from the ?kind query parameter and defaults to greywater.
func (h *Handler) Register(r chi.Router) {
	r.Get("/locations/{state}", h.HandleState)
	r.Get("/locations/{state}/{county}", h.HandleCounty)
	r.Get("/locations/{state}/{county}/{city}", h.HandleCity)
}

// HandleState handles GET /locations/{state} requests.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, service.Query{
		Level:     jurisdiction.LevelState,
		StateCode: strings.ToUpper(chi.URLParam(r, "state")),
	})
}

// HandleCounty handles GET /locations/{state}/{county} requests.
func (h *Handler) HandleCounty(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, service.Query{
		Level:      jurisdiction.LevelCounty,
		StateCode:  strings.ToUpper(chi.URLParam(r, "state")),
		CountyName: jurisdiction.NameFromSlug(chi.URLParam(r, "county")),
	})
}

// HandleCity handles GET /locations/{state}/{county}/{city} requests.
func (h *Handler) HandleCity(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, service.Query{
		Level:      jurisdiction.LevelCity,
		StateCode:  strings.ToUpper(chi.URLParam(r, "state")),
		CountyName: jurisdiction.NameFromSlug(chi.URLParam(r, "county")),
		CityName:   jurisdiction.NameFromSlug(chi.URLParam(r, "city")),
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, q service.Query) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	q.ResourceKind = models.NormalizeResourceKind(r.URL.Query().Get("kind"))
	if q.ResourceKind == models.ResourceAny {
		q.ResourceKind = models.ResourceGreywater
	}

	result, err := h.service.ResolveLocation(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "location resolution failed",
			"request_id", requestID,
			"level", q.Level,
			"state", q.StateCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "location resolved",
		"request_id", requestID,
		"level", q.Level,
		"state", q.StateCode,
		"kind", q.ResourceKind,
		"incentives", result.Summary.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}
