package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// StatsHandler handles the dashboard, map and monthly report endpoints.
type StatsHandler struct {
	stats  repositories.StatsRepository
	logger *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats repositories.StatsRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// RegisterRoutes registers the stats handler's routes on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard/stats", h.Dashboard)
	mux.HandleFunc("GET /map/markers", h.MapMarkers)
	mux.HandleFunc("GET /sir/stats", h.SIRStats)
}

// Dashboard handles GET /dashboard/stats
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.DashboardStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to gather dashboard stats", zap.Error(err))
		RespondError(w, h.logger, err, "stats_not_found", "Stats not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MapMarkers handles GET /map/markers
func (h *StatsHandler) MapMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.stats.MapMarkers(r.Context())
	if err != nil {
		h.logger.Error("Failed to gather map markers", zap.Error(err))
		RespondError(w, h.logger, err, "markers_not_found", "Markers not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, markers); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SIRStats handles GET /sir/stats. The window defaults to the current
// month when start and end are omitted.
func (h *StatsHandler) SIRStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_start", "Invalid start date, expected YYYY-MM-DD"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_end", "Invalid end date, expected YYYY-MM-DD"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		end = parsed
	}

	stats, err := h.stats.SIRStats(r.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to gather report stats", zap.Error(err))
		RespondError(w, h.logger, err, "stats_not_found", "Stats not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
