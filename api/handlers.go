package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	rankservice "github.com/rankwatch/rankwatch/app/modules/rank/application"
	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
	rankdb "github.com/rankwatch/rankwatch/app/modules/rank/infrastructure/repositories"
	statsservice "github.com/rankwatch/rankwatch/app/modules/stats/application"
	statsdomain "github.com/rankwatch/rankwatch/app/modules/stats/domain"
	statsqueue "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/queue"
	statsdb "github.com/rankwatch/rankwatch/app/modules/stats/infrastructure/repositories"
	"github.com/rankwatch/rankwatch/internal/observability/attr"
)

// Handlers serves the read API over the rank and stats services.
type Handlers struct {
	rank   rankservice.Service
	stats  statsservice.Service
	queue  statsqueue.QueueService
	logger *slog.Logger
}

// NewHandlers creates the API handler set. queue may be nil when the
// process runs without the scheduler (manual cycles then return 503).
func NewHandlers(rank rankservice.Service, stats statsservice.Service, queue statsqueue.QueueService, logger *slog.Logger) *Handlers {
	return &Handlers{
		rank:   rank,
		stats:  stats,
		queue:  queue,
		logger: logger,
	}
}

type rankView struct {
	Tier     string  `json:"tier"`
	Division string  `json:"division,omitempty"`
	Points   int     `json:"points"`
	Score    float64 `json:"score"`
}

type viewerRankResponse struct {
	ViewerID    string    `json:"viewer_id"`
	DisplayName string    `json:"display_name"`
	Current     rankView  `json:"current"`
	Peak        rankView  `json:"peak"`
	ShowPeak    bool      `json:"show_peak"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetViewerRank returns the stored rank row for a viewer.
func (h *Handlers) GetViewerRank(w http.ResponseWriter, r *http.Request) {
	viewerID := chi.URLParam(r, "viewerID")

	row, err := h.rank.GetViewerRank(r.Context(), viewerID)
	if err != nil {
		if errors.Is(err, rankdb.ErrViewerRankNotFound) {
			http.Error(w, "viewer rank not found", http.StatusNotFound)
			return
		}
		h.writeError(w, r, "Failed to fetch viewer rank", err)
		return
	}

	h.writeJSON(w, r, viewerRankResponse{
		ViewerID:    row.ViewerID,
		DisplayName: row.DisplayName,
		Current:     newRankView(row.CurrentObservation()),
		Peak:        newRankView(row.PeakObservation()),
		ShowPeak:    row.ShowPeak,
		UpdatedAt:   row.UpdatedAt,
	})
}

type showPeakRequest struct {
	ShowPeak bool `json:"show_peak"`
}

// SetShowPeak updates the viewer's peak-vs-current display preference.
func (h *Handlers) SetShowPeak(w http.ResponseWriter, r *http.Request) {
	viewerID := chi.URLParam(r, "viewerID")

	var input showPeakRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.rank.SetShowPeak(r.Context(), viewerID, input.ShowPeak); err != nil {
		if errors.Is(err, rankdb.ErrViewerRankNotFound) {
			http.Error(w, "viewer rank not found", http.StatusNotFound)
			return
		}
		h.writeError(w, r, "Failed to update show peak preference", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetChannelStats returns the all-time stats row for a channel.
func (h *Handlers) GetChannelStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, statsdomain.AllTime())
}

// GetDailyChannelStats returns a daily stats row. The date query parameter
// defaults to the current stat date.
func (h *Handlers) GetDailyChannelStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.stats.StatDate(time.Now().UTC())
	} else if _, err := time.Parse(statsdomain.DateLayout, date); err != nil {
		http.Error(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	h.serveStats(w, r, statsdomain.Day(date))
}

func (h *Handlers) serveStats(w http.ResponseWriter, r *http.Request, window statsdomain.Window) {
	channelID := chi.URLParam(r, "channelID")

	row, err := h.stats.GetChannelStats(r.Context(), channelID, window)
	if err != nil {
		if errors.Is(err, statsdb.ErrStatsNotFound) || errors.Is(err, statsdb.ErrChannelNotFound) {
			http.Error(w, "channel stats not found", http.StatusNotFound)
			return
		}
		h.writeError(w, r, "Failed to fetch channel stats", err)
		return
	}

	h.writeJSON(w, r, row)
}

type manualCycleRequest struct {
	AsOfDate string `json:"as_of_date,omitempty"`
}

// TriggerCycle enqueues an immediate aggregation cycle.
func (h *Handlers) TriggerCycle(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		http.Error(w, "cycle scheduler not available", http.StatusServiceUnavailable)
		return
	}

	var input manualCycleRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if input.AsOfDate != "" {
		if _, err := time.Parse(statsdomain.DateLayout, input.AsOfDate); err != nil {
			http.Error(w, "as_of_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	if err := h.queue.EnqueueManualCycle(r.Context(), input.AsOfDate); err != nil {
		h.writeError(w, r, "Failed to enqueue aggregation cycle", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// Healthz reports process liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func newRankView(o rankdomain.Observation) rankView {
	view := rankView{
		Tier:   o.Tier.String(),
		Points: o.Points,
		Score:  rankdomain.Score(o),
	}
	if o.Division != rankdomain.DivisionNone {
		view.Division = o.Division.String()
	}
	return view
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response", attr.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, attr.Error(err))
	http.Error(w, msg, http.StatusInternalServerError)
}
