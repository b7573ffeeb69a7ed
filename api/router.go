package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP read API.
func NewRouter(handlers *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", handlers.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/viewers/{viewerID}", func(r chi.Router) {
			r.Get("/rank", handlers.GetViewerRank)
			r.Put("/peak-visibility", handlers.SetShowPeak)
		})

		r.Route("/channels/{channelID}", func(r chi.Router) {
			r.Get("/stats", handlers.GetChannelStats)
			r.Get("/stats/daily", handlers.GetDailyChannelStats)
		})

		r.Post("/admin/cycles", handlers.TriggerCycle)
	})

	return r
}
