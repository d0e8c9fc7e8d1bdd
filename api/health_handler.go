package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/travel-planner/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "travel-planner"

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	client      travelAPI
	version     string
	startupTime time.Time
}

func newHealthHandler(db database.Database, client travelAPI, version string, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		client:      client,
		version:     version,
		startupTime: startupTime,
	}
}

// health is GET /healthz. A failing draft store degrades the service.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeStatus := h.db.Status(r.Context())
		metrics := h.client.Metrics()

		response := HealthResponse{
			Status:    "healthy",
			Service:   serviceName,
			Version:   h.version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
			Store: StoreHealth{
				Backend: h.db.Store().Name(),
				Status:  storeStatus,
			},
			Upstream: UpstreamHealth{
				Calls:        metrics.Calls,
				Errors:       metrics.Errors,
				AvgLatencyMs: metrics.AvgLatencyMs,
			},
		}

		if storeStatus != "ok" {
			response.Status = "degraded"
			h.logger.Warn().Str("store", response.Store.Backend).Msg("draft store unavailable")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		h.responder.WriteJSON(w, response)
	}
}
