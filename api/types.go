package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	listHandler    listHandler
	detailHandler  detailHandler
	createHandler  createHandler
	artworkHandler artworkHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Uptime    string         `json:"uptime"`
	Store     StoreHealth    `json:"store"`
	Upstream  UpstreamHealth `json:"upstream"`
}

type StoreHealth struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
}

type UpstreamHealth struct {
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
