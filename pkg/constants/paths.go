package constants

// Пути health, ready, metrics и WebSocket событий.
const (
	PathHealth  = "/health"
	PathReady   = "/ready"
	PathMetrics = "/metrics"
	PathEvents  = "/ws/events"
)
