package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds each component probe in /health.
const healthCheckTimeout = 2 * time.Second

// Component health states.
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthDown     = "down"
	healthDisabled = "disabled"
)

// HealthResponse reports the state of the service and its dependencies.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components"`
}

// handleHealth probes the database and the optional MQTT and InfluxDB
// connections. A database failure answers 503; an optional component that
// is down only degrades the status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     healthOK,
		Version:    s.version,
		Components: make(map[string]string, 3),
	}
	status := http.StatusOK

	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			s.logger.Warn("database health check failed", "error", err)
			resp.Components["database"] = healthDown
			resp.Status = healthDown
			status = http.StatusServiceUnavailable
		} else {
			resp.Components["database"] = healthOK
		}
	}

	probe := func(name string, enabled bool, check func(context.Context) error) {
		if !enabled {
			resp.Components[name] = healthDisabled
			return
		}
		if err := check(ctx); err != nil {
			resp.Components[name] = healthDown
			if resp.Status == healthOK {
				resp.Status = healthDegraded
			}
			return
		}
		resp.Components[name] = healthOK
	}
	probe("mqtt", s.mqtt != nil, func(ctx context.Context) error { return s.mqtt.HealthCheck(ctx) })
	probe("influxdb", s.influx != nil, func(ctx context.Context) error { return s.influx.HealthCheck(ctx) })

	writeJSON(w, status, resp)
}
