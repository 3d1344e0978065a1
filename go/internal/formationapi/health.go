package formationapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthStatus struct {
	Healthy           bool     `json:"healthy"`
	DatabaseConnected *bool    `json:"database_connected,omitempty"`
	NATSConnected     *bool    `json:"nats_connected,omitempty"`
	Watchers          int      `json:"watchers"`
	Errors            []string `json:"errors"`
}

// ConnectionChecker is satisfied by JetStreamPublisher
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthChecker reports the state of the service dependencies. A nil db or
// nats checker means the dependency is not configured and is left out.
type HealthChecker struct {
	db   *sql.DB
	nats ConnectionChecker
	hub  *Hub
}

func NewHealthChecker(db *sql.DB, nats ConnectionChecker, hub *Hub) *HealthChecker {
	return &HealthChecker{db: db, nats: nats, hub: hub}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	if h.db != nil {
		connected := true
		if err := h.db.PingContext(ctx); err != nil {
			connected = false
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
		}
		status.DatabaseConnected = &connected
	}

	if h.nats != nil {
		connected := h.nats.IsConnected()
		if !connected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
		status.NATSConnected = &connected
	}

	if h.hub != nil {
		status.Watchers = h.hub.TotalWatchers()
	}
	return status
}

// ServeHTTP answers 200 when healthy and 503 otherwise
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := h.Check(ctx)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		log.Warn().Strs("errors", status.Errors).Msg("health check failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to write health response")
	}
}
