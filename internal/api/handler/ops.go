// Package handler provides HTTP handlers for the HabitLoop API.
package handler

import (
	"net/http"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	readiness func(r *http.Request) error
}

// NewOpsHandler creates a new OpsHandler. readiness may be nil when the
// service has no backing dependencies to check (in-memory mode).
func NewOpsHandler(version, buildTime string, readiness func(r *http.Request) error) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		readiness: readiness,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.readiness != nil {
		if err := h.readiness(r); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"error": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}
