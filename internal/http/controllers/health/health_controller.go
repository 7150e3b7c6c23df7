// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/myglobyx/globyx-api/internal/http/helpers"
	svc "github.com/myglobyx/globyx-api/internal/http/services/health"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
)

// HealthController maneja las rutas de health check.
type HealthController struct {
	service svc.Service
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

// Healthz maneja GET /healthz (liveness, sin dependencias).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Readyz maneja GET /readyz (readiness con chequeo de dependencias).
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	response := c.service.Check(ctx)

	statusCode := http.StatusOK
	if response.Status == "unavailable" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)

	helpers.WriteJSON(w, statusCode, response)
}
