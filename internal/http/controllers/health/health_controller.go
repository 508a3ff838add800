// Package health contains the liveness and readiness handlers.
package health

import (
	"net/http"

	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	"github.com/dropDatabas3/audiohub/internal/http/helpers"
	svc "github.com/dropDatabas3/audiohub/internal/http/services/health"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

type HealthController struct {
	service svc.Service
}

func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

// Health handles GET /health. It never touches dependencies.
func (c *HealthController) Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz: 200 when every dependency answers, else 503
// with the full report as body.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	rep := c.service.Readiness(r.Context())
	if rep.Version != "" {
		w.Header().Set("X-Service-Version", rep.Version)
	}
	if rep.Ready() {
		helpers.WriteJSON(w, http.StatusOK, rep)
		return
	}

	unavailable := httperrors.ErrServiceUnavailable
	logger.From(r.Context()).Warn("readiness check failed",
		logger.Layer("controller"), logger.Op("HealthController.Ready"),
		logger.String("code", unavailable.Code), logger.Int("checks", len(rep.Checks)))
	w.Header().Set("X-Error-Code", unavailable.Code)
	helpers.WriteJSON(w, unavailable.HTTPStatus, rep)
}
