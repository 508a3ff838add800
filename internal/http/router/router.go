// Package router mounts the controllers on a chi router.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/audiohub/internal/http/controllers"
	httperrors "github.com/dropDatabas3/audiohub/internal/http/errors"
	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
	"github.com/dropDatabas3/audiohub/internal/http/services/auth"
	"github.com/dropDatabas3/audiohub/internal/rate"
)

const APIPrefix = "/api/v1"

type Deps struct {
	Controllers *controllers.Controllers
	Sessions    auth.SessionService

	// AuthLimiter guards /api/v1/auth/*. Nil disables rate limiting.
	AuthLimiter rate.Limiter
	CORSOrigins []string

	// TrustedProxies may set X-Forwarded-For; empty means the peer address is used.
	TrustedProxies []netip.Prefix

	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// New builds the full handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Route(APIPrefix, func(api chi.Router) {
		requireUser := mw.RequireUser(d.Sessions)
		registerAuthRoutes(api, d, requireUser)
		registerAudioRoutes(api, d, requireUser)
		registerAdminRoutes(api, d, requireUser)
	})

	return r
}
