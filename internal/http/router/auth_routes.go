package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
)

func registerAuthRoutes(r chi.Router, d Deps, requireUser mw.Middleware) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Use(mw.WithNoStore(), mw.WithRateLimit(d.AuthLimiter, "auth"))
		ar.Post("/yandex", d.Controllers.Yandex.Login)
		ar.Get("/yandex/url", d.Controllers.Yandex.AuthURL)
		ar.Post("/login", d.Controllers.Auth.Login)
	})

	r.With(requireUser, mw.WithNoStore()).Get("/users/me", d.Controllers.Auth.Me)
}
