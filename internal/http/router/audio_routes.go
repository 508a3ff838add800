package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
)

func registerAudioRoutes(r chi.Router, d Deps, requireUser mw.Middleware) {
	c := d.Controllers.Audio
	r.Route("/audio", func(ar chi.Router) {
		ar.Use(requireUser)
		ar.Post("/upload", c.Upload)
		ar.Get("/", c.List)
		ar.Get("/{id}", c.Get)
		ar.Patch("/{id}", c.Rename)
		ar.Delete("/{id}", c.Delete)
	})
}
