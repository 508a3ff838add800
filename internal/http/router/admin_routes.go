package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/audiohub/internal/http/middlewares"
)

func registerAdminRoutes(r chi.Router, d Deps, requireUser mw.Middleware) {
	c := d.Controllers.Admin
	r.Route("/admin/users", func(ar chi.Router) {
		ar.Use(requireUser, mw.RequireSuperuser(), mw.WithNoStore())
		ar.Get("/", c.List)
		ar.Post("/", c.Create)
		ar.Patch("/{id}", c.Update)
		ar.Post("/{id}/deactivate", c.Deactivate)
		ar.Delete("/{id}", c.Delete)
	})
}
