package router

import "github.com/go-chi/chi/v5"

func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Health
	r.Get("/health", c.Health)
	r.Get("/readyz", c.Ready)
	if d.Metrics != nil {
		r.Method("GET", "/metrics", d.Metrics)
	}
}
