package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/httpserver/handlers"
	"github.com/hydrokr/stationd/internal/httpserver/mw"
)

func init() { Register(registerNearby) }

func registerNearby(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/nearby", handlers.Nearby(d))
}
