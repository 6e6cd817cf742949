package handlers

import (
	"net/http"
	"strings"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
)

const (
	defaultRadiusKM = 20
	defaultPriority = "distance"
)

// Nearby recommends stations relevant to a location. Radius and priority
// are echoed back; ranking is by name/region relevance.
func Nearby(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location := strings.TrimSpace(r.URL.Query().Get("location"))
		if location == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter 'location'")
			return
		}

		radius := parseLimitParam(r.URL.Query().Get("radius"), defaultRadiusKM)
		priority := strings.TrimSpace(r.URL.Query().Get("priority"))
		if priority == "" {
			priority = defaultPriority
		}

		writeJSON(w, http.StatusOK, d.Pipeline.Nearby(location, radius, priority))
	}
}
