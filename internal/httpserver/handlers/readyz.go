package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool `json:"ready"`
	Stations int  `json:"stations"`
}

// Readyz reports readiness: the service is ready once the catalog holds
// at least one station.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Matcher.Stats()

		status := http.StatusOK
		if stats.Total == 0 {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:    stats.Total > 0,
			Stations: stats.Total,
		})
	}
}
