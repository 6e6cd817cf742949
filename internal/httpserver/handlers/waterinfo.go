package handlers

import (
	"net/http"
	"strings"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/logger"
)

// WaterInfo is the main surface: resolve the query, fetch live data for
// the top stations and return the synthesized answer. A query matching
// nothing is a 200 with status "no_match" and suggestions, not an error.
func WaterInfo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter 'q'")
			return
		}

		typ, ok := parseTypeParam(r.URL.Query().Get("type"))
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid station type, want dam|waterlevel|rainfall")
			return
		}

		result := d.Pipeline.WaterInfo(r.Context(), query, typ)

		d.Logger.Info("waterinfo request",
			logger.String("query", query),
			logger.String("status", result.Status),
			logger.Int("stations", result.FoundStations))

		writeJSON(w, http.StatusOK, result)
	}
}
