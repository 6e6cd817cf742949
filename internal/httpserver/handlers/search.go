package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/pipeline"
	"github.com/hydrokr/stationd/internal/search"
)

type searchResponse struct {
	Query    string                   `json:"query"`
	Type     string                   `json:"type,omitempty"`
	Count    int                      `json:"count"`
	Stations []pipeline.StationResult `json:"stations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Search is the exploratory lookup: every station with any positive match
// signal, ranked, no live readings attached.
func Search(d deps.Deps) http.HandlerFunc {
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

		limit := parseLimitParam(r.URL.Query().Get("limit"), search.MaxResults)

		d.Logger.Info("search request",
			logger.String("query", query),
			logger.String("type", string(typ)),
			logger.Int("limit", limit))

		stations := d.Pipeline.SearchStations(query, typ, limit)
		writeJSON(w, http.StatusOK, searchResponse{
			Query:    query,
			Type:     string(typ),
			Count:    len(stations),
			Stations: stations,
		})
	}
}

// parseTypeParam maps the type query parameter to a station type.
// Empty input means no filter.
func parseTypeParam(raw string) (domain.StationType, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return search.TypeAll, true
	}
	typ, err := domain.ParseStationType(raw)
	if err != nil {
		return search.TypeAll, false
	}
	return typ, true
}

func parseLimitParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
