package handlers

import (
	"net/http"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool           `json:"ok"`
	StationsLoaded *int           `json:"stations_loaded,omitempty"`
	ByType         map[string]int `json:"by_type,omitempty"`
	Entries        *int           `json:"entries,omitempty"`
	Mode           string         `json:"mode,omitempty"`
	Impact         string         `json:"impact,omitempty"`
}

type infraResponse struct {
	ServiceMode string                     `json:"service_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports component health: catalog size, cache population and
// whether the upstream credential is configured.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Matcher.Stats()
		readingEntries := d.Readings.Len()
		cacheEntries := stats.CacheSize

		byType := make(map[string]int, len(stats.ByType))
		for typ, n := range stats.ByType {
			byType[string(typ)] = n
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:             stats.Total > 0,
				StationsLoaded: &stats.Total,
				ByType:         byType,
			},
			"resolver_cache": {
				OK:      true,
				Entries: &cacheEntries,
			},
			"reading_cache": {
				OK:      true,
				Entries: &readingEntries,
			},
			"hrfco": hrfcoStatus(d.APIKeyConfigured),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			ServiceMode: determineServiceMode(components),
			Components:  components,
		})
	}
}

func hrfcoStatus(apiKeyConfigured bool) componentStatus {
	if !apiKeyConfigured {
		return componentStatus{
			OK:     false,
			Mode:   "demo",
			Impact: "all readings are synthetic",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: "live",
	}
}

func determineServiceMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		// No stations loaded = nothing can be resolved.
		return "critical"
	}
	if upstream, exists := components["hrfco"]; exists && !upstream.OK {
		return "degraded"
	}
	return "live"
}
