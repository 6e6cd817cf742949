// Package pipeline turns a free-text query into a final answer: resolve
// stations, fan out live-data reads and synthesize a human-readable reply.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/metrics"
	"github.com/hydrokr/stationd/internal/search"
)

const (
	// DefaultMaxFanOut bounds how many resolved stations get live data
	// per query.
	DefaultMaxFanOut = 3

	StatusSuccess = "success"
	StatusNoMatch = "no_match"
)

// ReadingSource serves readings without failing; implemented by the
// readings cache.
type ReadingSource interface {
	Get(ctx context.Context, code string, typ domain.StationType) domain.Reading
}

// StationResult is one resolved station, optionally with its reading.
type StationResult struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Region   string             `json:"region,omitempty"`
	Type     domain.StationType `json:"type"`
	Agency   string             `json:"agency,omitempty"`
	Score    float64            `json:"score"`
	Reading  *domain.Reading    `json:"current_data,omitempty"`
	Degraded bool               `json:"degraded,omitempty"`
}

// Result is the synthesized answer for one query.
type Result struct {
	Query         string               `json:"query"`
	Status        string               `json:"status"`
	FoundStations int                  `json:"found_stations"`
	Stations      []StationResult      `json:"stations"`
	DirectAnswer  string               `json:"direct_answer"`
	Summary       string               `json:"summary"`
	Suggestions   []string             `json:"suggestions,omitempty"`
	Analysis      domain.QueryAnalysis `json:"query_analysis"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Pipeline wires the matcher and the reading source together. It owns no
// global state; construct one per process and inject it.
type Pipeline struct {
	matcher   *search.Matcher
	readings  ReadingSource
	logger    logger.Logger
	maxFanOut int
}

// New builds a pipeline. maxFanOut <= 0 falls back to DefaultMaxFanOut.
func New(matcher *search.Matcher, readingSource ReadingSource, maxFanOut int, loggerClient logger.Logger) *Pipeline {
	if maxFanOut <= 0 {
		maxFanOut = DefaultMaxFanOut
	}
	return &Pipeline{
		matcher:   matcher,
		readings:  readingSource,
		logger:    loggerClient,
		maxFanOut: maxFanOut,
	}
}

// WaterInfo is the one-stop operation: resolve the query with the strict
// confidence floor, read live data for the top stations concurrently and
// synthesize the final answer. A no-match is a regular outcome carrying
// suggestions, never an error.
func (p *Pipeline) WaterInfo(ctx context.Context, query string, typ domain.StationType) Result {
	analysis := domain.AnalyzeIntent(query)
	if typ == search.TypeAll {
		typ = analysis.DataType
	}

	result := Result{
		Query:     query,
		Analysis:  analysis,
		Timestamp: time.Now(),
	}

	matches := p.matcher.Resolve(query, typ)
	if len(matches) == 0 {
		metrics.SearchesTotal.WithLabelValues(string(typ), "no_match").Inc()
		result.Status = StatusNoMatch
		result.Stations = []StationResult{}
		result.Suggestions = p.matcher.Suggest(query, 3)
		result.DirectAnswer = noMatchAnswer(analysis.StationName)
		result.Summary = noMatchSummary(analysis.StationName)
		return result
	}
	metrics.SearchesTotal.WithLabelValues(string(typ), "match").Inc()

	if len(matches) > p.maxFanOut {
		matches = matches[:p.maxFanOut]
	}

	stations := p.fetchAll(ctx, matches)

	primary := stations[0]
	result.Status = StatusSuccess
	result.FoundStations = len(stations)
	result.Stations = stations
	result.DirectAnswer = directAnswer(matches[0].Station, *primary.Reading)
	result.Summary = summary(matches[0].Station, *primary.Reading)

	p.logger.Debug("pipeline result",
		logger.String("query", query),
		logger.String("type", string(typ)),
		logger.Int("stations", len(stations)),
		logger.Bool("degraded", primary.Degraded))

	return result
}

// fetchAll reads live data for every match concurrently and recombines
// the results by position. The reading source never fails, so a broken
// upstream degrades individual stations instead of the batch.
func (p *Pipeline) fetchAll(ctx context.Context, matches []domain.ScoredStation) []StationResult {
	stations := make([]StationResult, len(matches))

	var g errgroup.Group
	for i, match := range matches {
		i, match := i, match
		g.Go(func() error {
			reading := p.readings.Get(ctx, match.Code, match.Type)
			stations[i] = toStationResult(match, &reading)
			return nil
		})
	}
	// Readings never error; Wait is fan-in only.
	_ = g.Wait()

	return stations
}

// SearchStations is the exploratory surface: permissive floor, no live
// readings attached.
func (p *Pipeline) SearchStations(query string, typ domain.StationType, limit int) []StationResult {
	if limit <= 0 || limit > search.MaxResults {
		limit = search.MaxResults
	}

	matches := p.matcher.Search(query, typ, search.FloorExplore)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	outcome := "match"
	if len(matches) == 0 {
		outcome = "no_match"
	}
	metrics.SearchesTotal.WithLabelValues(string(typ), outcome).Inc()

	stations := make([]StationResult, 0, len(matches))
	for _, match := range matches {
		stations = append(stations, toStationResult(match, nil))
	}
	return stations
}

// Recommendation is the nearby-stations reply. The radius and priority
// are echoed back untouched: recommendations come from name/region
// relevance, not geographic distance.
type Recommendation struct {
	Location        string          `json:"location"`
	RadiusKM        int             `json:"radius_km"`
	Priority        string          `json:"priority"`
	Recommendations []StationResult `json:"recommendations"`
}

// Nearby recommends stations relevant to a location query.
func (p *Pipeline) Nearby(location string, radiusKM int, priority string) Recommendation {
	stations := p.SearchStations(location, domain.TypeWaterLevel, 5)
	return Recommendation{
		Location:        location,
		RadiusKM:        radiusKM,
		Priority:        priority,
		Recommendations: stations,
	}
}

// Stats exposes matcher/catalog statistics for diagnostics.
func (p *Pipeline) Stats() search.Stats {
	return p.matcher.Stats()
}

func toStationResult(match domain.ScoredStation, reading *domain.Reading) StationResult {
	result := StationResult{
		Code:    match.Code,
		Name:    match.Name,
		Region:  match.Region,
		Type:    match.Type,
		Agency:  match.Agency,
		Score:   match.Score,
		Reading: reading,
	}
	if reading != nil {
		result.Degraded = reading.Synthetic
	}
	return result
}
