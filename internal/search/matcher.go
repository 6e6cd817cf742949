package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hydrokr/stationd/internal/catalog"
	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/metrics"
)

const (
	// MaxResults caps how many ranked stations one search returns.
	MaxResults = 10

	// FloorExplore keeps every station with any positive signal. Used by
	// the exploratory search surface.
	FloorExplore = 0.0

	// FloorResolve is the confidence floor for the resolution path that
	// feeds live-data retrieval. A wrong station behind a confident answer
	// is worse than no answer.
	FloorResolve = 70.0

	// DefaultCacheSize bounds the result memoization cache.
	DefaultCacheSize = 512

	maxSuggestions = 3
)

// TypeAll matches every station type.
const TypeAll = domain.StationType("")

// Matcher resolves normalized queries against the station catalog.
// All computation is pure and in-memory; results are memoized per
// (query, type, floor) in a bounded LRU so repeated queries return
// identical ranked lists without rescoring.
type Matcher struct {
	catalog *catalog.Catalog
	cache   *resultCache
	logger  logger.Logger
}

// NewMatcher creates a matcher over the given catalog. cacheSize <= 0
// falls back to DefaultCacheSize.
func NewMatcher(cat *catalog.Catalog, cacheSize int, loggerClient logger.Logger) *Matcher {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Matcher{
		catalog: cat,
		cache:   newResultCache(cacheSize),
		logger:  loggerClient,
	}
}

// Search ranks catalog stations against query. typ filters the candidate
// pool before scoring (TypeAll disables filtering). floor is the exclusive
// minimum score; callers pick FloorExplore or FloorResolve.
// Results are sorted by descending score, ties broken by catalog order.
func (m *Matcher) Search(query string, typ domain.StationType, floor float64) []domain.ScoredStation {
	key := cacheKey(query, typ, floor)
	if results, ok := m.cache.get(key); ok {
		metrics.ResolverCacheTotal.WithLabelValues("hit").Inc()
		return results
	}
	metrics.ResolverCacheTotal.WithLabelValues("miss").Inc()

	normalized := domain.Normalize(query)
	results := make([]domain.ScoredStation, 0, MaxResults)

	for _, st := range m.catalog.All() {
		if typ != TypeAll && st.Type != typ {
			continue
		}
		if st.Name == "" {
			// Defensive: a broken record must not poison the search.
			continue
		}
		score := domain.ScoreStation(st, normalized)
		if score <= floor {
			continue
		}
		results = append(results, domain.ScoredStation{Station: st, Score: score})
	}

	// Stable sort keeps catalog order as the deterministic tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	m.cache.put(key, results)
	return results
}

// Resolve is the high-confidence path used before live-data retrieval.
func (m *Matcher) Resolve(query string, typ domain.StationType) []domain.ScoredStation {
	return m.Search(query, typ, FloorResolve)
}

// FindByCode looks a station up by its upstream code.
func (m *Matcher) FindByCode(code string) (domain.Station, bool) {
	return m.catalog.FindByCode(code)
}

// ByRegion returns stations whose region contains the given fragment,
// optionally restricted to one type.
func (m *Matcher) ByRegion(region string, typ domain.StationType) []domain.Station {
	var results []domain.Station
	for _, st := range m.catalog.All() {
		if typ != TypeAll && st.Type != typ {
			continue
		}
		if st.Region != "" && strings.Contains(st.Region, region) {
			results = append(results, st)
		}
	}
	return results
}

// Suggest returns up to max best-effort alternatives for a query that
// matched nothing: stations sharing the most characters with the query,
// formatted as "name (region)".
func (m *Matcher) Suggest(query string, max int) []string {
	if max <= 0 || max > maxSuggestions {
		max = maxSuggestions
	}

	cleaned := domain.CleanQuery(query)
	if cleaned == "" {
		cleaned = query
	}

	type scored struct {
		label   string
		overlap int
	}
	var candidates []scored

	for _, st := range m.catalog.All() {
		overlap := runeOverlap(cleaned, st.Name+st.Region)
		if overlap == 0 {
			continue
		}
		label := st.Name
		if st.Region != "" {
			label = fmt.Sprintf("%s (%s)", st.Name, st.Region)
		}
		candidates = append(candidates, scored{label: label, overlap: overlap})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	suggestions := make([]string, 0, max)
	seen := make(map[string]bool, max)
	for _, c := range candidates {
		if seen[c.label] {
			continue
		}
		seen[c.label] = true
		suggestions = append(suggestions, c.label)
		if len(suggestions) == max {
			break
		}
	}
	return suggestions
}

// Stats reports catalog totals per type and the current cache size.
type Stats struct {
	Total     int                        `json:"total"`
	ByType    map[domain.StationType]int `json:"by_type"`
	CacheSize int                        `json:"cache_size"`
}

func (m *Matcher) Stats() Stats {
	return Stats{
		Total:     m.catalog.Len(),
		ByType:    m.catalog.CountByType(),
		CacheSize: m.cache.len(),
	}
}

// ClearCache drops all memoized results.
func (m *Matcher) ClearCache() {
	m.cache.clear()
}

func cacheKey(query string, typ domain.StationType, floor float64) string {
	t := string(typ)
	if t == "" {
		t = "all"
	}
	return fmt.Sprintf("%s|%s|%g", query, t, floor)
}

// runeOverlap counts how many distinct runes of query occur in text.
func runeOverlap(query, text string) int {
	seen := make(map[rune]bool)
	count := 0
	for _, r := range query {
		if r == ' ' || seen[r] {
			continue
		}
		seen[r] = true
		if strings.ContainsRune(text, r) {
			count++
		}
	}
	return count
}
