package domain

import "strings"

// Scoring signal weights. Signals accumulate and the total is clamped to
// [ScoreFloor, ScoreCeiling]; an exact name or keyword match short-circuits
// at the ceiling.
const (
	ScoreCeiling = 100.0
	ScoreFloor   = 0.0

	ScoreNameContainsQuery = 90.0 // "소양강" against "소양강댐"
	ScoreQueryContainsName = 85.0 // "소양강댐 근처" against "소양강댐"
	ScoreKeywordOverlap    = 70.0
	ScoreRegionBonus       = 20.0

	// ScoreCompoundMatch is the minimum score granted when every token of a
	// multi-token query independently resolves against name, region or a
	// keyword. Compound place names ("장성군 평림댐") must resolve
	// confidently even when no single signal reaches this level.
	ScoreCompoundMatch = 95.0
)

// ScoreStation computes the 0-100 match score of one catalog entry against
// a normalized query. Pure in-memory computation, no suspension.
func ScoreStation(st Station, q NormalizedQuery) float64 {
	name := flatten(st.Name)
	query := flatten(q.Cleaned)

	if name == "" || query == "" {
		return 0
	}

	// 1. Exact name or keyword match wins outright.
	if name == query {
		return ScoreCeiling
	}
	for _, kw := range st.Keywords {
		if kw == query {
			return ScoreCeiling
		}
	}

	var score float64

	// 2. Containment between name and query, either direction.
	if strings.Contains(name, query) {
		score += ScoreNameContainsQuery
	}
	if strings.Contains(query, name) {
		score += ScoreQueryContainsName
	}

	// 3. Keyword overlap, either direction.
	for _, kw := range st.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(query, kw) || strings.Contains(kw, query) {
			score += ScoreKeywordOverlap
			break
		}
	}

	// 4. Region containment is a small additive bonus.
	if st.Region != "" && strings.Contains(st.Region, query) {
		score += ScoreRegionBonus
	}

	// 5. Compound place names: when every whitespace-separated part of the
	// cleaned query is found somewhere in the record, force a confident
	// score regardless of the partial signals above.
	if parts := strings.Fields(q.Cleaned); len(parts) > 1 && allPartsMatch(st, name, parts) {
		if score < ScoreCompoundMatch {
			score = ScoreCompoundMatch
		}
	}

	return clampScore(score)
}

func allPartsMatch(st Station, flatName string, parts []string) bool {
	for _, part := range parts {
		if strings.Contains(flatName, part) {
			continue
		}
		if st.Region != "" && strings.Contains(st.Region, part) {
			continue
		}
		if !anyKeywordContains(st.Keywords, part) {
			return false
		}
	}
	return true
}

func anyKeywordContains(keywords []string, part string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, part) {
			return true
		}
	}
	return false
}

func clampScore(s float64) float64 {
	if s > ScoreCeiling {
		return ScoreCeiling
	}
	if s < ScoreFloor {
		return ScoreFloor
	}
	return s
}

// flatten strips parentheses and all whitespace for containment checks.
// "문경시(화산리)" and "문경시 화산리" compare equal after flattening.
func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
