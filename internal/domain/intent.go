package domain

import "strings"

// Intent is what the caller wants to know about a station.
type Intent string

const (
	IntentCurrentValue Intent = "current_value"
	IntentStatus       Intent = "status"
	IntentTrend        Intent = "trend"
	IntentGeneral      Intent = "general"
)

// QueryAnalysis is the full interpretation of a free-text query.
type QueryAnalysis struct {
	DataType    StationType `json:"data_type"`
	StationName string      `json:"station_name"`
	Intent      Intent      `json:"intent"`
	Confidence  float64     `json:"confidence"`
}

// AnalyzeIntent classifies a raw query: which data type it is about,
// the station name left after noise removal, and what the caller wants.
func AnalyzeIntent(raw string) QueryAnalysis {
	analysis := QueryAnalysis{
		DataType:    DetectType(raw),
		StationName: CleanQuery(raw),
		Intent:      IntentGeneral,
		Confidence:  0.5,
	}

	switch {
	case containsAny(raw, "현재", "지금", "어때"):
		analysis.Intent = IntentCurrentValue
		analysis.Confidence = 0.9
	case containsAny(raw, "상태", "정상", "이상"):
		analysis.Intent = IntentStatus
		analysis.Confidence = 0.8
	case containsAny(raw, "추세", "변화", "증가", "감소"):
		analysis.Intent = IntentTrend
		analysis.Confidence = 0.8
	}

	// A clear station name raises confidence in the interpretation.
	if len([]rune(analysis.StationName)) > 2 {
		analysis.Confidence += 0.2
	}
	if analysis.Confidence > 1.0 {
		analysis.Confidence = 1.0
	}
	return analysis
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
