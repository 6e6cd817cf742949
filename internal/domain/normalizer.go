package domain

import (
	"regexp"
	"strings"
)

// NormalizedQuery is the ephemeral, derived form of a raw user query.
type NormalizedQuery struct {
	Raw         string      // original input
	Cleaned     string      // noise words stripped, whitespace collapsed
	ImpliedType StationType // detected from type keywords, waterlevel by default
}

// noiseWords are domain filler terms stripped before matching: station-type
// words, bridge suffixes and conversational tails carry no identity.
var noiseWords = regexp.MustCompile(`강우량|강수량|우량|수위|물높이|저수지|관측소|대교|교|댐|알려줘|어때|현재|지금`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Type keyword lists, checked in fixed priority order: rainfall before dam,
// waterlevel as the default. The ordering is a deliberate tie-break policy
// ("갑천 강우량 댐 근처" is a rainfall query, not a dam query).
var (
	rainfallTerms = []string{
		"우량", "강우량", "비", "강우", "강수량", "강수",
		"mm", "밀리미터", "강수강도",
	}
	damTerms = []string{
		"댐", "저수지", "저수율", "저수량", "호수",
	}
)

// Normalize derives the cleaned query and its implied station type.
// Pure and deterministic; identical input always yields identical output.
func Normalize(raw string) NormalizedQuery {
	return NormalizedQuery{
		Raw:         raw,
		Cleaned:     CleanQuery(raw),
		ImpliedType: DetectType(raw),
	}
}

// CleanQuery strips noise words and parentheses, then collapses whitespace
// runs to a single space. Token boundaries are kept so that compound place
// names ("장성군 평림댐") can still be split and matched part by part.
func CleanQuery(raw string) string {
	s := noiseWords.ReplaceAllString(raw, "")
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DetectType infers the station type the query is about. First matching
// type wins; queries with no type keyword default to water level.
func DetectType(raw string) StationType {
	q := strings.ToLower(raw)

	for _, term := range rainfallTerms {
		if strings.Contains(q, term) {
			return TypeRainfall
		}
	}
	for _, term := range damTerms {
		if strings.Contains(q, term) {
			return TypeDam
		}
	}
	return TypeWaterLevel
}
