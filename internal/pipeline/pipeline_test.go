package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hydrokr/stationd/internal/catalog"
	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/search"
)

// stubSource serves canned readings and records which stations were asked
// for. Codes listed in degraded get a synthetic reading, mirroring how the
// real cache degrades a broken upstream.
type stubSource struct {
	mu       sync.Mutex
	calls    []string
	degraded map[string]bool
}

func (s *stubSource) Get(_ context.Context, code string, typ domain.StationType) domain.Reading {
	s.mu.Lock()
	s.calls = append(s.calls, code)
	s.mu.Unlock()

	reading := domain.Reading{
		StationCode: code,
		StationType: typ,
		Status:      domain.StatusNormal,
		Trend:       domain.TrendStable,
		ObservedAt:  time.Now(),
	}
	switch typ {
	case domain.TypeRainfall:
		reading.Rainfall = domain.Float(2.5)
	default:
		reading.WaterLevel = domain.Float(123.45)
	}
	if s.degraded[code] {
		reading.Synthetic = true
		reading.Trend = domain.TrendUnknown
	}
	return reading
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func testStations() []domain.Station {
	return []domain.Station{
		{Code: "1012110", Name: "소양강댐", Region: "춘천", Type: domain.TypeDam, Keywords: []string{"소양강", "소양", "댐"}},
		{Code: "3008110", Name: "대청댐", Region: "대전", Type: domain.TypeDam, Keywords: []string{"대청", "댐"}},
		{Code: "5002201", Name: "평림댐", Region: "장성군", Type: domain.TypeWaterLevel, Keywords: []string{"평림", "댐"}},
		{Code: "99999999", Name: "평림댐", Region: "장성군", Type: domain.TypeRainfall, Keywords: []string{"평림", "댐"}},
		{Code: "1018690", Name: "한강(잠실)", Region: "서울", Type: domain.TypeWaterLevel, Keywords: []string{"한강", "잠실"}},
		{Code: "1018662", Name: "한강(한강대교)", Region: "서울", Type: domain.TypeWaterLevel, Keywords: []string{"한강", "한강대교"}},
		{Code: "1019630", Name: "한강(행주)", Region: "고양", Type: domain.TypeWaterLevel, Keywords: []string{"한강", "행주"}},
		{Code: "1018625", Name: "한강(팔당)", Region: "하남", Type: domain.TypeWaterLevel, Keywords: []string{"한강", "팔당"}},
	}
}

func newTestPipeline(t *testing.T, source ReadingSource) *Pipeline {
	t.Helper()
	cat := catalog.New(testStations())
	matcher := search.NewMatcher(cat, 0, logger.NewNop())
	return New(matcher, source, 0, logger.NewNop())
}

func TestWaterInfoSuccess(t *testing.T) {
	source := &stubSource{}
	p := newTestPipeline(t, source)

	result := p.WaterInfo(context.Background(), "소양강댐 수위 알려줘", search.TypeAll)

	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, StatusSuccess)
	}
	if result.FoundStations != 1 {
		t.Fatalf("found_stations = %d, want 1", result.FoundStations)
	}
	st := result.Stations[0]
	if st.Code != "1012110" {
		t.Errorf("resolved code = %q, want 1012110", st.Code)
	}
	if st.Reading == nil {
		t.Fatal("primary station has no reading")
	}
	if st.Reading.Synthetic {
		t.Error("reading unexpectedly synthetic")
	}
	if !strings.Contains(result.DirectAnswer, "소양강댐") {
		t.Errorf("answer %q does not mention the station", result.DirectAnswer)
	}
	if strings.Contains(result.DirectAnswer, demoMarker) {
		t.Errorf("answer %q carries demo marker for live data", result.DirectAnswer)
	}
	if result.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestWaterInfoDetectsTypeFromQuery(t *testing.T) {
	source := &stubSource{}
	p := newTestPipeline(t, source)

	// "강우량" implies the rainfall gauge, so the rainfall 평림댐 entry
	// must win over its water-level twin.
	result := p.WaterInfo(context.Background(), "평림댐 강우량", search.TypeAll)

	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, StatusSuccess)
	}
	if got := result.Stations[0].Code; got != "99999999" {
		t.Errorf("resolved code = %q, want rainfall entry 99999999", got)
	}
	if !strings.Contains(result.DirectAnswer, "강수량") {
		t.Errorf("answer %q not phrased for rainfall", result.DirectAnswer)
	}
}

func TestWaterInfoFanOutBounded(t *testing.T) {
	// "한강" is an exact keyword of four catalog entries; the pipeline
	// must fetch readings for at most three of them.
	source := &stubSource{}
	p := newTestPipeline(t, source)

	result := p.WaterInfo(context.Background(), "한강", search.TypeAll)

	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, StatusSuccess)
	}
	if len(result.Stations) > DefaultMaxFanOut {
		t.Errorf("stations = %d, want <= %d", len(result.Stations), DefaultMaxFanOut)
	}
	if source.callCount() != len(result.Stations) {
		t.Errorf("upstream calls = %d, want %d", source.callCount(), len(result.Stations))
	}
}

func TestWaterInfoNoMatch(t *testing.T) {
	source := &stubSource{}
	p := newTestPipeline(t, source)

	result := p.WaterInfo(context.Background(), "존재하지않는역", search.TypeAll)

	if result.Status != StatusNoMatch {
		t.Fatalf("status = %q, want %q", result.Status, StatusNoMatch)
	}
	if result.FoundStations != 0 {
		t.Errorf("found_stations = %d, want 0", result.FoundStations)
	}
	if source.callCount() != 0 {
		t.Errorf("upstream calls = %d, want 0 on no-match", source.callCount())
	}
	if result.DirectAnswer == "" || result.Summary == "" {
		t.Error("no-match result must still carry answer and summary")
	}
	if len(result.Suggestions) > 3 {
		t.Errorf("suggestions = %d, want <= 3", len(result.Suggestions))
	}
}

func TestWaterInfoDegradedStation(t *testing.T) {
	source := &stubSource{degraded: map[string]bool{"3008110": true}}
	p := newTestPipeline(t, source)

	result := p.WaterInfo(context.Background(), "대청댐", search.TypeAll)

	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, StatusSuccess)
	}
	st := result.Stations[0]
	if !st.Degraded {
		t.Error("station not flagged degraded for synthetic reading")
	}
	if !strings.Contains(result.DirectAnswer, demoMarker) {
		t.Errorf("answer %q missing demo marker", result.DirectAnswer)
	}
}

func TestSearchStationsExploratory(t *testing.T) {
	p := newTestPipeline(t, &stubSource{})

	// "대전" only earns the region bonus (20), below the resolve floor
	// but visible to the exploratory surface.
	results := p.SearchStations("대전", search.TypeAll, 10)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Code != "3008110" {
		t.Errorf("code = %q, want 3008110", results[0].Code)
	}
	if results[0].Reading != nil {
		t.Error("exploratory search must not attach readings")
	}

	if got := p.WaterInfo(context.Background(), "대전", search.TypeAll); got.Status != StatusNoMatch {
		t.Errorf("resolve path status = %q, want %q", got.Status, StatusNoMatch)
	}
}

func TestSearchStationsLimit(t *testing.T) {
	p := newTestPipeline(t, &stubSource{})

	results := p.SearchStations("한강", search.TypeAll, 2)
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestNearbyEchoesParameters(t *testing.T) {
	p := newTestPipeline(t, &stubSource{})

	rec := p.Nearby("서울", 20, "distance")
	if rec.Location != "서울" || rec.RadiusKM != 20 || rec.Priority != "distance" {
		t.Errorf("parameters not echoed: %+v", rec)
	}
	if len(rec.Recommendations) == 0 {
		t.Error("expected at least one recommendation for 서울")
	}
	for _, r := range rec.Recommendations {
		if r.Reading != nil {
			t.Error("recommendations must not attach readings")
		}
	}
}
