package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hydrokr/stationd/internal/catalog"
	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/hrfco"
	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/pipeline"
	"github.com/hydrokr/stationd/internal/readings"
	"github.com/hydrokr/stationd/internal/search"
)

// staticFetcher serves a fixed live reading for any station.
type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, code string, typ domain.StationType) (domain.Reading, error) {
	r := domain.Reading{
		StationCode: code,
		StationType: typ,
		Status:      domain.StatusNormal,
		Trend:       domain.TrendUnknown,
		ObservedAt:  time.Now(),
	}
	switch typ {
	case domain.TypeRainfall:
		r.Rainfall = domain.Float(1.5)
	default:
		r.WaterLevel = domain.Float(42.0)
	}
	return r, nil
}

func newTestDeps(t *testing.T) deps.Deps {
	t.Helper()

	cat := catalog.New([]domain.Station{
		{Code: "1012110", Name: "소양강댐", Region: "춘천", Type: domain.TypeDam, Keywords: []string{"소양강", "춘천"}},
		{Code: "3008110", Name: "대청댐", Region: "대전", Type: domain.TypeDam, Keywords: []string{"대청"}},
		{Code: "1018690", Name: "한강(잠실)", Region: "서울", Type: domain.TypeWaterLevel, Keywords: []string{"한강", "잠실"}},
	})

	nop := logger.NewNop()
	matcher := search.NewMatcher(cat, 0, nop)
	cache := readings.NewCache(staticFetcher{}, hrfco.Fallback, 0, clockwork.NewFakeClock(), nop)
	pipe := pipeline.New(matcher, cache, 0, nop)

	return deps.Deps{
		Logger:           nop,
		StartTime:        time.Now(),
		Version:          "test",
		TimeNow:          time.Now,
		Matcher:          matcher,
		Pipeline:         pipe,
		Readings:         cache,
		APIKeyConfigured: true,
		MaxCandidates:    3,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestSearchHandler(t *testing.T) {
	d := newTestDeps(t)
	handler := Search(d)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=한강", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp searchResponse
	decodeBody(t, rec, &resp)
	if resp.Count == 0 {
		t.Fatal("expected at least one station for 한강")
	}
	if resp.Stations[0].Reading != nil {
		t.Error("search results must not carry readings")
	}
}

func TestSearchHandlerMissingQuery(t *testing.T) {
	handler := Search(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandlerInvalidType(t *testing.T) {
	handler := Search(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=한강&type=river", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWaterInfoHandler(t *testing.T) {
	handler := WaterInfo(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/waterinfo?q="+escape("소양강댐 수위"), nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp pipeline.Result
	decodeBody(t, rec, &resp)
	if resp.Status != pipeline.StatusSuccess {
		t.Fatalf("status = %q, want success", resp.Status)
	}
	if resp.Stations[0].Code != "1012110" {
		t.Errorf("resolved code = %q, want 1012110", resp.Stations[0].Code)
	}
	if resp.DirectAnswer == "" {
		t.Error("missing direct answer")
	}
}

func TestWaterInfoHandlerNoMatch(t *testing.T) {
	handler := WaterInfo(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/waterinfo?q="+escape("없는관측소"), nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on no match", rec.Code)
	}

	var resp pipeline.Result
	decodeBody(t, rec, &resp)
	if resp.Status != pipeline.StatusNoMatch {
		t.Errorf("status = %q, want no_match", resp.Status)
	}
}

func TestNearbyHandler(t *testing.T) {
	handler := Nearby(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/nearby?location="+escape("서울"), nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp pipeline.Recommendation
	decodeBody(t, rec, &resp)
	if resp.RadiusKM != defaultRadiusKM || resp.Priority != defaultPriority {
		t.Errorf("defaults not applied: %+v", resp)
	}
}

func TestReadyzHandler(t *testing.T) {
	handler := Readyz(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp readyzResponse
	decodeBody(t, rec, &resp)
	if !resp.Ready || resp.Stations != 3 {
		t.Errorf("resp = %+v, want ready with 3 stations", resp)
	}
}

func TestInfraHandlerDemoMode(t *testing.T) {
	d := newTestDeps(t)
	d.APIKeyConfigured = false
	handler := Infra(d)

	req := httptest.NewRequest(http.MethodGet, "/infra", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp infraResponse
	decodeBody(t, rec, &resp)
	if resp.ServiceMode != "degraded" {
		t.Errorf("service_mode = %q, want degraded without api key", resp.ServiceMode)
	}
	if resp.Components["hrfco"].Mode != "demo" {
		t.Errorf("hrfco mode = %q, want demo", resp.Components["hrfco"].Mode)
	}
}

func TestHealthzHandler(t *testing.T) {
	handler := Healthz(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp healthzResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}
