// Package hrfco talks to the Han River Flood Control Office open API,
// the live data source behind every station reading.
package hrfco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/metrics"
)

const (
	DefaultBaseURL = "http://api.hrfco.go.kr"
	DefaultTimeout = 15 * time.Second

	// obsTimeLayout is the upstream observation timestamp format,
	// e.g. "202608281230".
	obsTimeLayout = "200601021504"
)

// ErrMissingAPIKey is returned before any network attempt when no
// credential is configured. Never retried.
var ErrMissingAPIKey = errors.New("hrfco: api key is not configured")

// Config holds the client settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client fetches live readings per station type. Each type has its own
// endpoint whose records carry a type-specific code field; Fetch hides
// that behind the uniform Reading shape.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// NewClient builds an HRFCO API client.
func NewClient(cfg Config, loggerClient logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: loggerClient,
	}
}

// dataResponse is the envelope every data endpoint returns.
type dataResponse struct {
	Content []record `json:"content"`
}

// record is the union of the per-type payload fields. Numeric values
// arrive as strings, numbers or placeholders; flexFloat absorbs all of
// them.
type record struct {
	DamCode       string    `json:"dmobscd"`
	WaterCode     string    `json:"wlobscd"`
	RainCode      string    `json:"rfobscd"`
	WaterLevel    flexFloat `json:"wl"`
	StorageRate   flexFloat `json:"storage_rate"`
	Inflow        flexFloat `json:"inflow"`
	Outflow       flexFloat `json:"outflow"`
	Rainfall      flexFloat `json:"rf"`
	Status        string    `json:"status"`
	ObservedAtRaw string    `json:"obsdt"`
}

// code returns the record's station code for the given type.
func (r record) code(typ domain.StationType) string {
	switch typ {
	case domain.TypeDam:
		return r.DamCode
	case domain.TypeRainfall:
		return r.RainCode
	default:
		return r.WaterCode
	}
}

// Fetch retrieves the current reading for one station. A missing API key
// fails immediately; transient transport failures are retried once with
// exponential backoff. Callers that must never fail wrap this with the
// readings cache, which degrades errors to synthetic data.
func (c *Client) Fetch(ctx context.Context, code string, typ domain.StationType) (domain.Reading, error) {
	if c.cfg.APIKey == "" {
		return domain.Reading{}, ErrMissingAPIKey
	}
	if !typ.Valid() {
		return domain.Reading{}, fmt.Errorf("hrfco: unsupported station type %q", typ)
	}

	url := fmt.Sprintf("%s/%s/%s/data.json", c.cfg.BaseURL, c.cfg.APIKey, typ)

	start := time.Now()
	body, err := c.getWithRetry(ctx, url, typ)
	metrics.HRFCOLatency.WithLabelValues(string(typ)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.HRFCOCallsTotal.WithLabelValues(string(typ), "error").Inc()
		return domain.Reading{}, err
	}
	metrics.HRFCOCallsTotal.WithLabelValues(string(typ), "ok").Inc()

	var resp dataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Reading{}, fmt.Errorf("hrfco: malformed payload: %w", err)
	}
	if len(resp.Content) == 0 {
		return domain.Reading{}, fmt.Errorf("hrfco: empty %s payload", typ)
	}

	for _, rec := range resp.Content {
		if rec.code(typ) == code {
			return mapRecord(rec, code, typ), nil
		}
	}
	return domain.Reading{}, fmt.Errorf("hrfco: station %s not present in %s payload", code, typ)
}

func (c *Client) getWithRetry(ctx context.Context, url string, typ domain.StationType) ([]byte, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("hrfco: build request: %w", err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("hrfco: fetch %s data: %w", typ, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("hrfco: fetch %s data: status %d", typ, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("hrfco: fetch %s data: status %d", typ, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("hrfco: read body: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return body, nil
}

// mapRecord converts one upstream record into the normalized Reading
// shape. Only the fields belonging to the station type are populated.
func mapRecord(rec record, code string, typ domain.StationType) domain.Reading {
	reading := domain.Reading{
		StationCode: code,
		StationType: typ,
		Status:      rec.Status,
		Trend:       domain.TrendUnknown,
		ObservedAt:  parseObsTime(rec.ObservedAtRaw),
	}
	if reading.Status == "" {
		reading.Status = domain.StatusNormal
	}

	switch typ {
	case domain.TypeDam:
		reading.WaterLevel = rec.WaterLevel.value
		reading.StorageRate = rec.StorageRate.value
		reading.Inflow = rec.Inflow.value
		reading.Outflow = rec.Outflow.value
	case domain.TypeWaterLevel:
		reading.WaterLevel = rec.WaterLevel.value
	case domain.TypeRainfall:
		reading.Rainfall = rec.Rainfall.value
	}
	return reading
}

func parseObsTime(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.ParseInLocation(obsTimeLayout, raw, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now()
}
