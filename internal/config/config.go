package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile string // path to the station catalog YAML

	// HRFCO upstream
	HRFCOBaseURL    string        // ex: "http://api.hrfco.go.kr"
	HRFCOAPIKey     string        // optional, empty = every reading is demo data
	HRFCOTimeout    time.Duration // per-request timeout (default: 15s)
	HRFCOMaxRetries int           // retries on transient upstream failures

	ReadingTTL        time.Duration // reading cache freshness window (default: 5m)
	ResolverCacheSize int           // bounded LRU size for memoized search results
	MaxCandidates     int           // stations fetched live per query (default: 3)

	// Rate limiting
	RateBurst     int // bucket capacity per client IP
	RateRefillMin int // tokens refilled per IP per minute

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STATIOND_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STATIOND_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STATIOND_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STATIOND_PRETTY_LOG", true),

		// Catalog
		CatalogFile: getenv("STATIOND_CATALOG_FILE", "catalog.yaml"),

		// HRFCO upstream. A missing key is a supported mode: the service
		// answers with flagged demo data instead of refusing to start.
		HRFCOBaseURL:    getenv("STATIOND_HRFCO_BASE_URL", "http://api.hrfco.go.kr"),
		HRFCOAPIKey:     getenv("STATIOND_HRFCO_API_KEY", ""),
		HRFCOTimeout:    mustDuration("STATIOND_HRFCO_TIMEOUT", 15*time.Second),
		HRFCOMaxRetries: getenvInt("STATIOND_HRFCO_MAX_RETRIES", 2),

		// Caching and fan-out
		ReadingTTL:        mustDuration("STATIOND_READING_TTL", 5*time.Minute),
		ResolverCacheSize: getenvInt("STATIOND_RESOLVER_CACHE_SIZE", 512),
		MaxCandidates:     getenvInt("STATIOND_MAX_CANDIDATES", 3),

		// Rate limiting
		RateBurst:     getenvInt("STATIOND_RATE_BURST", 30),
		RateRefillMin: getenvInt("STATIOND_RATE_REFILL_PER_MIN", 60),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("STATIOND_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("STATIOND_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("STATIOND_TRUST_PROXY", false),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.HRFCOAPIKey != "" {
			cfgCopy.HRFCOAPIKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
