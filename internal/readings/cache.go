package readings

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/hydrokr/stationd/internal/domain"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/metrics"
)

// DefaultTTL bounds how stale a served reading may be.
const DefaultTTL = 5 * time.Minute

// Fetcher retrieves a live reading for one station from the upstream
// data source. Implemented by the hrfco client.
type Fetcher interface {
	Fetch(ctx context.Context, code string, typ domain.StationType) (domain.Reading, error)
}

// FallbackFunc builds a synthetic reading when the upstream fetch fails.
type FallbackFunc func(code string, typ domain.StationType, at time.Time) domain.Reading

type entry struct {
	reading   domain.Reading
	createdAt time.Time
}

// Cache is a read-through cache of station readings keyed by (code, type).
//
// Entries expire lazily at read time after the TTL. Concurrent misses for
// the same key collapse into a single upstream fetch. Fetch failures are
// degraded to synthetic readings which are returned but never cached, so
// the next caller retries the upstream.
type Cache struct {
	fetcher  Fetcher
	fallback FallbackFunc
	ttl      time.Duration
	clock    clockwork.Clock
	logger   logger.Logger

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// NewCache builds a reading cache. ttl <= 0 falls back to DefaultTTL;
// a nil clock uses real time.
func NewCache(fetcher Fetcher, fallback FallbackFunc, ttl time.Duration, clock clockwork.Clock, loggerClient logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		fetcher:  fetcher,
		fallback: fallback,
		ttl:      ttl,
		clock:    clock,
		logger:   loggerClient,
		entries:  make(map[string]entry),
	}
}

// Get returns the reading for a station, served from cache when fresh.
// It never fails: upstream errors yield a synthetic reading flagged as
// such, so one slow or broken station cannot abort a batch.
func (c *Cache) Get(ctx context.Context, code string, typ domain.StationType) domain.Reading {
	key := string(typ) + ":" + code

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.clock.Since(e.createdAt) < c.ttl {
		c.mu.Unlock()
		metrics.ReadingCacheTotal.WithLabelValues("hit").Inc()
		return e.reading
	}
	c.mu.Unlock()
	metrics.ReadingCacheTotal.WithLabelValues("miss").Inc()

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.refresh(ctx, key, code, typ), nil
	})
	if err != nil {
		// Unreachable: refresh never returns an error. Kept so a future
		// refactor cannot silently drop failures.
		return c.degrade(code, typ, err)
	}
	return result.(domain.Reading)
}

// refresh fetches a fresh reading, derives its trend from the previous
// observation for the same key and stores it. On failure it degrades to
// synthetic data without touching the cache.
func (c *Cache) refresh(ctx context.Context, key, code string, typ domain.StationType) domain.Reading {
	fresh, err := c.fetcher.Fetch(ctx, code, typ)
	if err != nil {
		return c.degrade(code, typ, err)
	}

	c.mu.Lock()
	if prev, ok := c.entries[key]; ok {
		fresh.Trend = domain.CompareTrend(prev.reading, fresh)
	} else {
		fresh.Trend = domain.TrendUnknown
	}
	c.entries[key] = entry{reading: fresh, createdAt: c.clock.Now()}
	c.mu.Unlock()

	return fresh
}

func (c *Cache) degrade(code string, typ domain.StationType, cause error) domain.Reading {
	c.logger.Warn("upstream fetch failed, substituting demo data",
		logger.String("code", code),
		logger.String("type", string(typ)),
		logger.Error(cause))
	metrics.SyntheticReadingsTotal.WithLabelValues(string(typ)).Inc()
	return c.fallback(code, typ, c.clock.Now())
}

// Len returns the number of cached readings.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
