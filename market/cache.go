package market

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/suitsy/portfolio"
	"github.com/suitsy/portfolio/date"
)

// TTL sets how long each kind of data stays in a Cache.
type TTL struct {
	History    time.Duration
	Live       time.Duration
	FX         time.Duration // fx history and live rates
	Benchmarks time.Duration
}

// DefaultTTL keeps history for an hour, live quotes for 5 minutes and
// exchange rates and benchmarks for 15 minutes.
var DefaultTTL = TTL{
	History:    time.Hour,
	Live:       5 * time.Minute,
	FX:         15 * time.Minute,
	Benchmarks: 15 * time.Minute,
}

type entry struct {
	value   any
	expires time.Time
}

// Cache is a read-through in-memory cache in front of a Source.
//
// Entries are keyed by the kind of request, its sorted symbol set and its
// start date. Failures are not cached. Cached values are shared between
// callers and must not be modified.
type Cache struct {
	src portfolio.Source
	ttl TTL
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCache returns a cache in front of src.
func NewCache(src portfolio.Source, ttl TTL) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

var _ portfolio.Source = (*Cache)(nil)

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

func key(kind string, symbols []string, extra ...string) string {
	s := slices.Clone(symbols)
	slices.Sort(s)
	return fmt.Sprintf("%s|%s|%s", kind, strings.Join(slices.Compact(s), ","), strings.Join(extra, "|"))
}

// through returns the cached value for k, or calls fetch and caches its result for ttl.
func through[T any](c *Cache, k string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	c.mu.Lock()
	e, ok := c.entries[k]
	c.mu.Unlock()
	if ok && c.now().Before(e.expires) {
		if v, ok := e.value.(T); ok {
			return v, nil
		}
	}
	v, err := fetch()
	if err != nil || ttl <= 0 {
		return v, err
	}
	c.mu.Lock()
	c.entries[k] = entry{value: v, expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return v, nil
}

// FetchHistory implements portfolio.Source. Sets made only of benchmark
// symbols use the Benchmarks ttl.
func (c *Cache) FetchHistory(ctx context.Context, symbols []string, start date.Date) (portfolio.Series, error) {
	ttl := c.ttl.History
	if IsBenchmarkSet(symbols) {
		ttl = c.ttl.Benchmarks
	}
	return through(c, key("history", symbols, start.String()), ttl, func() (portfolio.Series, error) {
		return c.src.FetchHistory(ctx, symbols, start)
	})
}

// FetchLiveQuotes implements portfolio.Source.
func (c *Cache) FetchLiveQuotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	return through(c, key("quotes", symbols), c.ttl.Live, func() (map[string]float64, error) {
		return c.src.FetchLiveQuotes(ctx, symbols)
	})
}

// FetchFXHistory implements portfolio.Source.
func (c *Cache) FetchFXHistory(ctx context.Context, currencies []string, home string, start date.Date) (portfolio.Series, error) {
	return through(c, key("fxhistory", currencies, home, start.String()), c.ttl.FX, func() (portfolio.Series, error) {
		return c.src.FetchFXHistory(ctx, currencies, home, start)
	})
}

// FetchLiveFX implements portfolio.Source.
func (c *Cache) FetchLiveFX(ctx context.Context, currencies []string, home string) (map[string]float64, error) {
	return through(c, key("fx", currencies, home), c.ttl.FX, func() (map[string]float64, error) {
		return c.src.FetchLiveFX(ctx, currencies, home)
	})
}
