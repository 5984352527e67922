package market

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memoizer caches SimplePrices results behind a TTL so that re-renders
// within the window re-use the previous fetch instead of hitting the API
// again. The key set is unbounded; acceptable because instrument sets are
// small and user-chosen.
type Memoizer struct {
	source PriceSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	prices    map[string]float64
	fetchedAt time.Time
}

func NewMemoizer(source PriceSource, ttl time.Duration) *Memoizer {
	return &Memoizer{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (m *Memoizer) SimplePrices(ctx context.Context, ids []string, vsCurrency string) (map[string]float64, error) {
	key := cacheKey(ids, vsCurrency)

	m.mu.Lock()
	if e, ok := m.entries[key]; ok && m.now().Sub(e.fetchedAt) < m.ttl {
		cached := copyPrices(e.prices)
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	prices, err := m.source.SimplePrices(ctx, ids, vsCurrency)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[key] = cacheEntry{prices: copyPrices(prices), fetchedAt: m.now()}
	m.mu.Unlock()

	return prices, nil
}

// Age returns how long ago the given instrument set was last fetched,
// or false if it has never been fetched.
func (m *Memoizer) Age(ids []string, vsCurrency string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[cacheKey(ids, vsCurrency)]
	if !ok {
		return 0, false
	}
	return m.now().Sub(e.fetchedAt), true
}

func cacheKey(ids []string, vsCurrency string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + "|" + vsCurrency
}

func copyPrices(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
