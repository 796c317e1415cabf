package service

import (
	"sort"
	"sync"

	"spread_go/internal/domain"
)

// MarketCache holds the latest ticker snapshot per contract. The engine's
// dispatch goroutine is the sole writer; reads can come from any goroutine.
// Updates for the same contract apply in arrival order (last write wins).
type MarketCache struct {
	mu      sync.RWMutex
	tickers map[string]domain.Ticker
}

// NewMarketCache creates an empty cache.
func NewMarketCache() *MarketCache {
	return &MarketCache{
		tickers: make(map[string]domain.Ticker),
	}
}

// Update replaces the stored snapshot for the ticker's contract.
func (c *MarketCache) Update(t domain.Ticker) {
	if t.Contract == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers[t.Contract] = t
}

// Latest returns the current snapshot for a contract, if any.
func (c *MarketCache) Latest(contract string) (domain.Ticker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tickers[contract]
	return t, ok
}

// Contracts returns the tracked contracts sorted for stable iteration.
func (c *MarketCache) Contracts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tickers))
	for contract := range c.tickers {
		out = append(out, contract)
	}
	sort.Strings(out)
	return out
}
