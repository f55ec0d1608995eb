package cache

import (
	"context"
	"sync"
	"time"

	"TradePilot/internal/domain/models"
)

type entry struct {
	s   models.MasterSignal
	exp time.Time
}

// MemorySignalCache is an in-process SignalCache, used when Redis is not
// configured.
type MemorySignalCache struct {
	mu sync.RWMutex
	m  map[string]entry
}

func NewMemorySignalCache() *MemorySignalCache {
	return &MemorySignalCache{m: make(map[string]entry)}
}

func (c *MemorySignalCache) Get(_ context.Context, coin string) (models.MasterSignal, bool, error) {
	c.mu.RLock()
	e, ok := c.m[coin]
	c.mu.RUnlock()
	if !ok {
		return models.MasterSignal{}, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, coin)
		c.mu.Unlock()
		return models.MasterSignal{}, false, nil
	}
	return e.s, true, nil
}

func (c *MemorySignalCache) Set(_ context.Context, coin string, s models.MasterSignal, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[coin] = entry{s: s, exp: exp}
	c.mu.Unlock()
	return nil
}

func (c *MemorySignalCache) Close() error { return nil }
