// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package tmdb

import (
	"sync"
	"time"
)

// ttlCache is a minimal in-process cache with per-entry expiry. Expired
// entries are dropped lazily on read and swept whenever the cache grows
// past sweepThreshold.
type ttlCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	ttl     time.Duration
}

type cacheEntry[T any] struct {
	value   T
	expires time.Time
}

const sweepThreshold = 1024

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ttlCache[T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
	}
}

func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[T]) set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= sweepThreshold {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
	}

	c.entries[key] = cacheEntry[T]{value: value, expires: time.Now().Add(c.ttl)}
}
