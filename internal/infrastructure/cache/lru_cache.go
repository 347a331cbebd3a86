package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"trialsage/internal/ports"
)

// LRUCache is a bounded in-process cache with TTL eviction. The TTL is fixed
// at construction; per-call ttl arguments shorter than zero are rejected and
// others are ignored because the underlying store uses a single expiry.
type LRUCache struct {
	lru *expirable.LRU[string, string]
}

var _ ports.Cache = (*LRUCache)(nil)

func NewLRUCache(maxEntries int, ttl time.Duration) *LRUCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &LRUCache{
		lru: expirable.NewLRU[string, string](maxEntries, nil, ttl),
	}
}

func (c *LRUCache) Get(ctx context.Context, key string) (string, bool, error) {
	if ctx == nil {
		return "", false, errors.New("context is required")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", false, errors.New("key is required")
	}

	value, found := c.lru.Get(trimmedKey)
	return value, found, nil
}

func (c *LRUCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if ttl < 0 {
		return errors.New("ttl must not be negative")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return errors.New("key is required")
	}

	c.lru.Add(trimmedKey, value)
	return nil
}

func (c *LRUCache) Delete(ctx context.Context, key string) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	c.lru.Remove(strings.TrimSpace(key))
	return nil
}

func (c *LRUCache) DeletePrefix(ctx context.Context, prefix string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if prefix == "" {
		return errors.New("prefix is required")
	}

	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
	return nil
}
