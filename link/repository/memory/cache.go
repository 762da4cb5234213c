package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yorklin/linkly/domain"
)

type cacheItem struct {
	entry    domain.LinkCacheEntry
	expireAt time.Time
}

// linkCache is a process-local LinkCache with per-entry expiry.
type linkCache struct {
	lock  sync.Mutex
	items map[string]cacheItem
}

func CreateLinkCache() domain.LinkCache {
	return &linkCache{items: make(map[string]cacheItem)}
}

func (c *linkCache) GetEntry(ctx context.Context, shortCode string) (*domain.LinkCacheEntry, bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	item, exists := c.items[shortCode]
	if !exists {
		return nil, false, nil
	}
	if !item.expireAt.IsZero() && time.Now().After(item.expireAt) {
		delete(c.items, shortCode)
		return nil, false, nil
	}
	copied := item.entry
	return &copied, true, nil
}

func (c *linkCache) SetEntry(ctx context.Context, shortCode string, entry *domain.LinkCacheEntry, expiration time.Duration) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	var expireAt time.Time
	if expiration > 0 {
		expireAt = time.Now().Add(expiration)
	}
	c.items[shortCode] = cacheItem{entry: *entry, expireAt: expireAt}
	return nil
}

func (c *linkCache) DeleteEntry(ctx context.Context, shortCode string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.items, shortCode)
	return nil
}
