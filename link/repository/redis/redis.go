package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	redisKit "github.com/yorklin/linkly/kit/redis"
)

// linkCache stores the cached view of a link as a small JSON payload with
// exactly two fields, target URL and status, keyed by short code. Entries
// expire by TTL and are deleted explicitly on status changes.
type linkCache struct {
	cache *redisKit.Cache
}

func CreateLinkCache(cache *redisKit.Cache) domain.LinkCache {
	return &linkCache{cache: cache}
}

func (c *linkCache) GetEntry(ctx context.Context, shortCode string) (*domain.LinkCacheEntry, bool, error) {
	val, exists, err := c.cache.Get(ctx, domain.LinkCacheKey(shortCode))
	if err != nil {
		return nil, false, errors.Wrap(err, "get cache failed")
	}
	if !exists {
		return nil, false, nil
	}
	var entry domain.LinkCacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, false, errors.Wrapf(domain.ErrCacheEntryMalformed, "decode payload failed: %s", err)
	}
	if !entry.Status.IsValid() || entry.TargetURL == "" {
		return nil, false, errors.Wrap(domain.ErrCacheEntryMalformed, "payload fields invalid")
	}
	return &entry, true, nil
}

func (c *linkCache) SetEntry(ctx context.Context, shortCode string, entry *domain.LinkCacheEntry, expiration time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode payload failed")
	}
	if err := c.cache.Set(ctx, domain.LinkCacheKey(shortCode), payload, expiration); err != nil {
		return errors.Wrap(err, "set cache failed")
	}
	return nil
}

func (c *linkCache) DeleteEntry(ctx context.Context, shortCode string) error {
	if err := c.cache.Del(ctx, domain.LinkCacheKey(shortCode)); err != nil {
		return errors.Wrap(err, "delete cache failed")
	}
	return nil
}
