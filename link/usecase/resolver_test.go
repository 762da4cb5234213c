package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/yorklin/linkly/domain"
)

// brokenCache fails every operation, as if redis were down.
type brokenCache struct{}

func (brokenCache) GetEntry(ctx context.Context, shortCode string) (*domain.LinkCacheEntry, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) SetEntry(ctx context.Context, shortCode string, entry *domain.LinkCacheEntry, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) DeleteEntry(ctx context.Context, shortCode string) error {
	return errors.New("connection refused")
}

// spyCache records calls and serves canned entries.
type spyCache struct {
	mu      sync.Mutex
	entries map[string]*domain.LinkCacheEntry
	getErr  error
	deleted []string
}

func createSpyCache() *spyCache {
	return &spyCache{entries: make(map[string]*domain.LinkCacheEntry)}
}

func (s *spyCache) GetEntry(ctx context.Context, shortCode string) (*domain.LinkCacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	entry, exists := s.entries[shortCode]
	if !exists {
		return nil, false, nil
	}
	clone := *entry
	return &clone, true, nil
}

func (s *spyCache) SetEntry(ctx context.Context, shortCode string, entry *domain.LinkCacheEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *entry
	s.entries[shortCode] = &clone
	return nil
}

func (s *spyCache) DeleteEntry(ctx context.Context, shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, shortCode)
	s.deleted = append(s.deleted, shortCode)
	return nil
}

// spyRepo wraps a LinkRepo and counts reads.
type spyRepo struct {
	domain.LinkRepo

	mu         sync.Mutex
	reads      int
	increments int
}

func (s *spyRepo) GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.LinkRepo.GetByShortCode(ctx, shortCode)
}

func (s *spyRepo) IncrementVisitCount(ctx context.Context, shortCode string) error {
	s.mu.Lock()
	s.increments++
	s.mu.Unlock()
	return s.LinkRepo.IncrementVisitCount(ctx, shortCode)
}

func TestResolveSurvivesCacheOutage(t *testing.T) {
	ctx := context.Background()
	env := createTestEnvWithCache(t, brokenCache{})

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	targetURL, err := env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), stored.VisitCount)

	// status changes still work when invalidation cannot reach the cache
	_, err = env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusInactive, 7)
	assert.Nil(t, err)
	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))
}

func TestResolveDropsMalformedCacheEntry(t *testing.T) {
	ctx := context.Background()
	cache := createSpyCache()
	env := createTestEnvWithCache(t, cache)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	cache.mu.Lock()
	cache.getErr = errors.Wrap(domain.ErrCacheEntryMalformed, "unexpected payload")
	cache.mu.Unlock()

	targetURL, err := env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.Equal(t, []string{link.ShortCode}, cache.deleted)
}

func TestResolveInactiveHitSkipsStore(t *testing.T) {
	ctx := context.Background()
	cache := createSpyCache()
	env := createTestEnvWithCache(t, cache)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)
	_, err = env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusInactive, 7)
	assert.Nil(t, err)

	repo := &spyRepo{LinkRepo: env.repo}
	resolver, err := CreateLinkResolver(repo, cache, testLogger(t), testCacheTTL)
	assert.Nil(t, err)

	// first resolve misses the cache and records the inactive status
	_, err = resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))
	assert.Equal(t, 1, repo.reads)

	// second resolve answers from the cache alone
	_, err = resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, 0, repo.increments)
}

func TestResolveActiveHitSkipsStoreRead(t *testing.T) {
	ctx := context.Background()
	cache := createSpyCache()
	env := createTestEnvWithCache(t, cache)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	repo := &spyRepo{LinkRepo: env.repo}
	resolver, err := CreateLinkResolver(repo, cache, testLogger(t), testCacheTTL)
	assert.Nil(t, err)

	// creation seeded the cache, so the redirect needs no store read
	targetURL, err := resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)
	assert.Equal(t, 0, repo.reads)
	assert.Equal(t, 1, repo.increments)
}

func TestResolveEmptyShortCode(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	_, err := env.resolver.Resolve(ctx, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
