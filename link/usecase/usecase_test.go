package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/yorklin/linkly/domain"
	loggerKit "github.com/yorklin/linkly/kit/logger"
	utilKit "github.com/yorklin/linkly/kit/util"
	memoryRepo "github.com/yorklin/linkly/link/repository/memory"
)

const testCacheTTL = time.Hour

type testEnv struct {
	repo      domain.LinkRepo
	cache     domain.LinkCache
	lifecycle domain.LinkLifecycle
	resolver  domain.LinkResolver
}

func createTestEnv(t *testing.T) *testEnv {
	return createTestEnvWithCache(t, memoryRepo.CreateLinkCache())
}

func testLogger(t *testing.T) *loggerKit.Logger {
	logger, err := loggerKit.NewLogger("./go.log", loggerKit.InfoLevel, loggerKit.NoStdout)
	assert.Nil(t, err)
	return logger
}

func createTestEnvWithCache(t *testing.T, cache domain.LinkCache) *testEnv {
	logger := testLogger(t)

	repo := memoryRepo.CreateLinkRepo()
	lifecycle, err := CreateLinkLifecycle(repo, cache, logger, testCacheTTL)
	assert.Nil(t, err)
	resolver, err := CreateLinkResolver(repo, cache, logger, testCacheTTL)
	assert.Nil(t, err)

	return &testEnv{
		repo:      repo,
		cache:     cache,
		lifecycle: lifecycle,
		resolver:  resolver,
	}
}

func TestCreateLink(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)
	assert.Positive(t, link.ID)
	assert.Equal(t, "https://a.example/x", link.OriginalURL)
	assert.Equal(t, domain.LinkStatusActive, link.Status)
	assert.Equal(t, int64(0), link.VisitCount)
	assert.Equal(t, int64(7), link.OwnerID)

	expectedCode, err := utilKit.EncodeShortCode(link.ID)
	assert.Nil(t, err)
	assert.Equal(t, expectedCode, link.ShortCode)

	// creation seeds the cache
	entry, exists, err := env.cache.GetEntry(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, "https://a.example/x", entry.TargetURL)
	assert.Equal(t, domain.LinkStatusActive, entry.Status)
}

func TestCreateLinkRejectsInvalidURL(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	for _, badURL := range []string{"", "not-a-url", "ftp://a.example/x", "https://", "a.example/x"} {
		_, err := env.lifecycle.Create(ctx, badURL, 0)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "url %q", badURL)
	}
}

func TestCreateLinkNoDeduplication(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	first, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)
	second, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ShortCode, second.ShortCode)
}

func TestResolveActiveLink(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	targetURL, err := env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), stored.VisitCount)

	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	stored, err = env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), stored.VisitCount)
}

func TestResolveUnknownCode(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	_, err := env.resolver.Resolve(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrLinkNotFound))
}

func TestResolveCacheMissFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	// simulate an expired entry
	assert.Nil(t, env.cache.DeleteEntry(ctx, link.ShortCode))

	targetURL, err := env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	// the store hit repopulated the cache
	entry, exists, err := env.cache.GetEntry(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, domain.LinkStatusActive, entry.Status)
}

func TestResolveConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	const resolves = 100
	var wg sync.WaitGroup
	wg.Add(resolves)
	for i := 0; i < resolves; i++ {
		go func() {
			defer wg.Done()
			_, resolveErr := env.resolver.Resolve(ctx, link.ShortCode)
			assert.Nil(t, resolveErr)
		}()
	}
	wg.Wait()

	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(resolves), stored.VisitCount)
}

func TestSetStatusDeactivateThenResolve(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	updated, err := env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusInactive, 7)
	assert.Nil(t, err)
	assert.Equal(t, domain.LinkStatusInactive, updated.Status)

	// invalidation removed the seeded entry
	_, exists, err := env.cache.GetEntry(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.False(t, exists)

	// cache-miss path: store says inactive, result cached
	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))

	entry, exists, err := env.cache.GetEntry(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, domain.LinkStatusInactive, entry.Status)

	// cache-hit path: short-circuits without touching the counter
	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))

	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), stored.VisitCount)
}

func TestSetStatusIdempotent(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	updated, err := env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusActive, 7)
	assert.Nil(t, err)
	assert.Equal(t, domain.LinkStatusActive, updated.Status)

	// the no-op must not invalidate the cached entry
	_, exists, err := env.cache.GetEntry(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.True(t, exists)
}

func TestSetStatusByNonOwnerLooksLikeNotFound(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	_, ownerErr := env.lifecycle.SetStatus(ctx, "missing", domain.LinkStatusInactive, 7)
	_, intruderErr := env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusInactive, 8)

	assert.True(t, errors.Is(ownerErr, domain.ErrLinkNotFound))
	assert.True(t, errors.Is(intruderErr, domain.ErrLinkNotFound))

	// the record is untouched
	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, domain.LinkStatusActive, stored.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	_, err = env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatus("Paused"), 7)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	assert.Nil(t, env.lifecycle.Delete(ctx, link.ShortCode, 7))

	// the record survives, only its status flips
	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, domain.LinkStatusInactive, stored.Status)

	// deleting again still succeeds
	assert.Nil(t, env.lifecycle.Delete(ctx, link.ShortCode, 7))
}

func TestLinkFullLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	link, err := env.lifecycle.Create(ctx, "https://a.example/x", 7)
	assert.Nil(t, err)

	targetURL, err := env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)

	stored, err := env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), stored.VisitCount)

	_, err = env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusInactive, 7)
	assert.Nil(t, err)
	_, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.True(t, errors.Is(err, domain.ErrLinkInactive))

	stored, err = env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), stored.VisitCount)

	_, err = env.lifecycle.SetStatus(ctx, link.ShortCode, domain.LinkStatusActive, 7)
	assert.Nil(t, err)
	targetURL, err = env.resolver.Resolve(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, "https://a.example/x", targetURL)

	stored, err = env.repo.GetByShortCode(ctx, link.ShortCode)
	assert.Nil(t, err)
	assert.Equal(t, int64(3), stored.VisitCount)
}

func TestListRecent(t *testing.T) {
	ctx := context.Background()
	env := createTestEnv(t)

	first, err := env.lifecycle.Create(ctx, "https://a.example/1", 7)
	assert.Nil(t, err)
	second, err := env.lifecycle.Create(ctx, "https://a.example/2", 8)
	assert.Nil(t, err)

	all, err := env.lifecycle.List(ctx, nil, 0, 0)
	assert.Nil(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, second.ShortCode, all[0].ShortCode)

	ownerID := int64(7)
	mine, err := env.lifecycle.List(ctx, &ownerID, 0, 0)
	assert.Nil(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, first.ShortCode, mine[0].ShortCode)
}
