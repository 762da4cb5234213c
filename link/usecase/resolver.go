package usecase

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	loggerKit "github.com/yorklin/linkly/kit/logger"
)

// linkResolver serves redirects through a cache-aside lookup. The cache is
// never on the critical path for correctness: any cache failure degrades
// the request to the store, and cache writes are fire-and-forget.
type linkResolver struct {
	repo     domain.LinkRepo
	cache    domain.LinkCache
	logger   *loggerKit.Logger
	cacheTTL time.Duration
}

func CreateLinkResolver(repo domain.LinkRepo, cache domain.LinkCache, logger *loggerKit.Logger, cacheTTL time.Duration) (domain.LinkResolver, error) {
	if repo == nil || cache == nil || logger == nil {
		return nil, errors.New("create resolver failed")
	}
	return &linkResolver{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}, nil
}

func (r *linkResolver) Resolve(ctx context.Context, shortCode string) (string, error) {
	if shortCode == "" {
		return "", errors.Wrap(domain.ErrInvalidArgument, "empty short code")
	}

	entry, exists, err := r.cache.GetEntry(ctx, shortCode)
	switch {
	case errors.Is(err, domain.ErrCacheEntryMalformed):
		// drop the corrupt entry and fall through to the store
		if delErr := r.cache.DeleteEntry(ctx, shortCode); delErr != nil {
			r.logger.Warn("delete malformed cache entry failed",
				loggerKit.String("short-code", shortCode), loggerKit.Error(delErr))
		}
	case err != nil:
		r.logger.Warn("read cache failed, falling back to store",
			loggerKit.String("short-code", shortCode), loggerKit.Error(err))
	case exists && entry.Status == domain.LinkStatusInactive:
		// inactive status is cached too, so dead codes do not hammer
		// the store
		return "", errors.Wrapf(domain.ErrLinkInactive, "short code %s", shortCode)
	case exists:
		r.incrementVisitCount(ctx, shortCode)
		return entry.TargetURL, nil
	}

	link, err := r.repo.GetByShortCode(ctx, shortCode)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return "", err
	}
	if err != nil {
		return "", errors.Wrap(err, "get link from store failed")
	}

	if link.Status == domain.LinkStatusInactive {
		r.setCacheEntry(ctx, shortCode, &domain.LinkCacheEntry{
			TargetURL: link.OriginalURL,
			Status:    domain.LinkStatusInactive,
		})
		return "", errors.Wrapf(domain.ErrLinkInactive, "short code %s", shortCode)
	}

	r.setCacheEntry(ctx, shortCode, &domain.LinkCacheEntry{
		TargetURL: link.OriginalURL,
		Status:    domain.LinkStatusActive,
	})
	r.incrementVisitCount(ctx, shortCode)

	return link.OriginalURL, nil
}

// incrementVisitCount runs after the decision to serve an active redirect.
// The store performs a single atomic "+1"; a transient failure costs one
// count and never the redirect, so it is logged and absorbed. It must not
// be retried by callers: a retry could double count.
func (r *linkResolver) incrementVisitCount(ctx context.Context, shortCode string) {
	if err := r.repo.IncrementVisitCount(ctx, shortCode); err != nil {
		r.logger.Warn("increment visit count failed",
			loggerKit.String("short-code", shortCode), loggerKit.Error(err))
	}
}

func (r *linkResolver) setCacheEntry(ctx context.Context, shortCode string, entry *domain.LinkCacheEntry) {
	if err := r.cache.SetEntry(ctx, shortCode, entry, r.cacheTTL); err != nil {
		r.logger.Warn("set cache failed",
			loggerKit.String("short-code", shortCode), loggerKit.Error(err))
	}
}
