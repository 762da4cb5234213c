package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	loggerKit "github.com/yorklin/linkly/kit/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// linkLifecycle owns creation and status transitions. The store is the
// source of truth; every effective status change invalidates the cached
// view so staleness is bounded by the store-commit-to-delete gap, not the
// full TTL.
type linkLifecycle struct {
	repo     domain.LinkRepo
	cache    domain.LinkCache
	logger   *loggerKit.Logger
	cacheTTL time.Duration
}

func CreateLinkLifecycle(repo domain.LinkRepo, cache domain.LinkCache, logger *loggerKit.Logger, cacheTTL time.Duration) (domain.LinkLifecycle, error) {
	if repo == nil || cache == nil || logger == nil {
		return nil, errors.New("create lifecycle failed")
	}
	return &linkLifecycle{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}, nil
}

func (l *linkLifecycle) Create(ctx context.Context, originalURL string, ownerID int64) (*domain.Link, error) {
	if err := validateURL(originalURL); err != nil {
		return nil, err
	}

	link, err := l.repo.Create(ctx, originalURL, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "create link failed")
	}

	// Seed failure only costs one future cache miss, never the create.
	if err := l.cache.SetEntry(ctx, link.ShortCode, &domain.LinkCacheEntry{
		TargetURL: link.OriginalURL,
		Status:    domain.LinkStatusActive,
	}, l.cacheTTL); err != nil {
		l.logger.Warn("seed cache after create failed",
			loggerKit.String("short-code", link.ShortCode), loggerKit.Error(err))
	}

	return link, nil
}

func (l *linkLifecycle) SetStatus(ctx context.Context, shortCode string, status domain.LinkStatus, requesterOwnerID int64) (*domain.Link, error) {
	if !status.IsValid() {
		return nil, errors.Wrapf(domain.ErrInvalidArgument, "unknown status %q", status)
	}

	link, err := l.repo.GetByShortCode(ctx, shortCode)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "get link failed")
	}

	// Non-owners get the same answer as a missing code.
	if link.OwnerID != requesterOwnerID {
		return nil, errors.Wrapf(domain.ErrLinkNotFound, "requester %d does not own short code %s", requesterOwnerID, shortCode)
	}

	// idempotent: already in the requested state
	if link.Status == status {
		return link, nil
	}

	if err := l.repo.UpdateStatus(ctx, link.ID, status); err != nil {
		return nil, errors.Wrap(err, "update status failed")
	}
	link.Status = status

	// Unconditional invalidation after the store commit. A failure here
	// leaves at most a TTL-bounded stale entry and is logged, not
	// surfaced.
	if err := l.cache.DeleteEntry(ctx, shortCode); err != nil {
		l.logger.Warn("invalidate cache after status update failed",
			loggerKit.String("short-code", shortCode), loggerKit.Error(err))
	}

	return link, nil
}

// Delete soft deletes: the record is marked inactive and kept. Deleting an
// already inactive link succeeds, the desired state is reached either way.
func (l *linkLifecycle) Delete(ctx context.Context, shortCode string, requesterOwnerID int64) error {
	if _, err := l.SetStatus(ctx, shortCode, domain.LinkStatusInactive, requesterOwnerID); err != nil {
		return err
	}
	return nil
}

func (l *linkLifecycle) List(ctx context.Context, ownerID *int64, offset, limit int) ([]*domain.Link, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	links, err := l.repo.ListRecent(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list links failed")
	}
	return links, nil
}

func validateURL(originalURL string) error {
	parsed, err := url.Parse(originalURL)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidArgument, "parse url failed: %s", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.Wrapf(domain.ErrInvalidArgument, "url must be absolute http or https: %s", originalURL)
	}
	return nil
}
