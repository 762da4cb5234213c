package domain

import (
	"context"
	"time"
)

type LinkStatus string

const (
	LinkStatusActive   LinkStatus = "Active"
	LinkStatusInactive LinkStatus = "Inactive"
)

func (s LinkStatus) IsValid() bool {
	return s == LinkStatusActive || s == LinkStatusInactive
}

// Link is the durable record for one shortened URL. ShortCode is derived
// from the store-assigned ID after insert and is immutable once set.
type Link struct {
	ID          int64
	ShortCode   string
	OriginalURL string
	Status      LinkStatus
	VisitCount  int64
	OwnerID     int64 // 0 means anonymous
	CreatedAt   time.Time
}

// LinkCacheEntry is the cached view of a link, keyed by short code. The
// store stays the source of truth; an entry may be missing or stale within
// the TTL without correctness impact.
type LinkCacheEntry struct {
	TargetURL string     `json:"target_url"`
	Status    LinkStatus `json:"status"`
}

type LinkRepo interface {
	// Create inserts the record, derives the short code from the assigned
	// ID and persists it, all in one transaction. A row with an empty
	// short code is never observable outside the transaction.
	Create(ctx context.Context, originalURL string, ownerID int64) (*Link, error)
	GetByShortCode(ctx context.Context, shortCode string) (*Link, error)
	GetByOriginalURL(ctx context.Context, originalURL string) (*Link, error)
	// ListRecent returns links ordered by creation time descending.
	// ownerID nil lists links for all owners.
	ListRecent(ctx context.Context, ownerID *int64, offset, limit int) ([]*Link, error)
	UpdateStatus(ctx context.Context, id int64, status LinkStatus) error
	// IncrementVisitCount adds exactly 1 at the store, never
	// read-modify-write. Keyed by short code so the cache-hit path can
	// count without a record fetch.
	IncrementVisitCount(ctx context.Context, shortCode string) error
}

type LinkCache interface {
	GetEntry(ctx context.Context, shortCode string) (*LinkCacheEntry, bool, error)
	SetEntry(ctx context.Context, shortCode string, entry *LinkCacheEntry, expiration time.Duration) error
	DeleteEntry(ctx context.Context, shortCode string) error
}

type LinkResolver interface {
	// Resolve returns the target URL for an active short code.
	// ErrLinkNotFound for unknown codes, ErrLinkInactive for deactivated ones.
	Resolve(ctx context.Context, shortCode string) (string, error)
}

type LinkLifecycle interface {
	Create(ctx context.Context, originalURL string, ownerID int64) (*Link, error)
	// SetStatus requires requesterOwnerID to match the record owner. A
	// mismatch reports ErrLinkNotFound, indistinguishable from a missing code.
	SetStatus(ctx context.Context, shortCode string, status LinkStatus, requesterOwnerID int64) (*Link, error)
	// Delete soft deletes: the record is marked inactive, never removed.
	Delete(ctx context.Context, shortCode string, requesterOwnerID int64) error
	List(ctx context.Context, ownerID *int64, offset, limit int) ([]*Link, error)
}

const LinkCacheKeyPrefix = "linkly:short_code:"

func LinkCacheKey(shortCode string) string {
	return LinkCacheKeyPrefix + shortCode
}
