package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	utilKit "github.com/yorklin/linkly/kit/util"
)

// linkRepo is a process-local LinkRepo with the same identity and
// atomicity semantics as the SQL implementation. Used by tests and
// store-less wiring.
type linkRepo struct {
	lock      sync.Mutex
	links     map[int64]*domain.Link
	codeIndex map[string]int64
	nextID    int64
}

func CreateLinkRepo() domain.LinkRepo {
	return &linkRepo{
		links:     make(map[int64]*domain.Link),
		codeIndex: make(map[string]int64),
		nextID:    1,
	}
}

func (r *linkRepo) Create(ctx context.Context, originalURL string, ownerID int64) (*domain.Link, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := r.nextID
	shortCode, err := utilKit.EncodeShortCode(id)
	if err != nil {
		return nil, errors.Wrap(err, "derive short code failed")
	}
	if _, exists := r.codeIndex[shortCode]; exists {
		return nil, errors.Wrapf(errors.New("duplicated short code"), "short code %s", shortCode)
	}
	r.nextID++

	link := &domain.Link{
		ID:          id,
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Status:      domain.LinkStatusActive,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	r.links[id] = link
	r.codeIndex[shortCode] = id

	copied := *link
	return &copied, nil
}

func (r *linkRepo) GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, exists := r.codeIndex[shortCode]
	if !exists {
		return nil, errors.Wrapf(domain.ErrLinkNotFound, "short code %s", shortCode)
	}
	copied := *r.links[id]
	return &copied, nil
}

func (r *linkRepo) GetByOriginalURL(ctx context.Context, originalURL string) (*domain.Link, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, link := range r.links {
		if link.OriginalURL == originalURL {
			copied := *link
			return &copied, nil
		}
	}
	return nil, errors.Wrap(domain.ErrLinkNotFound, "no link for original url")
}

func (r *linkRepo) ListRecent(ctx context.Context, ownerID *int64, offset, limit int) ([]*domain.Link, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	links := make([]*domain.Link, 0, len(r.links))
	for _, link := range r.links {
		if ownerID != nil && link.OwnerID != *ownerID {
			continue
		}
		copied := *link
		links = append(links, &copied)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].ID > links[j].ID
		}
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	if offset >= len(links) {
		return nil, nil
	}
	links = links[offset:]
	if limit > 0 && limit < len(links) {
		links = links[:limit]
	}
	return links, nil
}

func (r *linkRepo) UpdateStatus(ctx context.Context, id int64, status domain.LinkStatus) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	link, exists := r.links[id]
	if !exists {
		return errors.Wrapf(domain.ErrLinkNotFound, "id %d", id)
	}
	link.Status = status
	return nil
}

func (r *linkRepo) IncrementVisitCount(ctx context.Context, shortCode string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, exists := r.codeIndex[shortCode]
	if !exists {
		return errors.Wrapf(domain.ErrLinkNotFound, "short code %s", shortCode)
	}
	r.links[id].VisitCount++
	return nil
}
