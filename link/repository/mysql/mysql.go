package mysql

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yorklin/linkly/domain"
	ormKit "github.com/yorklin/linkly/kit/orm"
	utilKit "github.com/yorklin/linkly/kit/util"
)

type linkEntity struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	ShortCode   *string `gorm:"column:short_code;size:16;uniqueIndex"`
	OriginalURL string  `gorm:"column:original_url;size:2048;not null"`
	Status      string  `gorm:"size:16;not null;default:Active"`
	VisitCount  int64   `gorm:"not null;default:0"`
	OwnerID     int64   `gorm:"not null;default:0;index"`
	CreatedAt   time.Time
}

func (linkEntity) TableName() string {
	return "url_mappings"
}

func (l *linkEntity) toDomain() *domain.Link {
	var shortCode string
	if l.ShortCode != nil {
		shortCode = *l.ShortCode
	}
	return &domain.Link{
		ID:          l.ID,
		ShortCode:   shortCode,
		OriginalURL: l.OriginalURL,
		Status:      domain.LinkStatus(l.Status),
		VisitCount:  l.VisitCount,
		OwnerID:     l.OwnerID,
		CreatedAt:   l.CreatedAt,
	}
}

type linkRepo struct {
	db *ormKit.DB
}

func CreateLinkRepo(db *ormKit.DB) domain.LinkRepo {
	return &linkRepo{db: db}
}

// Create inserts the row, derives the short code from the assigned id and
// persists it, all inside one transaction. A failure at any step rolls the
// insert back, so a row without a short code never becomes visible.
func (r *linkRepo) Create(ctx context.Context, originalURL string, ownerID int64) (*domain.Link, error) {
	entity := linkEntity{
		OriginalURL: originalURL,
		Status:      string(domain.LinkStatusActive),
		OwnerID:     ownerID,
	}
	err := r.db.Transaction(func(tx *ormKit.TX) error {
		if err := tx.WithContext(ctx).Create(&entity).Error; err != nil {
			return errors.Wrap(err, "insert link failed")
		}
		if entity.ID <= 0 {
			return errors.New("store assigned no identity")
		}
		shortCode, err := utilKit.EncodeShortCode(entity.ID)
		if err != nil {
			return errors.Wrap(err, "derive short code failed")
		}
		if err := tx.WithContext(ctx).
			Model(&linkEntity{}).
			Where("id = ?", entity.ID).
			Update("short_code", shortCode).Error; err != nil {
			if convertedErr, ok := ormKit.ConvertMySQLErr(err); ok {
				return errors.Wrap(convertedErr, "persist short code failed")
			}
			return errors.Wrap(err, "persist short code failed")
		}
		entity.ShortCode = &shortCode
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entity.toDomain(), nil
}

func (r *linkRepo) GetByShortCode(ctx context.Context, shortCode string) (*domain.Link, error) {
	var entity linkEntity
	err := r.db.Where("short_code = ?", shortCode).WithContext(ctx).First(&entity).Error
	if errors.Is(err, ormKit.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrLinkNotFound, "short code %s", shortCode)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get link by short code failed")
	}
	return entity.toDomain(), nil
}

func (r *linkRepo) GetByOriginalURL(ctx context.Context, originalURL string) (*domain.Link, error) {
	var entity linkEntity
	err := r.db.Where("original_url = ?", originalURL).WithContext(ctx).First(&entity).Error
	if errors.Is(err, ormKit.ErrRecordNotFound) {
		return nil, errors.Wrap(domain.ErrLinkNotFound, "no link for original url")
	}
	if err != nil {
		return nil, errors.Wrap(err, "get link by original url failed")
	}
	return entity.toDomain(), nil
}

func (r *linkRepo) ListRecent(ctx context.Context, ownerID *int64, offset, limit int) ([]*domain.Link, error) {
	query := r.db.Model(&linkEntity{}).WithContext(ctx)
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	var entities []linkEntity
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entities).Error; err != nil {
		return nil, errors.Wrap(err, "list links failed")
	}
	links := make([]*domain.Link, len(entities))
	for idx := range entities {
		links[idx] = entities[idx].toDomain()
	}
	return links, nil
}

func (r *linkRepo) UpdateStatus(ctx context.Context, id int64, status domain.LinkStatus) error {
	// MySQL reports zero affected rows for a same-value update, so rows
	// affected cannot distinguish "missing" from "already set". Existence
	// is the caller's concern.
	err := r.db.Model(&linkEntity{}).WithContext(ctx).Where("id = ?", id).Update("status", string(status)).Error
	if err != nil {
		return errors.Wrap(err, "update status failed")
	}
	return nil
}

// IncrementVisitCount is a single atomic "+1" statement at the store. It is
// never computed from a previously read value, so N concurrent increments
// always add exactly N.
func (r *linkRepo) IncrementVisitCount(ctx context.Context, shortCode string) error {
	result := r.db.Model(&linkEntity{}).WithContext(ctx).
		Where("short_code = ?", shortCode).
		Update("visit_count", ormKit.Expr("visit_count + ?", 1))
	if result.Error != nil {
		return errors.Wrap(result.Error, "increment visit count failed")
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrLinkNotFound, "short code %s", shortCode)
	}
	return nil
}
