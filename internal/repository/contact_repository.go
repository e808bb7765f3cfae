package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mercadovecino/backend/internal/model"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	FindByID(ctx context.Context, id uint64) (*model.Contact, error)
	FindByProductAndBuyer(ctx context.Context, productID uint64, buyerUID string) (*model.Contact, error)
	// Reset restarts the cycle: status back to pending with both timestamps
	// refreshed, regardless of the current status.
	Reset(ctx context.Context, id uint64) error
	UpdateStatus(ctx context.Context, id uint64, status model.ContactStatus) error
	// FinalizeIfConfirmed flips confirmed -> finalized and reports how many
	// rows matched; 0 means the record was not in confirmed anymore.
	FinalizeIfConfirmed(ctx context.Context, id uint64) (int64, error)
	LatestUpdatedAtByStatus(ctx context.Context, productID uint64, buyerUID string, statuses []model.ContactStatus) (*time.Time, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Contact, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Contact, error)
	SetDB(db *gorm.DB)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uint64) (*model.Contact, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Contact
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) FindByProductAndBuyer(ctx context.Context, productID uint64, buyerUID string) (*model.Contact, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Contact
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_uid = ?", productID, buyerUID).
		Order("id DESC").
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) Reset(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.ContactStatusPending,
			"created_at": now,
			"updated_at": now,
		}).Error
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uint64, status model.ContactStatus) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *contactRepository) FinalizeIfConfirmed(ctx context.Context, id uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.Contact{}).
		Where("id = ? AND status = ?", id, model.ContactStatusConfirmed).
		Updates(map[string]interface{}{
			"status":     model.ContactStatusFinalized,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *contactRepository) LatestUpdatedAtByStatus(ctx context.Context, productID uint64, buyerUID string, statuses []model.ContactStatus) (*time.Time, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Contact
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_uid = ? AND status IN ?", productID, buyerUID, statuses).
		Order("updated_at DESC").
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := c.UpdatedAt
	return &t, nil
}

func (r *contactRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Contact, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Contact
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *contactRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Contact, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Contact
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *contactRepository) SetDB(db *gorm.DB) {
	r.db = db
}
