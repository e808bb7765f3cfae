package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mercadovecino/backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error)
	LatestCreatedAt(ctx context.Context, productID uint64, buyerUID string) (*time.Time, error)
	Stats(ctx context.Context, productID uint64) (avg float64, count int64, err error)
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		list  []model.Review
		total int64
	)
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *reviewRepository) LatestCreatedAt(ctx context.Context, productID uint64, buyerUID string) (*time.Time, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rv model.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_uid = ?", productID, buyerUID).
		Order("created_at DESC").
		First(&rv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t := rv.CreatedAt
	return &t, nil
}

func (r *reviewRepository) Stats(ctx context.Context, productID uint64) (float64, int64, error) {
	if r.db == nil {
		return 0, 0, ErrDBNotReady
	}
	var row struct {
		Avg   float64
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}
