package repository

import (
	"context"
	"errors"

	"github.com/mercadovecino/backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Product, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	SetDB(db *gorm.DB)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepository) List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Product, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		products []model.Product
		total    int64
	)
	countQ := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = ?", true)
	listQ := r.db.WithContext(ctx).Where("active = ?", true)
	if categorySlug != "" {
		countQ = countQ.Where("category_slug = ?", categorySlug)
		listQ = listQ.Where("category_slug = ?", categorySlug)
	}
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := listQ.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cats []model.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *productRepository) SetDB(db *gorm.DB) {
	r.db = db
}
