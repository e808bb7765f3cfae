package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

type ProductService interface {
	Create(ctx context.Context, sellerUID, title, description string, price uint, imageURL *string, categorySlug string) (*model.Product, error)
	Get(ctx context.Context, id uint64) (*model.Product, error)
	Update(ctx context.Context, id uint64, sellerUID, title, description string, price uint, imageURL *string, categorySlug string, active *bool) (*model.Product, error)
	List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Product, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func validateProductFields(title, description, categorySlug string, imageURL *string) error {
	if title == "" || len(title) > 120 {
		return errors.New("invalid title")
	}
	if description == "" {
		return errors.New("invalid description")
	}
	if categorySlug == "" {
		return errors.New("category is required")
	}
	if imageURL != nil && strings.HasPrefix(strings.TrimSpace(*imageURL), "data:") {
		return errors.New("imageUrl must be a URL, not data URI")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, sellerUID, title, description string, price uint, imageURL *string, categorySlug string) (*model.Product, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	categorySlug = strings.TrimSpace(categorySlug)
	if err := validateProductFields(title, description, categorySlug, imageURL); err != nil {
		return nil, err
	}

	p := &model.Product{
		Title:        title,
		Description:  description,
		Price:        price,
		ImageURL:     imageURL,
		CategorySlug: categorySlug,
		SellerUID:    sellerUID,
		Active:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uint64, sellerUID, title, description string, price uint, imageURL *string, categorySlug string, active *bool) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	categorySlug = strings.TrimSpace(categorySlug)
	if err := validateProductFields(title, description, categorySlug, imageURL); err != nil {
		return nil, err
	}
	p.Title = title
	p.Description = description
	p.Price = price
	p.ImageURL = imageURL
	p.CategorySlug = categorySlug
	if active != nil {
		p.Active = *active
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset, strings.TrimSpace(categorySlug))
}

func (s *productService) ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.repo.ListBySeller(ctx, sellerUID)
}

func (s *productService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}
