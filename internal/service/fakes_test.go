package service

import (
	"context"
	"time"

	"github.com/mercadovecino/backend/internal/model"
	"gorm.io/gorm"
)

// The fakes below implement the repository interfaces in memory with a
// controllable clock, so policy logic is tested without a database.

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type fakeContactRepo struct {
	clock        *fakeClock
	contacts     map[uint64]*model.Contact
	nextID       uint64
	failFinalize bool
}

func newFakeContactRepo(clock *fakeClock) *fakeContactRepo {
	return &fakeContactRepo{clock: clock, contacts: map[uint64]*model.Contact{}, nextID: 1}
}

func (f *fakeContactRepo) Create(ctx context.Context, c *model.Contact) error {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = f.clock.t
	c.UpdatedAt = f.clock.t
	cp := *c
	f.contacts[c.ID] = &cp
	return nil
}

func (f *fakeContactRepo) FindByID(ctx context.Context, id uint64) (*model.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContactRepo) FindByProductAndBuyer(ctx context.Context, productID uint64, buyerUID string) (*model.Contact, error) {
	var found *model.Contact
	for _, c := range f.contacts {
		if c.ProductID == productID && c.BuyerUID == buyerUID {
			if found == nil || c.ID > found.ID {
				found = c
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (f *fakeContactRepo) Reset(ctx context.Context, id uint64) error {
	c, ok := f.contacts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = model.ContactStatusPending
	c.CreatedAt = f.clock.t
	c.UpdatedAt = f.clock.t
	return nil
}

func (f *fakeContactRepo) UpdateStatus(ctx context.Context, id uint64, status model.ContactStatus) error {
	c, ok := f.contacts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	c.UpdatedAt = f.clock.t
	return nil
}

func (f *fakeContactRepo) FinalizeIfConfirmed(ctx context.Context, id uint64) (int64, error) {
	if f.failFinalize {
		return 0, nil
	}
	c, ok := f.contacts[id]
	if !ok || c.Status != model.ContactStatusConfirmed {
		return 0, nil
	}
	c.Status = model.ContactStatusFinalized
	c.UpdatedAt = f.clock.t
	return 1, nil
}

func (f *fakeContactRepo) LatestUpdatedAtByStatus(ctx context.Context, productID uint64, buyerUID string, statuses []model.ContactStatus) (*time.Time, error) {
	var latest *time.Time
	for _, c := range f.contacts {
		if c.ProductID != productID || c.BuyerUID != buyerUID {
			continue
		}
		match := false
		for _, s := range statuses {
			if c.Status == s {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		t := c.UpdatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeContactRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Contact, error) {
	var list []model.Contact
	for _, c := range f.contacts {
		if c.BuyerUID == buyerUID {
			list = append(list, *c)
		}
	}
	return list, nil
}

func (f *fakeContactRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Contact, error) {
	var list []model.Contact
	for _, c := range f.contacts {
		if c.SellerUID == sellerUID {
			list = append(list, *c)
		}
	}
	return list, nil
}

func (f *fakeContactRepo) SetDB(db *gorm.DB) {}

type fakeReviewRepo struct {
	clock       *fakeClock
	reviews     []model.Review
	nextID      uint64
	createCalls int
}

func newFakeReviewRepo(clock *fakeClock) *fakeReviewRepo {
	return &fakeReviewRepo{clock: clock, nextID: 1}
}

func (f *fakeReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	f.createCalls++
	rv.ID = f.nextID
	f.nextID++
	rv.CreatedAt = f.clock.t
	f.reviews = append(f.reviews, *rv)
	return nil
}

func (f *fakeReviewRepo) ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error) {
	var list []model.Review
	for _, rv := range f.reviews {
		if rv.ProductID == productID {
			list = append(list, rv)
		}
	}
	return list, int64(len(list)), nil
}

func (f *fakeReviewRepo) LatestCreatedAt(ctx context.Context, productID uint64, buyerUID string) (*time.Time, error) {
	var latest *time.Time
	for _, rv := range f.reviews {
		if rv.ProductID != productID || rv.BuyerUID != buyerUID {
			continue
		}
		t := rv.CreatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeReviewRepo) Stats(ctx context.Context, productID uint64) (float64, int64, error) {
	var sum, count int64
	for _, rv := range f.reviews {
		if rv.ProductID == productID {
			sum += int64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (f *fakeReviewRepo) SetDB(db *gorm.DB) {}

type fakeProductRepo struct {
	products map[uint64]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	m := map[uint64]*model.Product{}
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, limit, offset int, categorySlug string) ([]model.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

func (f *fakeProductRepo) SetDB(db *gorm.DB) {}
