package service

import (
	"context"
	"errors"

	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidTransition = errors.New("invalid_transition")

type ContactService interface {
	// ContactSeller starts or restarts the buyer's cycle on a product.
	// An existing record for the pair is reset back to pending with fresh
	// timestamps, whatever its current status; otherwise a new pending
	// record is created.
	ContactSeller(ctx context.Context, productID uint64, buyerUID string) (*model.Contact, error)
	UpdateStatus(ctx context.Context, contactID uint64, target model.ContactStatus, actorUID string) (*model.Contact, error)
	GetByProduct(ctx context.Context, productID uint64, uid string) (*model.Contact, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]ContactWithProduct, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]ContactWithProduct, error)
}

type ContactWithProduct struct {
	Contact model.Contact
	Product *model.Product
}

type contactService struct {
	contactRepo repository.ContactRepository
	productRepo repository.ProductRepository
	notify      NotificationService
}

func NewContactService(contactRepo repository.ContactRepository, productRepo repository.ProductRepository, notify NotificationService) ContactService {
	return &contactService{contactRepo: contactRepo, productRepo: productRepo, notify: notify}
}

func (s *contactService) ContactSeller(ctx context.Context, productID uint64, buyerUID string) (*model.Contact, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if product.SellerUID == "" {
		return nil, errors.New("product has no seller")
	}
	if product.SellerUID == buyerUID {
		return nil, errors.New("cannot contact your own product")
	}

	// Lookup and write are two round trips, not an upsert; the unique index
	// on (product_id, buyer_uid) is what stops concurrent duplicates.
	existing, err := s.contactRepo.FindByProductAndBuyer(ctx, productID, buyerUID)
	if err != nil {
		return nil, err
	}

	var contact *model.Contact
	if existing != nil {
		if err := s.contactRepo.Reset(ctx, existing.ID); err != nil {
			return nil, err
		}
		contact, err = s.contactRepo.FindByID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
	} else {
		contact = &model.Contact{
			ProductID: productID,
			BuyerUID:  buyerUID,
			SellerUID: product.SellerUID,
			Status:    model.ContactStatusPending,
		}
		if err := s.contactRepo.Create(ctx, contact); err != nil {
			return nil, err
		}
	}

	if s.notify != nil {
		s.notify.Notify(ctx, product.SellerUID, "contact_new",
			"Nuevo interesado", "Un comprador quiere tu producto: "+product.Title,
			&product.ID, &contact.ID, nil)
	}
	return contact, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, contactID uint64, target model.ContactStatus, actorUID string) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if contact.SellerUID != actorUID {
		return nil, ErrForbidden
	}
	if !contact.Status.CanAdvanceTo(target) {
		return nil, ErrInvalidTransition
	}
	if err := s.contactRepo.UpdateStatus(ctx, contact.ID, target); err != nil {
		return nil, err
	}
	contact, err = s.contactRepo.FindByID(ctx, contact.ID)
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Notify(ctx, contact.BuyerUID, "contact_status",
			"Tu pedido cambió de estado", "Nuevo estado: "+string(target),
			&contact.ProductID, &contact.ID, nil)
	}
	return contact, nil
}

// GetByProduct returns the caller's own contact record on a product.
func (s *contactService) GetByProduct(ctx context.Context, productID uint64, uid string) (*model.Contact, error) {
	if uid == "" {
		return nil, ErrForbidden
	}
	contact, err := s.contactRepo.FindByProductAndBuyer(ctx, productID, uid)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

func (s *contactService) ListByBuyer(ctx context.Context, buyerUID string) ([]ContactWithProduct, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	contacts, err := s.contactRepo.ListByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, contacts), nil
}

func (s *contactService) ListBySeller(ctx context.Context, sellerUID string) ([]ContactWithProduct, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	contacts, err := s.contactRepo.ListBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, contacts), nil
}

func (s *contactService) withProducts(ctx context.Context, contacts []model.Contact) []ContactWithProduct {
	resp := make([]ContactWithProduct, 0, len(contacts))
	for _, c := range contacts {
		product, _ := s.productRepo.FindByID(ctx, c.ProductID)
		resp = append(resp, ContactWithProduct{Contact: c, Product: product})
	}
	return resp
}
