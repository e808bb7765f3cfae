package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/repository"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyComment  = errors.New("comment is required")
	ErrNotEligible   = errors.New("not_eligible")
)

type EligibilityState string

const (
	EligibilityEligible            EligibilityState = "eligible"
	EligibilityNeverContacted      EligibilityState = "never_contacted"
	EligibilityPendingConfirmation EligibilityState = "pending_confirmation"
	EligibilityAlreadyReviewed     EligibilityState = "already_reviewed"
)

type Eligibility struct {
	State    EligibilityState
	Eligible bool
}

type ReviewPage struct {
	Reviews []model.Review
	Total   int64
	Average float64
}

type ReviewService interface {
	Eligibility(ctx context.Context, productID uint64, buyerUID string) (Eligibility, error)
	Submit(ctx context.Context, productID uint64, buyerUID string, rating int, comment string) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint64, limit, offset int) (*ReviewPage, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	contactRepo repository.ContactRepository
	productRepo repository.ProductRepository
	notify      NotificationService
}

func NewReviewService(reviewRepo repository.ReviewRepository, contactRepo repository.ContactRepository, productRepo repository.ProductRepository, notify NotificationService) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, contactRepo: contactRepo, productRepo: productRepo, notify: notify}
}

// Eligibility recomputes from raw timestamps instead of trusting the status
// column alone: a review written after the contact's last confirmed/finalized
// update always reads as "already reviewed", even if the finalize write was
// lost. See Submit for the two-step write this protects against.
func (s *reviewService) Eligibility(ctx context.Context, productID uint64, buyerUID string) (Eligibility, error) {
	tContact, err := s.contactRepo.LatestUpdatedAtByStatus(ctx, productID, buyerUID,
		[]model.ContactStatus{model.ContactStatusConfirmed, model.ContactStatusFinalized})
	if err != nil {
		return Eligibility{}, err
	}
	if tContact == nil {
		contact, err := s.contactRepo.FindByProductAndBuyer(ctx, productID, buyerUID)
		if err != nil {
			return Eligibility{}, err
		}
		if contact == nil {
			return Eligibility{State: EligibilityNeverContacted}, nil
		}
		return Eligibility{State: EligibilityPendingConfirmation}, nil
	}

	tReview, err := s.reviewRepo.LatestCreatedAt(ctx, productID, buyerUID)
	if err != nil {
		return Eligibility{}, err
	}
	if tReview != nil && !tReview.Before(*tContact) {
		return Eligibility{State: EligibilityAlreadyReviewed}, nil
	}

	contact, err := s.contactRepo.FindByProductAndBuyer(ctx, productID, buyerUID)
	if err != nil {
		return Eligibility{}, err
	}
	if contact != nil && contact.Status == model.ContactStatusConfirmed {
		return Eligibility{State: EligibilityEligible, Eligible: true}, nil
	}
	// A finalized record with no newer review is inconsistent; fail closed.
	return Eligibility{State: EligibilityAlreadyReviewed}, nil
}

func (s *reviewService) Submit(ctx context.Context, productID uint64, buyerUID string, rating int, comment string) (*model.Review, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}

	elig, err := s.Eligibility(ctx, productID, buyerUID)
	if err != nil {
		return nil, err
	}
	if !elig.Eligible {
		return nil, ErrNotEligible
	}

	review := &model.Review{
		ProductID: productID,
		BuyerUID:  buyerUID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	// Second write of the pair; on failure the review stands and the
	// timestamp rule above reads the pair as already reviewed next time.
	if contact, cerr := s.contactRepo.FindByProductAndBuyer(ctx, productID, buyerUID); cerr == nil && contact != nil {
		_, _ = s.contactRepo.FinalizeIfConfirmed(ctx, contact.ID)
		if s.notify != nil {
			s.notify.Notify(ctx, contact.SellerUID, "review_new",
				"Nueva reseña", "Recibiste una calificación de "+strings.Repeat("★", rating),
				&productID, &contact.ID, &review.ID)
		}
	}
	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uint64, limit, offset int) (*ReviewPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, total, err := s.reviewRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	avg, _, err := s.reviewRepo.Stats(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Reviews: list, Total: total, Average: avg}, nil
}
