package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mercadovecino/backend/internal/model"
)

func newReviewFixture() (*fakeClock, *fakeContactRepo, *fakeReviewRepo, ContactService, ReviewService) {
	clock := newFakeClock()
	contacts := newFakeContactRepo(clock)
	reviews := newFakeReviewRepo(clock)
	products := newFakeProductRepo(&model.Product{
		ID:        1,
		Title:     "Mesa de comedor",
		SellerUID: "seller-1",
		Active:    true,
	})
	contactSvc := NewContactService(contacts, products, nil)
	reviewSvc := NewReviewService(reviews, contacts, products, nil)
	return clock, contacts, reviews, contactSvc, reviewSvc
}

func TestEligibilityNeverContacted(t *testing.T) {
	_, _, _, _, reviewSvc := newReviewFixture()

	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible {
		t.Fatal("eligible without any contact")
	}
	if elig.State != EligibilityNeverContacted {
		t.Fatalf("state=%s want never_contacted", elig.State)
	}
}

func TestEligibilityPendingConfirmation(t *testing.T) {
	_, _, _, contactSvc, reviewSvc := newReviewFixture()

	if _, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible || elig.State != EligibilityPendingConfirmation {
		t.Fatalf("got %+v want pending_confirmation", elig)
	}
}

func TestEligibilityConfirmedWindow(t *testing.T) {
	clock, _, _, contactSvc, reviewSvc := newReviewFixture()

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, "seller-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !elig.Eligible || elig.State != EligibilityEligible {
		t.Fatalf("got %+v want eligible", elig)
	}
}

func TestSubmitValidationBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		comment string
		wantErr error
	}{
		{"rating too low", 0, "bien", ErrInvalidRating},
		{"rating too high", 6, "bien", ErrInvalidRating},
		{"negative rating", -1, "bien", ErrInvalidRating},
		{"empty comment", 5, "", ErrEmptyComment},
		{"whitespace comment", 5, "   ", ErrEmptyComment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, reviews, _, reviewSvc := newReviewFixture()
			_, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", tt.rating, tt.comment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v want %v", err, tt.wantErr)
			}
			if reviews.createCalls != 0 {
				t.Fatalf("createCalls=%d want 0", reviews.createCalls)
			}
		})
	}
}

func TestSubmitRequiresEligibility(t *testing.T) {
	_, _, reviews, _, reviewSvc := newReviewFixture()

	if _, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", 5, "Excelente"); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("err=%v want ErrNotEligible", err)
	}
	if reviews.createCalls != 0 {
		t.Fatalf("createCalls=%d want 0", reviews.createCalls)
	}
}

// Full cycle: contact, confirm, review, then the gate closes.
func TestSubmitFinalizesAndLocks(t *testing.T) {
	clock, contacts, _, contactSvc, reviewSvc := newReviewFixture()

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, "seller-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	clock.advance(time.Minute)

	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil || !elig.Eligible {
		t.Fatalf("want eligible before submit, got %+v err=%v", elig, err)
	}

	clock.advance(time.Minute)
	rv, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", 5, "Great")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rv.Rating != 5 || rv.Comment != "Great" {
		t.Fatalf("review=%+v", rv)
	}
	if got := contacts.contacts[ct.ID].Status; got != model.ContactStatusFinalized {
		t.Fatalf("contact status=%s want finalized", got)
	}

	clock.advance(time.Minute)
	elig, err = reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible || elig.State != EligibilityAlreadyReviewed {
		t.Fatalf("got %+v want already_reviewed", elig)
	}
}

// The finalize write after the review insert may be lost; the timestamp
// comparison must still read the pair as already reviewed.
func TestGateSelfHealsWhenFinalizeLost(t *testing.T) {
	clock, contacts, _, contactSvc, reviewSvc := newReviewFixture()
	contacts.failFinalize = true

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, "seller-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", 4, "Muy bueno"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := contacts.contacts[ct.ID].Status; got != model.ContactStatusConfirmed {
		t.Fatalf("fixture broken: status=%s want confirmed after lost finalize", got)
	}

	clock.advance(time.Minute)
	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible || elig.State != EligibilityAlreadyReviewed {
		t.Fatalf("got %+v want already_reviewed despite stale status", elig)
	}
}

// Finalized contact without any review is inconsistent data; fail closed.
func TestGateFailsClosedOnFinalizedWithoutReview(t *testing.T) {
	_, contacts, _, contactSvc, reviewSvc := newReviewFixture()

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	contacts.contacts[ct.ID].Status = model.ContactStatusFinalized

	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible || elig.State != EligibilityAlreadyReviewed {
		t.Fatalf("got %+v want already_reviewed", elig)
	}
}

// Cancel, re-contact: the same record restarts at pending, and the gate
// reads it as awaiting confirmation rather than already reviewed.
func TestResetAfterCancelReopensCycle(t *testing.T) {
	clock, _, _, contactSvc, reviewSvc := newReviewFixture()

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusCancelled, "seller-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	t6 := clock.advance(time.Minute)
	again, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("re-contact: %v", err)
	}
	if again.ID != ct.ID || again.Status != model.ContactStatusPending {
		t.Fatalf("got id=%d status=%s want same record back at pending", again.ID, again.Status)
	}
	if !again.CreatedAt.Equal(t6) {
		t.Fatalf("createdAt=%v want %v", again.CreatedAt, t6)
	}

	clock.advance(time.Minute)
	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elig.Eligible || elig.State != EligibilityPendingConfirmation {
		t.Fatalf("got %+v want pending_confirmation", elig)
	}
}

// A repeat purchase cycle after finalization opens a fresh review window.
func TestRepeatCycleAllowsSecondReview(t *testing.T) {
	clock, _, reviews, contactSvc, reviewSvc := newReviewFixture()

	ct, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, "seller-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", 5, "Primera compra"); err != nil {
		t.Fatalf("first review: %v", err)
	}

	clock.advance(time.Hour)
	if _, err := contactSvc.ContactSeller(context.Background(), 1, "buyer-1"); err != nil {
		t.Fatalf("re-contact: %v", err)
	}
	clock.advance(time.Minute)
	if _, err := contactSvc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, "seller-1"); err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	clock.advance(time.Minute)

	elig, err := reviewSvc.Eligibility(context.Background(), 1, "buyer-1")
	if err != nil || !elig.Eligible {
		t.Fatalf("want eligible on second cycle, got %+v err=%v", elig, err)
	}
	if _, err := reviewSvc.Submit(context.Background(), 1, "buyer-1", 3, "Segunda compra"); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if reviews.createCalls != 2 {
		t.Fatalf("createCalls=%d want 2", reviews.createCalls)
	}
}
