package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mercadovecino/backend/internal/model"
)

func newContactFixture() (*fakeClock, *fakeContactRepo, *fakeProductRepo, ContactService) {
	clock := newFakeClock()
	contacts := newFakeContactRepo(clock)
	products := newFakeProductRepo(&model.Product{
		ID:        1,
		Title:     "Mesa de comedor",
		SellerUID: "seller-1",
		Active:    true,
	})
	svc := NewContactService(contacts, products, nil)
	return clock, contacts, products, svc
}

func TestContactSellerCreatesPending(t *testing.T) {
	_, contacts, _, svc := newContactFixture()

	ct, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.Status != model.ContactStatusPending {
		t.Fatalf("status=%s want pending", ct.Status)
	}
	if ct.SellerUID != "seller-1" {
		t.Fatalf("sellerUID=%s want seller-1", ct.SellerUID)
	}
	if len(contacts.contacts) != 1 {
		t.Fatalf("records=%d want 1", len(contacts.contacts))
	}
}

func TestContactSellerRestartKeepsSingleRecord(t *testing.T) {
	clock, contacts, _, svc := newContactFixture()

	first, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("first contact: %v", err)
	}
	t2 := clock.advance(time.Hour)

	second, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("second contact: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second contact created a new record: id=%d want %d", second.ID, first.ID)
	}
	if len(contacts.contacts) != 1 {
		t.Fatalf("records=%d want 1", len(contacts.contacts))
	}
	if second.Status != model.ContactStatusPending {
		t.Fatalf("status=%s want pending", second.Status)
	}
	if !second.CreatedAt.Equal(t2) {
		t.Fatalf("createdAt=%v want time of second call %v", second.CreatedAt, t2)
	}
}

func TestContactSellerResetsAnyStatus(t *testing.T) {
	for _, status := range []model.ContactStatus{
		model.ContactStatusConfirmed,
		model.ContactStatusShipped,
		model.ContactStatusDelivered,
		model.ContactStatusCancelled,
		model.ContactStatusFinalized,
	} {
		t.Run(string(status), func(t *testing.T) {
			clock, contacts, _, svc := newContactFixture()
			first, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
			if err != nil {
				t.Fatalf("first contact: %v", err)
			}
			contacts.contacts[first.ID].Status = status
			t2 := clock.advance(time.Hour)

			ct, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
			if err != nil {
				t.Fatalf("re-contact: %v", err)
			}
			if ct.Status != model.ContactStatusPending {
				t.Fatalf("status=%s want pending", ct.Status)
			}
			if !ct.CreatedAt.Equal(t2) {
				t.Fatalf("createdAt not refreshed")
			}
		})
	}
}

func TestContactSellerRejectsOwnProduct(t *testing.T) {
	_, _, _, svc := newContactFixture()

	if _, err := svc.ContactSeller(context.Background(), 1, "seller-1"); err == nil {
		t.Fatal("expected error contacting own product")
	}
}

func TestContactSellerUnknownProduct(t *testing.T) {
	_, _, _, svc := newContactFixture()

	if _, err := svc.ContactSeller(context.Background(), 99, "buyer-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestUpdateStatusTransitionTable(t *testing.T) {
	all := []model.ContactStatus{
		model.ContactStatusPending,
		model.ContactStatusConfirmed,
		model.ContactStatusPreparing,
		model.ContactStatusShipped,
		model.ContactStatusDelivered,
		model.ContactStatusCancelled,
		model.ContactStatusFinalized,
	}
	allowed := map[model.ContactStatus][]model.ContactStatus{
		model.ContactStatusPending:   {model.ContactStatusConfirmed, model.ContactStatusCancelled},
		model.ContactStatusConfirmed: {model.ContactStatusPreparing, model.ContactStatusShipped, model.ContactStatusCancelled},
		model.ContactStatusPreparing: {model.ContactStatusShipped},
		model.ContactStatusShipped:   {model.ContactStatusDelivered},
	}

	for _, from := range all {
		for _, to := range all {
			wantOK := false
			for _, a := range allowed[from] {
				if a == to {
					wantOK = true
				}
			}
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				_, contacts, _, svc := newContactFixture()
				first, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
				if err != nil {
					t.Fatalf("setup contact: %v", err)
				}
				contacts.contacts[first.ID].Status = from

				ct, err := svc.UpdateStatus(context.Background(), first.ID, to, "seller-1")
				if wantOK {
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if ct.Status != to {
						t.Fatalf("status=%s want %s", ct.Status, to)
					}
				} else {
					if !errors.Is(err, ErrInvalidTransition) {
						t.Fatalf("err=%v want ErrInvalidTransition", err)
					}
					if got := contacts.contacts[first.ID].Status; got != from {
						t.Fatalf("status mutated to %s on rejected transition", got)
					}
				}
			})
		}
	}
}

func TestUpdateStatusRequiresSeller(t *testing.T) {
	_, _, _, svc := newContactFixture()
	ct, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("setup contact: %v", err)
	}

	for _, actor := range []string{"buyer-1", "someone-else"} {
		if _, err := svc.UpdateStatus(context.Background(), ct.ID, model.ContactStatusConfirmed, actor); !errors.Is(err, ErrForbidden) {
			t.Fatalf("actor=%s err=%v want ErrForbidden", actor, err)
		}
	}
}

func TestUpdateStatusUnknownContact(t *testing.T) {
	_, _, _, svc := newContactFixture()
	if _, err := svc.UpdateStatus(context.Background(), 42, model.ContactStatusConfirmed, "seller-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestGetByProduct(t *testing.T) {
	_, _, _, svc := newContactFixture()
	if _, err := svc.GetByProduct(context.Background(), 1, "buyer-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound before contact", err)
	}
	created, err := svc.ContactSeller(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("setup contact: %v", err)
	}
	got, err := svc.GetByProduct(context.Background(), 1, "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("id=%d want %d", got.ID, created.ID)
	}
}
