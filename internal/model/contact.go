package model

import "time"

type ContactStatus string

const (
	ContactStatusPending   ContactStatus = "pending"
	ContactStatusConfirmed ContactStatus = "confirmed"
	ContactStatusPreparing ContactStatus = "preparing"
	ContactStatusShipped   ContactStatus = "shipped"
	ContactStatusDelivered ContactStatus = "delivered"
	ContactStatusCancelled ContactStatus = "cancelled"
	ContactStatusFinalized ContactStatus = "finalized"
)

// sellerTransitions is the full set of status changes a seller may request.
// finalized is reachable only through the review flow, never directly.
var sellerTransitions = map[ContactStatus][]ContactStatus{
	ContactStatusPending:   {ContactStatusConfirmed, ContactStatusCancelled},
	ContactStatusConfirmed: {ContactStatusPreparing, ContactStatusShipped, ContactStatusCancelled},
	ContactStatusPreparing: {ContactStatusShipped},
	ContactStatusShipped:   {ContactStatusDelivered},
	ContactStatusDelivered: {},
	ContactStatusCancelled: {},
	ContactStatusFinalized: {},
}

func ParseContactStatus(s string) (ContactStatus, bool) {
	st := ContactStatus(s)
	_, ok := sellerTransitions[st]
	return st, ok
}

// NextStatuses returns the statuses a seller may move this status to.
func (s ContactStatus) NextStatuses() []ContactStatus {
	next, ok := sellerTransitions[s]
	if !ok {
		return nil
	}
	out := make([]ContactStatus, len(next))
	copy(out, next)
	return out
}

// CanAdvanceTo reports whether a seller may move status s to target.
func (s ContactStatus) CanAdvanceTo(target ContactStatus) bool {
	for _, n := range sellerTransitions[s] {
		if n == target {
			return true
		}
	}
	return false
}

func (s ContactStatus) Terminal() bool {
	return len(sellerTransitions[s]) == 0
}

// Contact is one buyer's engagement cycle with a seller over a product.
// At most one row exists per (product, buyer); re-contacting resets the
// existing row back to pending instead of creating a new one.
type Contact struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement"`
	ProductID uint64        `gorm:"column:product_id;index:idx_product_buyer,unique;not null"`
	BuyerUID  string        `gorm:"column:buyer_uid;size:128;index:idx_product_buyer,unique;not null"`
	SellerUID string        `gorm:"column:seller_uid;size:128;index;not null"`
	Status    ContactStatus `gorm:"column:status;size:32;not null"`
	CreatedAt time.Time     `gorm:"autoCreateTime"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}
