package model

import "time"

// Review is a buyer's rating of a product after a confirmed contact cycle.
// There is deliberately no unique index on (product_id, buyer_uid): a buyer
// who purchases the same product again may review it again, one review per
// completed cycle. Eligibility is decided by timestamp comparison against
// the contact row, not by a constraint here.
type Review struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `gorm:"column:product_id;index;not null"`
	BuyerUID  string    `gorm:"column:buyer_uid;size:128;index;not null"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
