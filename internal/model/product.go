package model

import "time"

type Product struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"size:120;not null"`
	Description  string    `gorm:"type:text;not null"`
	Price        uint      `gorm:"not null"`
	ImageURL     *string   `gorm:"size:512"`
	CategorySlug string    `gorm:"column:category_slug;size:64;index;not null"`
	SellerUID    string    `gorm:"column:seller_uid;size:128;index;not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
