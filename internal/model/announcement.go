package model

import "time"

// Announcement is an admin broadcast pushed to every registered device.
type Announcement struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	AuthorUID string    `gorm:"column:author_uid;size:128;not null"`
	Title     string    `gorm:"size:255;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Announcement) TableName() string {
	return "announcements"
}
