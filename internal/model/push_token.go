package model

import "time"

// PushToken is one device's FCM registration token. Tokens are unique
// across users; re-registering an existing token moves it to the new uid.
type PushToken struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserUID   string    `gorm:"column:user_uid;size:128;index;not null"`
	Token     string    `gorm:"column:token;size:512;not null;uniqueIndex:uk_push_tokens_token"`
	Platform  string    `gorm:"column:platform;size:16"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (PushToken) TableName() string {
	return "push_tokens"
}
