package repository

import (
	"context"

	"github.com/mercadovecino/backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushTokenRepository interface {
	// Upsert registers a device token, reassigning it if another uid held it.
	Upsert(ctx context.Context, t *model.PushToken) error
	ListByUser(ctx context.Context, userUID string) ([]model.PushToken, error)
	ListAll(ctx context.Context) ([]model.PushToken, error)
	DeleteByToken(ctx context.Context, token string) error
	SetDB(db *gorm.DB)
}

type pushTokenRepository struct {
	db *gorm.DB
}

func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{db: db}
}

func (r *pushTokenRepository) Upsert(ctx context.Context, t *model.PushToken) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_uid", "platform", "updated_at"}),
		}).
		Create(t).Error
}

func (r *pushTokenRepository) ListByUser(ctx context.Context, userUID string) ([]model.PushToken, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.PushToken
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pushTokenRepository) ListAll(ctx context.Context) ([]model.PushToken, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.PushToken
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pushTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.PushToken{}).Error
}

func (r *pushTokenRepository) SetDB(db *gorm.DB) {
	r.db = db
}
