package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mercadovecino/backend/internal/model"
	"github.com/mercadovecino/backend/internal/push"
	"github.com/mercadovecino/backend/internal/repository"
)

type NotificationService interface {
	// Notify is best-effort: it writes an in-app notification row and fans
	// out a push to the user's devices without reporting failures to the
	// caller, so main flows never break on delivery problems.
	Notify(ctx context.Context, userUID, typ, title, body string, productID, contactID, reviewID *uint64)
	List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userUID string) error
	RegisterToken(ctx context.Context, userUID, token, platform string) error
	Broadcast(ctx context.Context, authorUID, title, body string) (*model.Announcement, error)
	ListAnnouncements(ctx context.Context, limit int) ([]model.Announcement, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	tokenRepo repository.PushTokenRepository
	annRepo   repository.AnnouncementRepository
	sender    push.Sender
}

func NewNotificationService(repo repository.NotificationRepository, tokenRepo repository.PushTokenRepository, annRepo repository.AnnouncementRepository, sender push.Sender) NotificationService {
	return &notificationService{repo: repo, tokenRepo: tokenRepo, annRepo: annRepo, sender: sender}
}

func (s *notificationService) Notify(ctx context.Context, userUID, typ, title, body string, productID, contactID, reviewID *uint64) {
	if userUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		UserUID:   userUID,
		Type:      typ,
		Title:     title,
		Body:      body,
		ProductID: productID,
		ContactID: contactID,
		ReviewID:  reviewID,
	}
	_ = s.repo.Create(ctx, n)

	if s.sender == nil {
		return
	}
	tokens, err := s.tokenRepo.ListByUser(ctx, userUID)
	if err != nil || len(tokens) == 0 {
		return
	}
	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}
	// Detached from the request context: the caller must not wait on FCM.
	go s.pushAsync(raw, title, body, map[string]string{"type": typ})
}

func (s *notificationService) pushAsync(tokens []string, title, body string, data map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stale, err := s.sender.Send(ctx, tokens, title, body, data)
	if err != nil {
		log.Printf("push send failed: %v", err)
		return
	}
	for _, tok := range stale {
		_ = s.tokenRepo.DeleteByToken(ctx, tok)
	}
}

func (s *notificationService) List(ctx context.Context, userUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if userUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByUser(ctx, userUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userUID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userUID string) error {
	if userUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, userUID)
}

func (s *notificationService) RegisterToken(ctx context.Context, userUID, token, platform string) error {
	if userUID == "" || token == "" {
		return errors.New("token is required")
	}
	return s.tokenRepo.Upsert(ctx, &model.PushToken{
		UserUID:  userUID,
		Token:    token,
		Platform: platform,
	})
}

func (s *notificationService) Broadcast(ctx context.Context, authorUID, title, body string) (*model.Announcement, error) {
	a := &model.Announcement{
		AuthorUID: authorUID,
		Title:     title,
		Body:      body,
	}
	if err := s.annRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	if s.sender != nil {
		tokens, err := s.tokenRepo.ListAll(ctx)
		if err == nil && len(tokens) > 0 {
			raw := make([]string, 0, len(tokens))
			for _, t := range tokens {
				raw = append(raw, t.Token)
			}
			go s.pushAsync(raw, title, body, map[string]string{"type": "announcement"})
		}
	}
	return a, nil
}

func (s *notificationService) ListAnnouncements(ctx context.Context, limit int) ([]model.Announcement, error) {
	return s.annRepo.ListRecent(ctx, limit)
}
