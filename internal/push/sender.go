package push

import (
	"context"
	"errors"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// Sender delivers a push message to a set of device tokens. Delivery is
// best-effort; callers must not depend on it for correctness. The returned
// slice lists tokens FCM reported as no longer registered, so callers can
// prune them.
type Sender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (stale []string, err error)
}

// FCM multicast caps at 500 tokens per request.
const multicastChunkSize = 500

type fcmSender struct {
	client *messaging.Client
}

func NewFCMSender(ctx context.Context) (Sender, error) {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &fcmSender{client: client}, nil
}

func (s *fcmSender) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	var stale []string
	for start := 0; start < len(tokens); start += multicastChunkSize {
		end := start + multicastChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := tokens[start:end]
		msg := &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		resp, err := s.client.SendEachForMulticast(ctx, msg)
		if err != nil {
			return stale, err
		}
		if resp.FailureCount > 0 {
			for i, r := range resp.Responses {
				if r.Error != nil && messaging.IsUnregistered(r.Error) {
					stale = append(stale, chunk[i])
				}
			}
		}
	}
	return stale, nil
}
