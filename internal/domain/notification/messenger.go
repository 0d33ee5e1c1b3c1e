package notification

import (
	"context"
	"log"
)

// Messenger defines the interface for sending push notifications.
// Implemented by the Firebase FCM client in the infrastructure layer.
type Messenger interface {
	Send(ctx context.Context, token string, title, body string, data map[string]string) error
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// NopMessenger logs and drops notifications. Used when no push backend is
// configured so the rest of the system can still run.
type NopMessenger struct{}

func (NopMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	log.Printf("Push notifications disabled, dropping %q", title)
	return nil
}

func (NopMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	log.Printf("Push notifications disabled, dropping %q for %d device(s)", title, len(tokens))
	return nil
}
