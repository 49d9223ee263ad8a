// Package payment adapts a hosted-checkout payment provider to the booking
// service.
package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")

	ErrInvalidSignature = errors.New("invalid webhook signature")

	ErrUnhandledEvent = errors.New("webhook event not handled")
)

type LineItem struct {
	Name        string
	Description string
	Amount      int64 // whole currency units
}

type CheckoutParams struct {
	LineItems  []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	// ExpiresAt closes the hosted page. Zero leaves the provider default.
	ExpiresAt time.Time
}

type CheckoutSession struct {
	ID  string
	URL string
}

type SessionStatus struct {
	ID              string
	Paid            bool
	PaymentIntentID string
	Metadata        map[string]string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// WebhookParser verifies a provider callback and extracts the completed
// session. Events other than completed checkouts return ErrUnhandledEvent.
type WebhookParser interface {
	ParseCompletedSession(payload []byte, signatureHeader string) (*SessionStatus, error)
}
