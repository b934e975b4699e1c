package application

import (
	"context"
	"time"

	"github.com/alexanderovie/integrity/internal/domain"
)

// CreateSessionInput is everything the gateway needs to open a hosted checkout.
// OverrideMinor replaces the catalog price when set.
type CreateSessionInput struct {
	Service       domain.ServiceDescriptor
	OverrideMinor *int64
	CustomerEmail string
	CustomerName  string
	Quote         domain.QuoteSnapshot
	SuccessURL    string
	CancelURL     string
}

// CheckoutGateway is the port for the payment processor's checkout sessions.
type CheckoutGateway interface {
	Create(ctx context.Context, in CreateSessionInput) (*domain.CheckoutSession, error)
	RetrieveRedirectURL(ctx context.Context, sessionID domain.SessionID) (string, error)
}

// EventVerifier authenticates a raw notification body and decodes it.
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (domain.PaymentEvent, error)
}

// OrderSummary is the decoded view of a completed session handed to notification effects.
type OrderSummary struct {
	SessionID     domain.SessionID
	CustomerEmail string
	CustomerName  string
	ServiceID     string
	ServiceName   string
	// AmountMinor is what the customer was charged.
	AmountMinor int64
	Currency    string
	Quote       domain.QuoteSnapshot
	CompletedAt time.Time
}

// Content is a rendered notification body.
type Content struct {
	Subject string
	HTML    string
}

// NotificationComposer renders message bodies for a completed order.
type NotificationComposer interface {
	CustomerConfirmation(order OrderSummary) (Content, error)
	OperatorNotification(order OrderSummary) (Content, error)
}

// Message is a single outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	// IdempotencyKey lets the provider drop duplicate sends.
	IdempotencyKey string
}

// NotificationSender is the port for the email delivery provider.
type NotificationSender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// EventLedger records processed event ids for a retention window.
type EventLedger interface {
	// Claim records id and reports whether this call was the first to do so.
	Claim(ctx context.Context, id domain.EventID) (bool, error)
	// Prune removes entries processed before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// EventPublisher fans completed orders out to downstream consumers.
type EventPublisher interface {
	PublishPaymentCompleted(ctx context.Context, order OrderSummary) error
}
