package domain

// EventType is the processor's event kind.
type EventType string

const (
	EventSessionCompleted       EventType = "checkout.session.completed"
	EventSessionExpired         EventType = "checkout.session.expired"
	EventPaymentIntentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentIntentFailed    EventType = "payment_intent.payment_failed"
)

// PaymentEvent is a verified processor notification. Payload is one of the
// EventPayload implementations in this file, selected by Type.
type PaymentEvent struct {
	ID      EventID
	Type    EventType
	Payload EventPayload
}

// EventPayload is a closed union; only this package can implement it.
type EventPayload interface {
	isEventPayload()
}

type SessionCompleted struct {
	Session CheckoutSession
}

type SessionExpired struct {
	SessionID SessionID
}

type PaymentIntentSucceeded struct {
	IntentID string
	Amount   int64
	Currency string
}

type PaymentIntentFailed struct {
	IntentID string
	Reason   string
}

// Unrecognized carries event types the service does not act on.
type Unrecognized struct {
	Type EventType
}

func (SessionCompleted) isEventPayload()       {}
func (SessionExpired) isEventPayload()         {}
func (PaymentIntentSucceeded) isEventPayload() {}
func (PaymentIntentFailed) isEventPayload()    {}
func (Unrecognized) isEventPayload()           {}
