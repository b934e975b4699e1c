package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

// SignatureHeader carries the t=...,v1=... signature on inbound events.
const SignatureHeader = "Stripe-Signature"

type Verifier struct {
	secret    string
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance}
}

var _ application.EventVerifier = (*Verifier)(nil)

// Verify authenticates payload against the signature header and decodes it into
// a PaymentEvent. Nothing is decoded before the signature checks out.
func (v *Verifier) Verify(payload []byte, signatureHeader string) (domain.PaymentEvent, error) {
	if signatureHeader == "" {
		return domain.PaymentEvent{}, domain.NewMissingSignatureError()
	}
	if v.secret == "" {
		return domain.PaymentEvent{}, domain.NewMissingSecretError()
	}

	if err := webhook.ValidatePayloadWithTolerance(payload, signatureHeader, v.secret, v.tolerance); err != nil {
		return domain.PaymentEvent{}, domain.NewSignatureInvalidError(err)
	}

	event, err := decodeEvent(payload)
	if err != nil {
		return domain.PaymentEvent{}, domain.NewSignatureInvalidError(err)
	}

	return event, nil
}

// IsStaleSignature reports whether a verification failure was caused by an old timestamp.
func IsStaleSignature(err error) bool {
	return errors.Is(err, webhook.ErrTooOld)
}

func decodeEvent(payload []byte) (domain.PaymentEvent, error) {
	var ev stripe.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.ID == "" || ev.Type == "" {
		return domain.PaymentEvent{}, errors.New("decode event: missing id or type")
	}

	out := domain.PaymentEvent{
		ID:   domain.EventID(ev.ID),
		Type: domain.EventType(ev.Type),
	}

	var raw json.RawMessage
	if ev.Data != nil {
		raw = ev.Data.Raw
	}

	switch out.Type {
	case domain.EventSessionCompleted:
		var s stripe.CheckoutSession
		if err := unmarshalObject(raw, &s); err != nil {
			return domain.PaymentEvent{}, err
		}
		out.Payload = domain.SessionCompleted{Session: *toDomainSession(&s)}

	case domain.EventSessionExpired:
		var s stripe.CheckoutSession
		if err := unmarshalObject(raw, &s); err != nil {
			return domain.PaymentEvent{}, err
		}
		out.Payload = domain.SessionExpired{SessionID: domain.SessionID(s.ID)}

	case domain.EventPaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := unmarshalObject(raw, &pi); err != nil {
			return domain.PaymentEvent{}, err
		}
		out.Payload = domain.PaymentIntentSucceeded{
			IntentID: pi.ID,
			Amount:   pi.Amount,
			Currency: string(pi.Currency),
		}

	case domain.EventPaymentIntentFailed:
		var pi stripe.PaymentIntent
		if err := unmarshalObject(raw, &pi); err != nil {
			return domain.PaymentEvent{}, err
		}
		reason := ""
		if pi.LastPaymentError != nil {
			reason = pi.LastPaymentError.Msg
		}
		out.Payload = domain.PaymentIntentFailed{IntentID: pi.ID, Reason: reason}

	default:
		out.Payload = domain.Unrecognized{Type: out.Type}
	}

	return out, nil
}

func unmarshalObject(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errors.New("decode event: missing data object")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode event object: %w", err)
	}
	return nil
}
