package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/domain"
)

const effectTimeout = 15 * time.Second

// Addresses are the sender and operator mailboxes for notifications.
type Addresses struct {
	From     string
	Operator string
}

// Dispatcher routes verified events to their effects. Each effect runs in its
// own failure boundary so one failing notification does not stop the next.
type Dispatcher struct {
	ledger    application.EventLedger
	composer  application.NotificationComposer
	sender    application.NotificationSender
	publisher application.EventPublisher
	catalog   *catalog.Catalog
	addresses Addresses
	logger    *slog.Logger
	now       func() time.Time
}

// NewDispatcher wires the effect dependencies. publisher may be nil.
func NewDispatcher(
	ledger application.EventLedger,
	composer application.NotificationComposer,
	sender application.NotificationSender,
	publisher application.EventPublisher,
	catalog *catalog.Catalog,
	addresses Addresses,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		ledger:    ledger,
		composer:  composer,
		sender:    sender,
		publisher: publisher,
		catalog:   catalog,
		addresses: addresses,
		logger:    logger,
		now:       time.Now,
	}
}

// Dispatch never fails. Effects run sequentially on a context that outlives the request.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.PaymentEvent) {
	ctx = context.WithoutCancel(ctx)
	logger := d.logger.With("event_id", event.ID, "event_type", event.Type)

	switch p := event.Payload.(type) {
	case domain.SessionCompleted:
		d.sessionCompleted(ctx, event.ID, p.Session, logger)
	case domain.PaymentIntentSucceeded:
		logger.Info("payment intent succeeded", "intent_id", p.IntentID, "amount", domain.FormatMinorUnits(p.Amount))
	case domain.PaymentIntentFailed:
		logger.Warn("payment failed", "intent_id", p.IntentID, "reason", p.Reason)
	case domain.SessionExpired:
		logger.Info("checkout session expired", "session_id", p.SessionID)
	default:
		logger.Info("unhandled event type")
	}
}

func (d *Dispatcher) sessionCompleted(ctx context.Context, eventID domain.EventID, session domain.CheckoutSession, logger *slog.Logger) {
	logger = logger.With("session_id", session.ID)

	claimed, err := d.ledger.Claim(ctx, eventID)
	if err != nil {
		logger.Error("event ledger unavailable, processing anyway", "error", err)
	} else if !claimed {
		logger.Info("duplicate event skipped")
		return
	}

	logger.Info("payment successful")

	order := d.orderSummary(session, logger)

	if order.CustomerEmail != "" {
		d.runEffect(ctx, "customer confirmation", logger, func(ctx context.Context) error {
			content, err := d.composer.CustomerConfirmation(order)
			if err != nil {
				return err
			}
			return d.send(ctx, eventID, "customer", []string{order.CustomerEmail}, content, logger)
		})
	} else {
		logger.Warn("no customer email on session")
	}

	d.runEffect(ctx, "operator notification", logger, func(ctx context.Context) error {
		if d.addresses.Operator == "" {
			return domain.NewConfigurationError("TO_EMAIL")
		}
		content, err := d.composer.OperatorNotification(order)
		if err != nil {
			return err
		}
		return d.send(ctx, eventID, "operator", []string{d.addresses.Operator}, content, logger)
	})

	if d.publisher != nil {
		d.runEffect(ctx, "publish payment completed", logger, func(ctx context.Context) error {
			return d.publisher.PublishPaymentCompleted(ctx, order)
		})
	}
}

func (d *Dispatcher) orderSummary(session domain.CheckoutSession, logger *slog.Logger) application.OrderSummary {
	meta, err := domain.DecodeSessionMetadata(session.Metadata)
	if err != nil {
		logger.Warn("session metadata is malformed", "error", err)
	}

	name := meta.CustomerName
	if name == "" {
		name = session.CustomerName
	}

	serviceName := meta.ServiceID
	if svc, err := d.catalog.Lookup(meta.ServiceID); err == nil {
		serviceName = svc.Name
	}

	currency := session.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	return application.OrderSummary{
		SessionID:     session.ID,
		CustomerEmail: session.CustomerEmail,
		CustomerName:  name,
		ServiceID:     meta.ServiceID,
		ServiceName:   serviceName,
		AmountMinor:   meta.ChargedAmount(session.AmountTotal),
		Currency:      currency,
		Quote:         meta.Quote,
		CompletedAt:   d.now(),
	}
}

// send keys each message on the event and recipient kind so provider-side
// dedup holds across redeliveries.
func (d *Dispatcher) send(ctx context.Context, eventID domain.EventID, kind string, to []string, content application.Content, logger *slog.Logger) error {
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte(string(eventID)+"/"+kind)).String()

	id, err := d.sender.Send(ctx, application.Message{
		From:           d.addresses.From,
		To:             to,
		Subject:        content.Subject,
		HTML:           content.HTML,
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	logger.Info("notification sent", "kind", kind, "message_id", id)
	return nil
}

// runEffect contains errors and panics from fn and logs them as notification errors.
func (d *Dispatcher) runEffect(ctx context.Context, name string, logger *slog.Logger, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, effectTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err := domain.NewNotificationError(name, fmt.Errorf("panic: %v", r))
			logger.Error("effect panicked", "effect", name, "error", err)
		}
	}()

	if err := fn(ctx); err != nil {
		err = domain.NewNotificationError(name, err)
		logger.Error("effect failed",
			"effect", name,
			"category", application.CategorizeError(err),
			"error", err,
		)
	}
}
