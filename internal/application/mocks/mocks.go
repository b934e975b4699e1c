// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

type CheckoutGateway struct {
	mock.Mock
}

func (m *CheckoutGateway) Create(ctx context.Context, in application.CreateSessionInput) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*domain.CheckoutSession)
	return s, args.Error(1)
}

func (m *CheckoutGateway) RetrieveRedirectURL(ctx context.Context, sessionID domain.SessionID) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

type EventVerifier struct {
	mock.Mock
}

func (m *EventVerifier) Verify(payload []byte, signatureHeader string) (domain.PaymentEvent, error) {
	args := m.Called(payload, signatureHeader)
	ev, _ := args.Get(0).(domain.PaymentEvent)
	return ev, args.Error(1)
}

type NotificationComposer struct {
	mock.Mock
}

func (m *NotificationComposer) CustomerConfirmation(order application.OrderSummary) (application.Content, error) {
	args := m.Called(order)
	c, _ := args.Get(0).(application.Content)
	return c, args.Error(1)
}

func (m *NotificationComposer) OperatorNotification(order application.OrderSummary) (application.Content, error) {
	args := m.Called(order)
	c, _ := args.Get(0).(application.Content)
	return c, args.Error(1)
}

type NotificationSender struct {
	mock.Mock
}

func (m *NotificationSender) Send(ctx context.Context, msg application.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type EventLedger struct {
	mock.Mock
}

func (m *EventLedger) Claim(ctx context.Context, id domain.EventID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *EventLedger) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishPaymentCompleted(ctx context.Context, order application.OrderSummary) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

var (
	_ application.CheckoutGateway      = (*CheckoutGateway)(nil)
	_ application.EventVerifier        = (*EventVerifier)(nil)
	_ application.NotificationComposer = (*NotificationComposer)(nil)
	_ application.NotificationSender   = (*NotificationSender)(nil)
	_ application.EventLedger          = (*EventLedger)(nil)
	_ application.EventPublisher       = (*EventPublisher)(nil)
)
