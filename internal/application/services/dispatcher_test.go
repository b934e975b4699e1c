package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/application/mocks"
	"github.com/alexanderovie/integrity/internal/application/services"
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence/memory"
)

type DispatcherTestSuite struct {
	suite.Suite
	ledger     application.EventLedger
	composer   *mocks.NotificationComposer
	sender     *mocks.NotificationSender
	publisher  *mocks.EventPublisher
	addresses  services.Addresses
	dispatcher *services.Dispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ledger = memory.NewLedger()
	s.composer = new(mocks.NotificationComposer)
	s.sender = new(mocks.NotificationSender)
	s.publisher = new(mocks.EventPublisher)
	s.addresses = services.Addresses{From: "shop@example.com", Operator: "ops@example.com"}
	s.rebuild()
}

func (s *DispatcherTestSuite) rebuild() {
	var publisher application.EventPublisher
	if s.publisher != nil {
		publisher = s.publisher
	}
	s.dispatcher = services.NewDispatcher(
		s.ledger,
		s.composer,
		s.sender,
		publisher,
		catalog.Default(),
		s.addresses,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func completedEvent(id string, metadata map[string]string) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:   domain.EventID(id),
		Type: domain.EventSessionCompleted,
		Payload: domain.SessionCompleted{Session: domain.CheckoutSession{
			ID:            "cs_test_1",
			AmountTotal:   30000,
			Currency:      "usd",
			CustomerEmail: "jane@example.com",
			Metadata:      metadata,
		}},
	}
}

func defaultMetadata() map[string]string {
	return map[string]string{
		"serviceId":    "deep-cleaning",
		"customerName": "Jane",
		"customPrice":  "13500",
		"quoteData":    `{"propertySize":"750","bedrooms":"2","bathrooms":"1"}`,
	}
}

func toRecipient(addr string) interface{} {
	return mock.MatchedBy(func(m application.Message) bool {
		return len(m.To) == 1 && m.To[0] == addr
	})
}

func (s *DispatcherTestSuite) TestCompletedSendsBothNotificationsAndPublishes() {
	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{Subject: "c", HTML: "<p>c</p>"}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{Subject: "o", HTML: "<p>o</p>"}, nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("jane@example.com")).Return("msg_1", nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("ops@example.com")).Return("msg_2", nil).Once()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.MatchedBy(func(o application.OrderSummary) bool {
		return o.AmountMinor == 13500 && o.ServiceName == "Deep Cleaning" && o.CustomerName == "Jane" &&
			o.Quote.PropertySize == "750"
	})).Return(nil).Once()

	s.dispatcher.Dispatch(context.Background(), completedEvent("evt_1", defaultMetadata()))

	s.composer.AssertExpectations(s.T())
	s.sender.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())

	for _, call := range s.sender.Calls {
		msg := call.Arguments.Get(1).(application.Message)
		s.Equal("shop@example.com", msg.From)
		s.NotEmpty(msg.IdempotencyKey)
	}
	s.NotEqual(
		s.sender.Calls[0].Arguments.Get(1).(application.Message).IdempotencyKey,
		s.sender.Calls[1].Arguments.Get(1).(application.Message).IdempotencyKey,
	)
}

func (s *DispatcherTestSuite) TestComposerFailureStillNotifiesOperator() {
	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, errors.New("template broke")).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{Subject: "o"}, nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("ops@example.com")).Return("msg_2", nil).Once()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.Anything).Return(nil).Once()

	s.dispatcher.Dispatch(context.Background(), completedEvent("evt_2", defaultMetadata()))

	s.sender.AssertExpectations(s.T())
	s.sender.AssertNumberOfCalls(s.T(), "Send", 1)
}

func (s *DispatcherTestSuite) TestSenderPanicIsContained() {
	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("jane@example.com")).Panic("nil pointer in provider client").Once()
	s.sender.On("Send", mock.Anything, toRecipient("ops@example.com")).Return("msg_2", nil).Once()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	s.NotPanics(func() {
		s.dispatcher.Dispatch(context.Background(), completedEvent("evt_3", defaultMetadata()))
	})
	s.sender.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestRedeliveryNotifiesOnce() {
	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, mock.Anything).Return("msg", nil).Twice()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.Anything).Return(nil).Once()

	event := completedEvent("evt_4", defaultMetadata())
	s.dispatcher.Dispatch(context.Background(), event)
	s.dispatcher.Dispatch(context.Background(), event)

	s.sender.AssertNumberOfCalls(s.T(), "Send", 2)
	s.publisher.AssertNumberOfCalls(s.T(), "PublishPaymentCompleted", 1)
}

func (s *DispatcherTestSuite) TestLedgerFailureStillProcesses() {
	ledger := new(mocks.EventLedger)
	ledger.On("Claim", mock.Anything, domain.EventID("evt_5")).Return(false, errors.New("redis down")).Once()
	s.ledger = ledger
	s.publisher = nil
	s.rebuild()

	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, mock.Anything).Return("msg", nil).Twice()

	s.dispatcher.Dispatch(context.Background(), completedEvent("evt_5", defaultMetadata()))

	ledger.AssertExpectations(s.T())
	s.sender.AssertNumberOfCalls(s.T(), "Send", 2)
}

func (s *DispatcherTestSuite) TestNoCustomerEmailOnlyNotifiesOperator() {
	event := completedEvent("evt_6", defaultMetadata())
	payload := event.Payload.(domain.SessionCompleted)
	payload.Session.CustomerEmail = ""
	event.Payload = payload

	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("ops@example.com")).Return("msg", nil).Once()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.Anything).Return(nil).Once()

	s.dispatcher.Dispatch(context.Background(), event)

	s.composer.AssertNotCalled(s.T(), "CustomerConfirmation", mock.Anything)
	s.sender.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestMalformedMetadataFallsBackToSessionTotal() {
	meta := map[string]string{
		"serviceId": "deep-cleaning",
		"quoteData": "{not json",
	}

	var seen application.OrderSummary
	s.composer.On("CustomerConfirmation", mock.Anything).Run(func(args mock.Arguments) {
		seen = args.Get(0).(application.OrderSummary)
	}).Return(application.Content{}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, mock.Anything).Return("msg", nil).Twice()
	s.publisher.On("PublishPaymentCompleted", mock.Anything, mock.Anything).Return(nil).Once()

	s.dispatcher.Dispatch(context.Background(), completedEvent("evt_7", meta))

	s.Equal(int64(30000), seen.AmountMinor)
	s.True(seen.Quote.IsZero())
	s.Equal("Deep Cleaning", seen.ServiceName)
}

func (s *DispatcherTestSuite) TestMissingOperatorAddress() {
	s.addresses.Operator = ""
	s.publisher = nil
	s.rebuild()

	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", mock.Anything, toRecipient("jane@example.com")).Return("msg", nil).Once()

	s.dispatcher.Dispatch(context.Background(), completedEvent("evt_8", defaultMetadata()))

	s.composer.AssertNotCalled(s.T(), "OperatorNotification", mock.Anything)
	s.sender.AssertNumberOfCalls(s.T(), "Send", 1)
}

func (s *DispatcherTestSuite) TestEffectsOutliveRequestCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	s.composer.On("CustomerConfirmation", mock.Anything).Return(application.Content{}, nil).Once()
	s.composer.On("OperatorNotification", mock.Anything).Return(application.Content{}, nil).Once()
	s.sender.On("Send", live, mock.Anything).Return("msg", nil).Twice()
	s.publisher.On("PublishPaymentCompleted", live, mock.Anything).Return(nil).Once()

	s.dispatcher.Dispatch(ctx, completedEvent("evt_9", defaultMetadata()))

	s.sender.AssertExpectations(s.T())
	s.publisher.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestOtherEventsHaveNoEffects() {
	ledger := new(mocks.EventLedger)
	s.ledger = ledger
	s.rebuild()

	events := []domain.PaymentEvent{
		{ID: "evt_a", Type: domain.EventPaymentIntentSucceeded, Payload: domain.PaymentIntentSucceeded{IntentID: "pi_1", Amount: 100}},
		{ID: "evt_b", Type: domain.EventPaymentIntentFailed, Payload: domain.PaymentIntentFailed{IntentID: "pi_2", Reason: "declined"}},
		{ID: "evt_c", Type: domain.EventSessionExpired, Payload: domain.SessionExpired{SessionID: "cs_9"}},
		{ID: "evt_d", Type: "customer.created", Payload: domain.Unrecognized{Type: "customer.created"}},
	}
	for _, ev := range events {
		s.dispatcher.Dispatch(context.Background(), ev)
	}

	ledger.AssertNotCalled(s.T(), "Claim", mock.Anything, mock.Anything)
	s.sender.AssertNotCalled(s.T(), "Send", mock.Anything, mock.Anything)
	assert.Empty(s.T(), s.publisher.Calls)
}
