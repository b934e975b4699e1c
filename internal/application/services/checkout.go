package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/domain"
)

const (
	successPath = "/success?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/quote"
)

type CheckoutService struct {
	catalog *catalog.Catalog
	gateway application.CheckoutGateway
	logger  *slog.Logger
}

func NewCheckoutService(
	catalog *catalog.Catalog,
	gateway application.CheckoutGateway,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		catalog: catalog,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateSession validates the service id before any processor call, then opens one session.
func (s *CheckoutService) CreateSession(ctx context.Context, cmd CreateCheckoutCommand) (domain.SessionID, error) {
	service, err := s.catalog.Lookup(cmd.ServiceID)
	if err != nil {
		return "", err
	}

	var override *int64
	if cmd.CustomPrice != nil && *cmd.CustomPrice > 0 {
		minor := domain.ToMinorUnits(*cmd.CustomPrice)
		if minor > domain.MaxChargeMinor {
			return "", domain.NewValidationError(
				fmt.Sprintf("customPrice must not exceed %s", domain.FormatMinorUnits(domain.MaxChargeMinor)), nil)
		}
		if minor > 0 {
			override = &minor
		}
	}

	origin := strings.TrimRight(cmd.Origin, "/")

	session, err := s.gateway.Create(ctx, application.CreateSessionInput{
		Service:       service,
		OverrideMinor: override,
		CustomerEmail: cmd.CustomerEmail,
		CustomerName:  cmd.CustomerName,
		Quote:         cmd.Quote,
		SuccessURL:    origin + successPath,
		CancelURL:     origin + cancelPath,
	})
	if err != nil {
		return "", err
	}

	charged := service.BasePrice
	if override != nil {
		charged = *override
	}
	s.logger.Info("checkout session ready",
		"session_id", session.ID,
		"service_id", service.ID,
		"amount", domain.FormatMinorUnits(charged),
		"custom_price", override != nil,
	)

	return session.ID, nil
}

func (s *CheckoutService) RedirectURL(ctx context.Context, sessionID domain.SessionID) (string, error) {
	if strings.TrimSpace(string(sessionID)) == "" {
		return "", domain.NewValidationError("session id is required", nil)
	}
	return s.gateway.RetrieveRedirectURL(ctx, sessionID)
}
