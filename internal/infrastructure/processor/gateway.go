// Package processor talks to Stripe: hosted checkout sessions out, signed events in.
package processor

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/domain"
)

const (
	customQuotePrefix      = "Custom Quote - "
	customQuoteDescription = "Personalized cleaning service quote based on your property details"
)

type Gateway struct {
	sessions *session.Client
	hasKey   bool
	logger   *slog.Logger
}

// NewGateway builds a per-instance session client. No global Stripe key is set.
// An empty secret key is allowed here and reported when the gateway is used.
func NewGateway(cfg config.StripeConfig, httpClient *http.Client, logger *slog.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.ConnTimeout}
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}

	return &Gateway{
		sessions: &session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		hasKey: cfg.SecretKey != "",
		logger: logger,
	}
}

var _ application.CheckoutGateway = (*Gateway)(nil)

// Create opens one remote session per call. It does not retry.
func (g *Gateway) Create(ctx context.Context, in application.CreateSessionInput) (*domain.CheckoutSession, error) {
	if !g.hasKey {
		return nil, domain.NewConfigurationError("STRIPE_SECRET_KEY")
	}

	meta := domain.SessionMetadata{
		ServiceID:    in.Service.ID,
		CustomerName: in.CustomerName,
		CustomPrice:  in.OverrideMinor,
		Quote:        in.Quote,
	}
	encoded, err := meta.Encode()
	if err != nil {
		return nil, err
	}

	params := buildSessionParams(in)
	params.Context = ctx
	for k, v := range encoded {
		params.AddMetadata(k, v)
	}

	s, err := g.sessions.New(params)
	if err != nil {
		g.logger.Error("checkout session creation failed", "service_id", in.Service.ID, "error", err)
		return nil, domain.NewUpstreamGatewayError("create session", fromSDKError(err))
	}

	g.logger.Info("checkout session created", "session_id", s.ID, "service_id", in.Service.ID)

	return toDomainSession(s), nil
}

// RetrieveRedirectURL fetches the hosted checkout url for a session.
func (g *Gateway) RetrieveRedirectURL(ctx context.Context, sessionID domain.SessionID) (string, error) {
	if !g.hasKey {
		return "", domain.NewConfigurationError("STRIPE_SECRET_KEY")
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(string(sessionID), params)
	if err != nil {
		return "", domain.NewUpstreamGatewayError("retrieve session", fromSDKError(err))
	}

	if s.URL == "" {
		return "", domain.NewSessionNotReadyError(string(sessionID))
	}

	return s.URL, nil
}

func buildSessionParams(in application.CreateSessionInput) *stripe.CheckoutSessionParams {
	name := in.Service.Name
	description := in.Service.Description
	amount := in.Service.BasePrice
	if in.OverrideMinor != nil {
		name = customQuotePrefix + in.Service.Name
		description = customQuoteDescription
		amount = *in.OverrideMinor
	}

	currency := in.Service.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}

	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}

	return params
}

func toDomainSession(s *stripe.CheckoutSession) *domain.CheckoutSession {
	out := &domain.CheckoutSession{
		ID:            domain.SessionID(s.ID),
		URL:           s.URL,
		Metadata:      s.Metadata,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		PaymentStatus: string(s.PaymentStatus),
	}
	if s.CustomerDetails != nil {
		if out.CustomerEmail == "" {
			out.CustomerEmail = s.CustomerDetails.Email
		}
		out.CustomerName = s.CustomerDetails.Name
	}
	return out
}
