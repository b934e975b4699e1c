package handlers

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/application/services"
	"github.com/alexanderovie/integrity/internal/domain"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, cmd services.CreateCheckoutCommand) (domain.SessionID, error)
	RedirectURL(ctx context.Context, sessionID domain.SessionID) (string, error)
}

type QuoteService interface {
	Quote(q domain.QuoteSnapshot) services.QuoteResult
	Services() []domain.ServiceDescriptor
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.PaymentEvent)
}

type Handlers struct {
	checkout   CheckoutService
	quotes     QuoteService
	verifier   application.EventVerifier
	dispatcher EventDispatcher
	publicURL  string
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewHandlers builds the HTTP handlers. publicURL is the storefront base used
// when a checkout request carries no Origin header.
func NewHandlers(
	checkout CheckoutService,
	quotes QuoteService,
	verifier application.EventVerifier,
	dispatcher EventDispatcher,
	publicURL string,
	logger *slog.Logger,
) *Handlers {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Handlers{
		checkout:   checkout,
		quotes:     quotes,
		verifier:   verifier,
		dispatcher: dispatcher,
		publicURL:  publicURL,
		validate:   validate,
		logger:     logger,
	}
}

// validationError turns validator output into a single domain error naming the first bad field.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.NewValidationError("invalid request", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(fe.Field()+" is required", err)
	case "email":
		return domain.NewValidationError(fe.Field()+" must be a valid email address", err)
	}
	return domain.NewValidationError(fe.Field()+" is invalid", err)
}
