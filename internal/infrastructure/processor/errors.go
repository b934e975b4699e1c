package processor

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
)

// StripeError is the sanitized view of an SDK error kept for logs and categorization.
type StripeError struct {
	Type       string
	Code       string
	Message    string
	StatusCode int
	RequestID  string
}

func (e *StripeError) Error() string {
	return fmt.Sprintf("stripe error [%s/%s]: %s (status: %d, request: %s)", e.Type, e.Code, e.Message, e.StatusCode, e.RequestID)
}

// IsStripeError reports whether err carries a processor API error.
func IsStripeError(err error) (*StripeError, bool) {
	var stripeErr *StripeError
	ok := errors.As(err, &stripeErr)
	return stripeErr, ok
}

func fromSDKError(err error) error {
	var sdkErr *stripe.Error
	if !errors.As(err, &sdkErr) {
		return err
	}
	return &StripeError{
		Type:       string(sdkErr.Type),
		Code:       string(sdkErr.Code),
		Message:    sdkErr.Msg,
		StatusCode: sdkErr.HTTPStatusCode,
		RequestID:  sdkErr.RequestID,
	}
}
