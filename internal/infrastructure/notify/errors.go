package notify

import (
	"errors"
	"fmt"
)

type ProviderError struct {
	Name       string
	Message    string
	StatusCode int
}

type providerErrorResponse struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider error [%s]: %s (status: %d)", e.Name, e.Message, e.StatusCode)
}

func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	ok := errors.As(err, &providerErr)
	return providerErr, ok
}
