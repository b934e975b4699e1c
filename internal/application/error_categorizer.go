package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexanderovie/integrity/internal/domain"
)

// ErrorCategory groups errors by who has to act on them.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "VALIDATION"
	CategoryConfiguration ErrorCategory = "CONFIGURATION"
	CategoryUpstream      ErrorCategory = "UPSTREAM"
	CategoryAuthenticity  ErrorCategory = "AUTHENTICITY"
	CategoryNotFound      ErrorCategory = "NOT_FOUND"
	CategoryNotification  ErrorCategory = "NOTIFICATION"
	CategoryTransient     ErrorCategory = "TRANSIENT"
	CategoryInternal      ErrorCategory = "INTERNAL"
)

// CategorizeError determines the error category for logging and status mapping.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeServiceNotFound,
			domain.ErrCodeValidation,
			domain.ErrCodeMetadataTooLarge,
			domain.ErrCodeMalformedMetadata:
			return CategoryValidation
		case domain.ErrCodeConfiguration, domain.ErrCodeMissingSecret:
			return CategoryConfiguration
		case domain.ErrCodeUpstream:
			return CategoryUpstream
		case domain.ErrCodeMissingSignature, domain.ErrCodeSignatureInvalid:
			return CategoryAuthenticity
		case domain.ErrCodeSessionNotReady:
			return CategoryNotFound
		case domain.ErrCodeNotification:
			return CategoryNotification
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryValidation
		case ErrCodeTimeout:
			return CategoryTransient
		}
	}

	return CategoryInternal
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch CategorizeError(err) {
	case CategoryValidation, CategoryAuthenticity:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryTransient:
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}

// PublicMessage is the client-facing text for err. Configuration, upstream and
// internal failures get a generic message; details stay in the logs.
func PublicMessage(err error) string {
	switch CategorizeError(err) {
	case CategoryConfiguration:
		return "Service is not configured"
	case CategoryUpstream:
		return "Payment processor request failed"
	case CategoryInternal, CategoryNotification:
		return "An internal error occurred"
	case CategoryTransient:
		return "Request timed out"
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Message
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return "An internal error occurred"
}
