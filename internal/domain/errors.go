package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches two DomainErrors by code so callers can compare against sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

const (
	ErrCodeServiceNotFound   = "SERVICE_NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeMetadataTooLarge  = "METADATA_TOO_LARGE"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeMissingSecret     = "MISSING_SECRET"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeSessionNotReady   = "SESSION_NOT_READY"
	ErrCodeMissingSignature  = "MISSING_SIGNATURE"
	ErrCodeSignatureInvalid  = "SIGNATURE_INVALID"
	ErrCodeNotification      = "NOTIFICATION_ERROR"
	ErrCodeMalformedMetadata = "MALFORMED_METADATA"
)

// Sentinels for errors.Is comparisons. Matching is by code.
var (
	ErrServiceNotFound  = &DomainError{Code: ErrCodeServiceNotFound}
	ErrValidation       = &DomainError{Code: ErrCodeValidation}
	ErrConfiguration    = &DomainError{Code: ErrCodeConfiguration}
	ErrMissingSecret    = &DomainError{Code: ErrCodeMissingSecret}
	ErrUpstream         = &DomainError{Code: ErrCodeUpstream}
	ErrSessionNotReady  = &DomainError{Code: ErrCodeSessionNotReady}
	ErrMissingSignature = &DomainError{Code: ErrCodeMissingSignature}
	ErrSignatureInvalid = &DomainError{Code: ErrCodeSignatureInvalid}
	ErrNotification     = &DomainError{Code: ErrCodeNotification}
)

func NewServiceNotFoundError(serviceID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeServiceNotFound,
		Message: fmt.Sprintf("service %q not found", serviceID),
	}
}

func NewValidationError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Err:     err,
	}
}

func NewMetadataTooLargeError(key string, size int) *DomainError {
	return &DomainError{
		Code:    ErrCodeMetadataTooLarge,
		Message: fmt.Sprintf("metadata value %q is %d characters, limit is %d", key, size, MaxMetadataValueLength),
	}
}

// NewConfigurationError names the missing setting. The name is logged, never sent to clients.
func NewConfigurationError(setting string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf("%s is not configured", setting),
	}
}

func NewMissingSecretError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingSecret,
		Message: "webhook signing secret is not configured",
	}
}

func NewUpstreamGatewayError(operation string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf("payment processor %s failed", operation),
		Err:     err,
	}
}

func NewSessionNotReadyError(sessionID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSessionNotReady,
		Message: fmt.Sprintf("checkout session %s has no redirect url yet", sessionID),
	}
}

func NewMissingSignatureError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingSignature,
		Message: "no signature provided",
	}
}

func NewSignatureInvalidError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeSignatureInvalid,
		Message: "invalid signature",
		Err:     err,
	}
}

func NewNotificationError(effect string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotification,
		Message: fmt.Sprintf("%s failed", effect),
		Err:     err,
	}
}

func NewMalformedMetadataError(key string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeMalformedMetadata,
		Message: fmt.Sprintf("metadata %q is malformed", key),
		Err:     err,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
