package rest

import (
	"log/slog"
	"net/http"

	"github.com/alexanderovie/integrity/internal/application"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError maps application errors to HTTP responses. Server-side failures
// are logged with their full chain; the body only carries the public message.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode := application.ToHTTPStatus(err)
	errorCode := application.ToErrorCode(err)

	attrs := []any{
		"error", err,
		"code", errorCode,
		"category", application.CategorizeError(err),
		"status", statusCode,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	WriteJSON(w, statusCode, ErrorResponse{
		Error: application.PublicMessage(err),
		Code:  errorCode,
	})
}
