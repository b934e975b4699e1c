package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alexanderovie/integrity/internal/application"
)

const (
	// MaxBodyBytes caps storefront request bodies.
	MaxBodyBytes = 64 << 10
	// MaxEventBytes caps processor event deliveries.
	MaxEventBytes = 1 << 20
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a size-limited JSON body into dst. An empty body is an error.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := ReadBody(r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return application.NewInvalidInputError(errors.New("empty body"))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}

// ReadBody returns the raw request body, rejecting bodies over MaxBodyBytes.
func ReadBody(r *http.Request) ([]byte, error) {
	return ReadBodyLimit(r, MaxBodyBytes)
}

// ReadBodyLimit returns the raw request body, rejecting bodies over limit bytes.
func ReadBodyLimit(r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}
	if int64(len(body)) > limit {
		return nil, application.NewInvalidInputError(errors.New("body too large"))
	}
	return body, nil
}
