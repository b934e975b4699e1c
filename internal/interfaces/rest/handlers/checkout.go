package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderovie/integrity/internal/application/services"
	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/interfaces/rest"
)

type CreateCheckoutRequest struct {
	ServiceID     string               `json:"serviceId" validate:"required"`
	CustomerEmail string               `json:"customerEmail" validate:"omitempty,email"`
	CustomerName  string               `json:"customerName"`
	CustomPrice   *float64             `json:"customPrice,omitempty"`
	QuoteData     domain.QuoteSnapshot `json:"quoteData"`
}

type CreateCheckoutResponse struct {
	SessionID domain.SessionID `json:"sessionId"`
}

type SessionURLResponse struct {
	URL string `json:"url"`
}

// CreateCheckout opens a hosted checkout session for a catalog service.
func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		rest.WriteError(w, validationError(err), h.logger)
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = h.publicURL
	}

	sessionID, err := h.checkout.CreateSession(r.Context(), services.CreateCheckoutCommand{
		ServiceID:     req.ServiceID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomPrice:   req.CustomPrice,
		Quote:         req.QuoteData,
		Origin:        origin,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, CreateCheckoutResponse{SessionID: sessionID})
}

// CheckoutSessionURL returns the hosted page url for a session.
func (h *Handlers) CheckoutSessionURL(w http.ResponseWriter, r *http.Request) {
	sessionID := domain.SessionID(chi.URLParam(r, "sessionId"))

	url, err := h.checkout.RedirectURL(r.Context(), sessionID)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SessionURLResponse{URL: url})
}
