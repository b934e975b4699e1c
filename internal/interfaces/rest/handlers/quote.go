package handlers

import (
	"net/http"

	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/interfaces/rest"
)

type QuoteResponse struct {
	Amount           int64                 `json:"amount"`
	AmountMinorUnits int64                 `json:"amountMinorUnits"`
	Currency         string                `json:"currency"`
	ServiceID        string                `json:"serviceId"`
	Breakdown        domain.PriceBreakdown `json:"breakdown"`
}

type ServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Quote prices a quote form snapshot. Malformed numbers count as zero, so any
// well-formed JSON object gets a price.
func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.QuoteSnapshot
	if err := rest.DecodeJSON(r, &snapshot); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	result := h.quotes.Quote(snapshot)

	rest.WriteJSON(w, http.StatusOK, QuoteResponse{
		Amount:           result.Price.Amount,
		AmountMinorUnits: result.Price.MinorUnits(),
		Currency:         result.Price.Currency,
		ServiceID:        result.ServiceID,
		Breakdown:        result.Price.Breakdown,
	})
}

func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	descriptors := h.quotes.Services()

	out := make([]ServiceResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, ServiceResponse{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.BasePrice,
			Currency:    d.Currency,
		})
	}

	rest.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
