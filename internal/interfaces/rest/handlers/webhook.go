package handlers

import (
	"net/http"

	"github.com/alexanderovie/integrity/internal/infrastructure/processor"
	"github.com/alexanderovie/integrity/internal/interfaces/rest"
)

type WebhookResponse struct {
	Received bool `json:"received"`
}

// PaymentWebhook authenticates a processor event and runs its effects before
// acknowledging. Effect failures are logged by the dispatcher and still acknowledged.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := rest.ReadBodyLimit(r, rest.MaxEventBytes)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get(processor.SignatureHeader))
	if err != nil {
		if processor.IsStaleSignature(err) {
			h.logger.Warn("event signature timestamp outside tolerance")
		}
		rest.WriteError(w, err, h.logger)
		return
	}

	h.dispatcher.Dispatch(r.Context(), event)

	rest.WriteJSON(w, http.StatusOK, WebhookResponse{Received: true})
}
