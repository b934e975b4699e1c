package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/alexanderovie/integrity/internal/interfaces/rest/middleware"
)

type RouterConfig struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
}

// NewRouter mounts every route. Storefront routes get CORS and a request
// timeout; webhook routes get neither because the processor is not a browser
// and effects must not be cut short.
func NewRouter(h *Handlers, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))

	r.Get("/health", h.Health)

	r.Post("/webhooks/payments", h.PaymentWebhook)
	r.Post("/api/webhooks/stripe", h.PaymentWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigin))
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Post("/checkout", h.CreateCheckout)
		r.Get("/checkout-session/{sessionId}", h.CheckoutSessionURL)
		r.Post("/quote", h.Quote)
		r.Get("/services", h.ListServices)

		for _, pattern := range []string{"/checkout", "/checkout-session/{sessionId}", "/quote", "/services"} {
			r.Options(pattern, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		}
	})

	return otelhttp.NewHandler(r, "integrity",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
