package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/application/services"
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/config"
	"github.com/alexanderovie/integrity/internal/infrastructure/events"
	"github.com/alexanderovie/integrity/internal/infrastructure/notify"
	"github.com/alexanderovie/integrity/internal/infrastructure/persistence"
	"github.com/alexanderovie/integrity/internal/infrastructure/processor"
	"github.com/alexanderovie/integrity/internal/interfaces/rest/handlers"
	"github.com/alexanderovie/integrity/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payments service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"ledger_backend", cfg.Ledger.Backend,
	)
	warnMissingSettings(cfg, logger)

	ctx := context.Background()

	ledger, closeLedger, err := persistence.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open event ledger", "error", err)
		os.Exit(1)
	}
	defer closeLedger()

	var publisher application.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing completed payments", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	composer, err := notify.NewComposer()
	if err != nil {
		logger.Error("failed to parse notification templates", "error", err)
		os.Exit(1)
	}

	cat := catalog.Default()

	stripeHTTP := &http.Client{
		Timeout:   cfg.Stripe.ConnTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	gateway := processor.NewGateway(cfg.Stripe, stripeHTTP, logger)
	verifier := processor.NewVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.WebhookTolerance)
	sender := notify.NewResendClient(cfg.Notify)

	dispatcher := services.NewDispatcher(
		ledger,
		composer,
		sender,
		publisher,
		cat,
		services.Addresses{From: cfg.Notify.From, Operator: cfg.Notify.Operator},
		logger,
	)

	h := handlers.NewHandlers(
		services.NewCheckoutService(cat, gateway, logger),
		services.NewQuoteService(cat),
		verifier,
		dispatcher,
		cfg.Server.PublicURL,
		logger,
	)

	router := handlers.NewRouter(h, handlers.RouterConfig{
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, logger)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	pruner := worker.NewLedgerPruner(ledger, cfg.Worker.Interval, cfg.Ledger.Retention, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go pruner.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// warnMissingSettings names secrets that are unset. The service still starts;
// the affected operation fails with a configuration error when it is used.
func warnMissingSettings(cfg *config.Config, logger *slog.Logger) {
	missing := map[string]bool{
		"STRIPE_SECRET_KEY":     cfg.Stripe.SecretKey == "",
		"STRIPE_WEBHOOK_SECRET": cfg.Stripe.WebhookSecret == "",
		"RESEND_API_KEY":        cfg.Notify.APIKey == "",
		"FROM_EMAIL":            cfg.Notify.From == "",
		"TO_EMAIL":              cfg.Notify.Operator == "",
	}
	for name, unset := range missing {
		if unset {
			logger.Warn("setting is not configured", "setting", name)
		}
	}
}
