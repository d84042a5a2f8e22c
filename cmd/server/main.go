package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"funnelpay/internal/app"
	"funnelpay/internal/config"
	"funnelpay/internal/domain"
	"funnelpay/internal/handler"
	"funnelpay/internal/logger"
	"funnelpay/internal/processor"
	"funnelpay/internal/service"
	"funnelpay/internal/sheetstore"
)

func main() {
	// .env is a development convenience; deployments set real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.Stripe.SecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("no webhook signing secret configured, inbound events will be trusted unverified")
	}

	// Initialize New Relic if enabled.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Error("failed to initialize New Relic", zap.Error(err))
		} else {
			log.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Wire dependencies.
	server, notifier := wireServer(ctx, cfg, nrApp, log)

	// Start server in goroutine.
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	// Let in-flight CRM notifications finish; they are at-most-once.
	notifier.Drain(shutdownCtx)

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// notifier so shutdown can drain it.
func wireServer(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, log *zap.Logger) (*http.Server, *service.Notifier) {
	offer := domain.Offer{
		Code:                    cfg.Offer.Product,
		Description:             cfg.Offer.Description,
		Name:                    cfg.Offer.Name,
		CampaignTag:             cfg.Offer.CampaignTag,
		PriceID:                 cfg.Offer.PriceID,
		ReturnURL:               cfg.Offer.ReturnURL,
		AutomaticPaymentMethods: cfg.Offer.AutomaticPaymentMethods,
	}

	loc, err := time.LoadLocation(cfg.Offer.Timezone)
	if err != nil {
		log.Warn("unknown funnel timezone, using UTC", zap.String("timezone", cfg.Offer.Timezone))
		loc = time.UTC
	}

	// External clients.
	stripeProcessor := processor.NewStripe(cfg.Stripe.SecretKey)

	var rowStore service.RowStore
	if cfg.Sheets.Configured() {
		store, err := sheetstore.New(ctx, cfg.Sheets.ServiceAccountEmail, cfg.Sheets.PrivateKey, sheetstore.Config{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			Tab:           cfg.Sheets.Tab,
			SheetGID:      cfg.Sheets.SheetGID,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize sheet store", zap.Error(err))
		}
		rowStore = store
		log.Info("sheet store ready", zap.String("tab", cfg.Sheets.Tab))
	} else {
		log.Warn("spreadsheet storage not configured, candidature intake will reject submissions")
	}

	// Initialize services.
	notifier := service.NewNotifier(cfg.CRM.WebhookURL, offer, loc, cfg.CRM.Timeout, log)
	checkoutService := service.NewCheckoutService(stripeProcessor, domain.CheckoutMode(cfg.Checkout.Mode), offer, log)
	paymentService := service.NewPaymentService(stripeProcessor, notifier, offer, log)
	webhookService := service.NewWebhookService(stripeProcessor, notifier, log)
	candidatureService := service.NewCandidatureService(rowStore, loc, log)

	// Initialize handlers.
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	webhookHandler := handler.NewWebhookHandler(webhookService, cfg.Stripe.WebhookSecret, log)
	candidatureHandler := handler.NewCandidatureHandler(candidatureService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CheckoutHandler:    checkoutHandler,
		PaymentHandler:     paymentHandler,
		WebhookHandler:     webhookHandler,
		CandidatureHandler: candidatureHandler,
		Logger:             log,
		NewRelicApp:        nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, notifier
}
