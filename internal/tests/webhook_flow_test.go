package tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/service"
)

func TestCheckoutCompleted_RefetchesAndNotifies(t *testing.T) {
	t.Parallel()

	crm := newCaptureServer()
	defer crm.Close()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{
		ID:    "cus_1",
		Email: "buyer@example.com",
		Name:  "Buyer",
		Phone: "+393331234567",
	})
	processor.AddOutcome(domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded})

	notifier := service.NewNotifier(crm.URL, testOffer(), time.UTC, 2*time.Second, zap.NewNop())
	svc := service.NewWebhookService(processor, notifier, zap.NewNop())

	err := svc.HandleCheckoutCompleted(context.Background(), domain.CheckoutCompleted{
		SessionID:       "cs_1",
		CustomerID:      "cus_1",
		PaymentIntentID: "pi_1",
		AmountTotal:     50000,
		Currency:        "eur",
		PaymentStatus:   "paid",
		Status:          "complete",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The event payload carried only ids; both records must be re-fetched.
	if processor.GetCustomerCalls != 1 {
		t.Errorf("expected customer re-fetch, got %d calls", processor.GetCustomerCalls)
	}
	if processor.GetOutcomeCalls != 1 {
		t.Errorf("expected payment intent re-fetch, got %d calls", processor.GetOutcomeCalls)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	notifier.Drain(drainCtx)

	if crm.count() != 1 {
		t.Fatalf("expected one notification, got %d", crm.count())
	}

	var payload map[string]any
	if err := json.Unmarshal(crm.last(), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got := payload["email"]; got != "buyer@example.com" {
		t.Errorf("expected the re-fetched customer email, got %v", got)
	}
	if got := payload["importo"]; got != 500.0 {
		t.Errorf("expected importo 500, got %v", got)
	}
	if got := payload["stripeSessionId"]; got != "cs_1" {
		t.Errorf("expected session id, got %v", got)
	}
	if got := payload["tipoAcquisto"]; got != "stripe-checkout" {
		t.Errorf("expected purchase type stripe-checkout, got %v", got)
	}
	if got := payload["paymentStatus"]; got != "paid" {
		t.Errorf("expected payment status from the session, got %v", got)
	}
}

func TestCheckoutCompleted_RedeliveryNotifiesAgain(t *testing.T) {
	t.Parallel()

	crm := newCaptureServer()
	defer crm.Close()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.AddOutcome(domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded})

	notifier := service.NewNotifier(crm.URL, testOffer(), time.UTC, 2*time.Second, zap.NewNop())
	svc := service.NewWebhookService(processor, notifier, zap.NewNop())

	ev := domain.CheckoutCompleted{
		SessionID:       "cs_1",
		CustomerID:      "cus_1",
		PaymentIntentID: "pi_1",
		AmountTotal:     50000,
		Currency:        "eur",
		PaymentStatus:   "paid",
		Status:          "complete",
	}

	// The processor may redeliver; there is no deduplication here.
	for i := 0; i < 2; i++ {
		if err := svc.HandleCheckoutCompleted(context.Background(), ev); err != nil {
			t.Fatalf("delivery %d: unexpected error: %v", i+1, err)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	notifier.Drain(drainCtx)

	if crm.count() != 2 {
		t.Fatalf("expected one notification per delivery, got %d", crm.count())
	}
}
