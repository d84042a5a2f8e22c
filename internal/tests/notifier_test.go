package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/service"
)

// captureServer records the bodies POSTed to it.
type captureServer struct {
	mu     sync.Mutex
	bodies [][]byte
	*httptest.Server
}

func newCaptureServer() *captureServer {
	cs := &captureServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.bodies = append(cs.bodies, body)
		cs.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	return cs
}

func (cs *captureServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.bodies)
}

func (cs *captureServer) last() []byte {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.bodies) == 0 {
		return nil
	}
	return cs.bodies[len(cs.bodies)-1]
}

func TestNotifier_DeliversFlatPayload(t *testing.T) {
	t.Parallel()

	crm := newCaptureServer()
	defer crm.Close()

	notifier := service.NewNotifier(crm.URL, testOffer(), time.UTC, 2*time.Second, zap.NewNop())
	notifier.NotifyPurchase(service.Purchase{
		Email:           "buyer@example.com",
		Name:            "Buyer",
		Amount:          49700,
		Currency:        "eur",
		CustomerID:      "cus_1",
		PaymentIntentID: "pi_1",
		PriceID:         "price_test_1",
		PurchaseType:    "sales-page",
		PaymentStatus:   "succeeded",
		Status:          "completed",
	})

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	notifier.Drain(drainCtx)

	if crm.count() != 1 {
		t.Fatalf("expected exactly one delivery, got %d", crm.count())
	}

	var payload map[string]any
	if err := json.Unmarshal(crm.last(), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}

	// Amount converted to major units, currency uppercased.
	if got := payload["importo"]; got != 497.0 {
		t.Errorf("expected importo 497, got %v", got)
	}
	if got := payload["valuta"]; got != "EUR" {
		t.Errorf("expected valuta EUR, got %v", got)
	}
	if got := payload["tag"]; got != "Consulting_500" {
		t.Errorf("expected campaign tag, got %v", got)
	}
	if got := payload["stripePaymentIntentId"]; got != "pi_1" {
		t.Errorf("expected intent id, got %v", got)
	}
	if got := payload["nomeOfferta"]; got != "One-to-one consulting" {
		t.Errorf("expected offer name, got %v", got)
	}
}

func TestNotifier_FailureDoesNotAffectSuccessfulCharge(t *testing.T) {
	t.Parallel()

	// A CRM endpoint that is already gone.
	crm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	crm.Close()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded}

	notifier := service.NewNotifier(crm.URL, testOffer(), time.UTC, time.Second, zap.NewNop())
	svc := service.NewPaymentService(processor, notifier, testOffer(), zap.NewNop())

	result, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("notification failure must never fail the payment: %v", err)
	}
	if !result.Outcome.Succeeded() {
		t.Errorf("expected success, got %s", result.Outcome.Status)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	notifier.Drain(drainCtx)
}

func TestNotifier_DisabledWithoutURL(t *testing.T) {
	t.Parallel()

	notifier := service.NewNotifier("", testOffer(), time.UTC, time.Second, zap.NewNop())
	notifier.NotifyPurchase(service.Purchase{Email: "buyer@example.com", PaymentIntentID: "pi_1"})

	drainCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	notifier.Drain(drainCtx)
}
