package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/service"
)

func testOffer() domain.Offer {
	return domain.Offer{
		Code:        "consulenza_1h",
		Description: "One-to-one consulting, 1 hour",
		Name:        "One-to-one consulting",
		CampaignTag: "Consulting_500",
		PriceID:     "price_test_1",
		ReturnURL:   "https://example.com/thankyou",
	}
}

func disabledNotifier() *service.Notifier {
	return service.NewNotifier("", testOffer(), time.UTC, time.Second, zap.NewNop())
}

func newPaymentService(p *MockProcessor) *service.PaymentService {
	return service.NewPaymentService(p, disabledNotifier(), testOffer(), zap.NewNop())
}

// ──────────────────────────────────────────────
// SAVED-METHOD ("one-click") CHARGES
// ──────────────────────────────────────────────

func TestSavedMethodCharge_CustomerNotFound(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	svc := newPaymentService(processor)

	_, err := svc.ChargeSavedMethod(context.Background(), service.SavedMethodCharge{
		PaymentMethodID: "pm_1",
		CustomerEmail:   "nobody@example.com",
		Amount:          9700,
		Currency:        "eur",
	})

	if !errors.Is(err, service.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if processor.ChargeCalls != 0 {
		t.Errorf("expected no charge attempt, got %d", processor.ChargeCalls)
	}
}

func TestSavedMethodCharge_Success(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com", Name: "Buyer"})
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded}
	svc := newPaymentService(processor)

	result, err := svc.ChargeSavedMethod(context.Background(), service.SavedMethodCharge{
		PaymentMethodID: "pm_1",
		CustomerEmail:   "buyer@example.com",
		Amount:          9700,
		Currency:        "eur",
		Product:         "upsell_1",
		PriceID:         "price_up_1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Outcome.Succeeded() {
		t.Errorf("expected terminal success, got status %s", result.Outcome.Status)
	}
	if result.Outcome.ID != "pi_1" {
		t.Errorf("expected payment intent pi_1, got %s", result.Outcome.ID)
	}
	if !processor.LastCharge.OffSession {
		t.Error("saved-method charge must run off-session")
	}
	if processor.LastCharge.CustomerID != "cus_1" {
		t.Errorf("expected charge against cus_1, got %s", processor.LastCharge.CustomerID)
	}
	if processor.LastCharge.Metadata["priceId"] != "price_up_1" {
		t.Errorf("expected price metadata, got %q", processor.LastCharge.Metadata["priceId"])
	}
}

func TestSavedMethodCharge_RequiresAction(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.ChargeOutcome = domain.PaymentOutcome{
		ID:           "pi_1",
		Status:       domain.PaymentStatusRequiresAction,
		ClientSecret: "pi_1_secret",
	}
	svc := newPaymentService(processor)

	result, err := svc.ChargeSavedMethod(context.Background(), service.SavedMethodCharge{
		PaymentMethodID: "pm_1",
		CustomerEmail:   "buyer@example.com",
		Amount:          9700,
		Currency:        "eur",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome.Succeeded() {
		t.Error("requires_action must never be reported as success")
	}
	if result.Outcome.ClientSecret != "pi_1_secret" {
		t.Errorf("expected client secret for step-up auth, got %q", result.Outcome.ClientSecret)
	}
}

func TestSavedMethodCharge_UnhandledStatusIsFatal(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	// Off-session charges have nobody present to confirm; requires_confirmation
	// is not a recoverable state for this flow.
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusRequiresConfirmation}
	svc := newPaymentService(processor)

	_, err := svc.ChargeSavedMethod(context.Background(), service.SavedMethodCharge{
		PaymentMethodID: "pm_1",
		CustomerEmail:   "buyer@example.com",
		Amount:          9700,
		Currency:        "eur",
	})

	if !errors.Is(err, service.ErrUnhandledPaymentStatus) {
		t.Fatalf("expected ErrUnhandledPaymentStatus, got %v", err)
	}
}

func TestSavedMethodCharge_Validation(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	svc := newPaymentService(processor)

	cases := []struct {
		name string
		req  service.SavedMethodCharge
		want error
	}{
		{"missing method", service.SavedMethodCharge{CustomerEmail: "a@b.c", Amount: 100, Currency: "eur"}, service.ErrInvalidPaymentMethod},
		{"missing email", service.SavedMethodCharge{PaymentMethodID: "pm_1", Amount: 100, Currency: "eur"}, service.ErrInvalidCustomerEmail},
		{"zero amount", service.SavedMethodCharge{PaymentMethodID: "pm_1", CustomerEmail: "a@b.c", Currency: "eur"}, service.ErrInvalidAmount},
		{"missing currency", service.SavedMethodCharge{PaymentMethodID: "pm_1", CustomerEmail: "a@b.c", Amount: 100}, service.ErrInvalidCurrency},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ChargeSavedMethod(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if processor.FindCustomerCalls != 0 {
		t.Errorf("validation failures must not reach the processor, got %d lookups", processor.FindCustomerCalls)
	}
}

// ──────────────────────────────────────────────
// NEW-METHOD CHARGES
// ──────────────────────────────────────────────

func TestNewMethodCharge_CreatesCustomerWhenAbsent(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded}
	svc := newPaymentService(processor)

	result, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "new@example.com",
		CustomerName:    "New Buyer",
		Product:         "starter_pack",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if processor.CreateCustomerCalls != 1 {
		t.Errorf("expected customer creation, got %d calls", processor.CreateCustomerCalls)
	}
	if processor.AttachCalls != 1 {
		t.Errorf("expected method attach, got %d calls", processor.AttachCalls)
	}
	if processor.SetDefaultCalls != 1 {
		t.Errorf("expected default method update, got %d calls", processor.SetDefaultCalls)
	}
	if result.CustomerID == "" {
		t.Error("expected the new customer id in the result")
	}
	if processor.LastCharge.Metadata["customerEmail"] != "new@example.com" {
		t.Errorf("expected email metadata, got %q", processor.LastCharge.Metadata["customerEmail"])
	}
}

func TestNewMethodCharge_ReusesExistingCustomer(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_9", Email: "old@example.com"})
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded}
	svc := newPaymentService(processor)

	result, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "old@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if processor.CreateCustomerCalls != 0 {
		t.Errorf("expected no customer creation, got %d", processor.CreateCustomerCalls)
	}
	if result.CustomerID != "cus_9" {
		t.Errorf("expected cus_9, got %s", result.CustomerID)
	}
}

func TestNewMethodCharge_AttachFailureIsTolerated(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.AttachError = errors.New("payment method already attached to the customer")
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: domain.PaymentStatusSucceeded}
	svc := newPaymentService(processor)

	result, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("attach failure must not fail the charge: %v", err)
	}
	if !result.Outcome.Succeeded() {
		t.Errorf("expected success, got %s", result.Outcome.Status)
	}
}

func TestNewMethodCharge_RequiresConfirmationTreatedAsAction(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.ChargeOutcome = domain.PaymentOutcome{
		ID:           "pi_1",
		Status:       domain.PaymentStatusRequiresConfirmation,
		ClientSecret: "pi_1_secret",
	}
	svc := newPaymentService(processor)

	result, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome.Succeeded() {
		t.Error("requires_confirmation must never be reported as success")
	}
	if !result.Outcome.NeedsAction() {
		t.Error("requires_confirmation must surface as an action requirement")
	}
	if result.Outcome.ClientSecret == "" {
		t.Error("expected a client secret alongside the action requirement")
	}
}

func TestNewMethodCharge_UnhandledStatusIsFatal(t *testing.T) {
	t.Parallel()

	processor := NewMockProcessor()
	processor.AddCustomer(&domain.Customer{ID: "cus_1", Email: "buyer@example.com"})
	processor.ChargeOutcome = domain.PaymentOutcome{ID: "pi_1", Status: "requires_payment_method"}
	svc := newPaymentService(processor)

	_, err := svc.ChargeNewMethod(context.Background(), service.NewMethodCharge{
		PaymentMethodID: "pm_1",
		Amount:          49700,
		Currency:        "eur",
		CustomerEmail:   "buyer@example.com",
	})

	if !errors.Is(err, service.ErrUnhandledPaymentStatus) {
		t.Fatalf("expected ErrUnhandledPaymentStatus, got %v", err)
	}
}
