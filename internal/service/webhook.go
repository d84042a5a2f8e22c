package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
)

// WebhookService turns processor-initiated "checkout completed" events into
// CRM notifications. It is the entry point for purchases made on the
// processor-hosted checkout page, where no charge handler of ours ran.
//
// The processor may redeliver events; no deduplication happens here, so a
// redelivered event produces another notification.
type WebhookService struct {
	processor Processor
	notifier  *Notifier
	log       *zap.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(processor Processor, notifier *Notifier, log *zap.Logger) *WebhookService {
	return &WebhookService{
		processor: processor,
		notifier:  notifier,
		log:       log,
	}
}

// HandleCheckoutCompleted re-fetches the customer and payment intent behind
// the event (the event payload is not trusted as complete) and dispatches
// the purchase notification.
func (s *WebhookService) HandleCheckoutCompleted(ctx context.Context, ev domain.CheckoutCompleted) error {
	var customer *domain.Customer
	if ev.CustomerID != "" {
		c, err := s.processor.GetCustomer(ctx, ev.CustomerID)
		if err != nil {
			return err
		}
		customer = c
	}

	paymentIntentID := ev.PaymentIntentID
	paymentStatus := ev.PaymentStatus
	if paymentIntentID != "" {
		outcome, err := s.processor.GetPaymentOutcome(ctx, paymentIntentID)
		if err != nil {
			return err
		}
		paymentIntentID = outcome.ID
		if paymentStatus == "" {
			paymentStatus = string(outcome.Status)
		}
	}

	email, name, phone := ev.Email, ev.Name, ev.Phone
	if customer != nil {
		if email == "" {
			email = customer.Email
		}
		if name == "" {
			name = customer.Name
		}
		if phone == "" {
			phone = customer.Phone
		}
	}

	currency := ev.Currency
	if currency == "" {
		currency = "eur"
	}

	s.log.Info("checkout completed",
		zap.String("session_id", ev.SessionID),
		zap.String("email", email))

	s.notifier.NotifyPurchase(Purchase{
		Email:           email,
		Name:            name,
		Phone:           phone,
		Amount:          ev.AmountTotal,
		Currency:        strings.ToLower(currency),
		CustomerID:      ev.CustomerID,
		PaymentIntentID: paymentIntentID,
		SessionID:       ev.SessionID,
		PurchaseType:    "stripe-checkout",
		PaymentStatus:   paymentStatus,
		Status:          ev.Status,
	})
	return nil
}
