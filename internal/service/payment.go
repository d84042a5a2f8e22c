package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/metrics"
)

// Processor is the interface for the external payment processor. All payment
// state lives on the processor side; this service only orchestrates calls.
type Processor interface {
	// FindCustomerByEmail returns the first customer matching the email,
	// or nil when there is no match.
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	// Charge creates and immediately confirms a payment intent.
	Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentOutcome, error)
	GetPaymentOutcome(ctx context.Context, paymentIntentID string) (domain.PaymentOutcome, error)
	CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (domain.CheckoutSession, error)
}

// ProcessorError carries the processor's own failure status and message
// through to the caller.
type ProcessorError struct {
	StatusCode int
	Message    string
}

func (e *ProcessorError) Error() string {
	return e.Message
}

// PaymentService orchestrates the two charge flows of the funnel: charging a
// previously saved payment method ("one-click" upsells) and charging a
// freshly collected one.
type PaymentService struct {
	processor Processor
	notifier  *Notifier
	offer     domain.Offer
	log       *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(processor Processor, notifier *Notifier, offer domain.Offer, log *zap.Logger) *PaymentService {
	return &PaymentService{
		processor: processor,
		notifier:  notifier,
		offer:     offer,
		log:       log,
	}
}

// SavedMethodCharge contains the parameters for a one-click charge against a
// payment method the customer saved during an earlier purchase.
type SavedMethodCharge struct {
	PaymentMethodID string
	CustomerEmail   string
	Amount          int64
	Currency        string
	Product         string
	Description     string
	PriceID         string
}

// NewMethodCharge contains the parameters for a charge with a freshly
// collected payment method.
type NewMethodCharge struct {
	PaymentMethodID string
	Amount          int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	Product         string
}

// ChargeResult is the outcome of either charge flow.
type ChargeResult struct {
	CustomerID string
	Outcome    domain.PaymentOutcome
}

// ChargeSavedMethod charges a saved payment method off-session. The customer
// must already exist on the processor; there is nobody present to create one.
func (s *PaymentService) ChargeSavedMethod(ctx context.Context, req SavedMethodCharge) (*ChargeResult, error) {
	if err := validateCharge(req.PaymentMethodID, req.CustomerEmail, req.Amount, req.Currency); err != nil {
		return nil, err
	}

	customer, err := s.processor.FindCustomerByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	outcome, err := s.processor.Charge(ctx, domain.ChargeRequest{
		PaymentMethodID: req.PaymentMethodID,
		CustomerID:      customer.ID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Description:     req.Description,
		OffSession:      true,
		Metadata: map[string]string{
			"product":       req.Product,
			"priceId":       req.PriceID,
			"customerEmail": req.CustomerEmail,
		},
	})
	if err != nil {
		metrics.PaymentsProcessed.WithLabelValues("one_click", "error").Inc()
		return nil, err
	}

	switch {
	case outcome.Succeeded():
		metrics.PaymentsProcessed.WithLabelValues("one_click", "succeeded").Inc()
		s.notifier.NotifyPurchase(Purchase{
			Email:           req.CustomerEmail,
			Name:            customer.Name,
			Amount:          req.Amount,
			Currency:        req.Currency,
			CustomerID:      customer.ID,
			PaymentIntentID: outcome.ID,
			PriceID:         req.PriceID,
			PurchaseType:    "one-click",
			PaymentStatus:   string(outcome.Status),
			Status:          "completed",
		})
	case outcome.Status == domain.PaymentStatusRequiresAction:
		metrics.PaymentsProcessed.WithLabelValues("one_click", "requires_action").Inc()
	default:
		metrics.PaymentsProcessed.WithLabelValues("one_click", "unhandled").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnhandledPaymentStatus, outcome.Status)
	}

	return &ChargeResult{CustomerID: customer.ID, Outcome: outcome}, nil
}

// ChargeNewMethod finds or creates the customer, attaches the collected
// payment method as their default, and confirms a payment intent with it.
func (s *PaymentService) ChargeNewMethod(ctx context.Context, req NewMethodCharge) (*ChargeResult, error) {
	if err := validateCharge(req.PaymentMethodID, req.CustomerEmail, req.Amount, req.Currency); err != nil {
		return nil, err
	}

	customer, err := s.processor.FindCustomerByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer, err = s.processor.CreateCustomer(ctx, req.CustomerEmail, req.CustomerName)
		if err != nil {
			return nil, err
		}
	}

	// Attaching an already-attached method is not fatal; the charge decides.
	if err := s.processor.AttachPaymentMethod(ctx, req.PaymentMethodID, customer.ID); err != nil {
		s.log.Warn("payment method attach failed, continuing",
			zap.String("customer_id", customer.ID),
			zap.Error(err))
	}

	if err := s.processor.SetDefaultPaymentMethod(ctx, customer.ID, req.PaymentMethodID); err != nil {
		return nil, err
	}

	outcome, err := s.processor.Charge(ctx, domain.ChargeRequest{
		PaymentMethodID:         req.PaymentMethodID,
		CustomerID:              customer.ID,
		Amount:                  req.Amount,
		Currency:                req.Currency,
		Description:             s.offer.Description,
		AutomaticPaymentMethods: s.offer.AutomaticPaymentMethods,
		ReturnURL:               s.offer.ReturnURL,
		Metadata: map[string]string{
			"product":       req.Product,
			"customerEmail": req.CustomerEmail,
			"customerName":  req.CustomerName,
			"priceId":       s.offer.PriceID,
		},
	})
	if err != nil {
		metrics.PaymentsProcessed.WithLabelValues("direct", "error").Inc()
		return nil, err
	}

	switch {
	case outcome.Succeeded():
		metrics.PaymentsProcessed.WithLabelValues("direct", "succeeded").Inc()
		name := req.CustomerName
		if name == "" {
			name = customer.Name
		}
		s.notifier.NotifyPurchase(Purchase{
			Email:           req.CustomerEmail,
			Name:            name,
			Amount:          req.Amount,
			Currency:        req.Currency,
			CustomerID:      customer.ID,
			PaymentIntentID: outcome.ID,
			PriceID:         s.offer.PriceID,
			PurchaseType:    "sales-page",
			PaymentStatus:   string(outcome.Status),
			Status:          "completed",
		})
	case outcome.NeedsAction():
		metrics.PaymentsProcessed.WithLabelValues("direct", "requires_action").Inc()
	default:
		metrics.PaymentsProcessed.WithLabelValues("direct", "unhandled").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnhandledPaymentStatus, outcome.Status)
	}

	return &ChargeResult{CustomerID: customer.ID, Outcome: outcome}, nil
}

func validateCharge(paymentMethodID, email string, amount int64, currency string) error {
	if paymentMethodID == "" {
		return ErrInvalidPaymentMethod
	}
	if email == "" {
		return ErrInvalidCustomerEmail
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if currency == "" {
		return ErrInvalidCurrency
	}
	return nil
}
