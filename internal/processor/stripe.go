// Package processor implements the payment-processor port on Stripe.
package processor

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"

	"funnelpay/internal/domain"
	"funnelpay/internal/service"
)

// Stripe talks to the Stripe API. It holds no state beyond the client;
// customers, methods and intents all live on Stripe's side.
type Stripe struct {
	api *client.API
}

// NewStripe creates a Stripe processor authenticated with the secret key.
func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

// FindCustomerByEmail returns the first customer with the given email, or
// nil when there is none. Duplicate emails are not resolved; Stripe returns
// them in creation order and the first one wins.
func (s *Stripe) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	it := s.api.Customers.List(params)
	if it.Next() {
		return toCustomer(it.Customer()), nil
	}
	if err := it.Err(); err != nil {
		return nil, mapError(err)
	}
	return nil, nil
}

func (s *Stripe) CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	params.Context = ctx

	c, err := s.api.Customers.New(params)
	if err != nil {
		return nil, mapError(err)
	}
	return toCustomer(c), nil
}

func (s *Stripe) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := s.api.Customers.Get(id, params)
	if err != nil {
		return nil, mapError(err)
	}
	return toCustomer(c), nil
}

func (s *Stripe) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	if _, err := s.api.PaymentMethods.Attach(paymentMethodID, params); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Stripe) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := s.api.Customers.Update(customerID, params); err != nil {
		return mapError(err)
	}
	return nil
}

// Charge creates and immediately confirms a payment intent.
func (s *Stripe) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentOutcome, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount),
		Currency:      stripe.String(req.Currency),
		Customer:      stripe.String(req.CustomerID),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx

	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.OffSession {
		params.OffSession = stripe.Bool(true)
	}
	if req.AutomaticPaymentMethods {
		params.AutomaticPaymentMethods = &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("always"),
		}
	}
	if req.ReturnURL != "" {
		params.ReturnURL = stripe.String(req.ReturnURL)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return domain.PaymentOutcome{}, mapError(err)
	}
	return toOutcome(pi), nil
}

func (s *Stripe) GetPaymentOutcome(ctx context.Context, paymentIntentID string) (domain.PaymentOutcome, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return domain.PaymentOutcome{}, mapError(err)
	}
	return toOutcome(pi), nil
}

// CreateCheckoutSession opens a hosted or embedded checkout session for one
// unit of the requested price.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
	}
	params.Context = ctx

	if req.Mode == domain.CheckoutModeEmbedded {
		params.UIMode = stripe.String(string(stripe.CheckoutSessionUIModeEmbedded))
		if req.ReturnURL != "" {
			params.ReturnURL = stripe.String(req.ReturnURL)
		}
	} else {
		params.SuccessURL = stripe.String(req.SuccessURL)
		params.CancelURL = stripe.String(req.CancelURL)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return domain.CheckoutSession{}, mapError(err)
	}
	return domain.CheckoutSession{
		ID:           sess.ID,
		URL:          sess.URL,
		ClientSecret: sess.ClientSecret,
	}, nil
}

func toCustomer(c *stripe.Customer) *domain.Customer {
	return &domain.Customer{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
		Phone: c.Phone,
	}
}

func toOutcome(pi *stripe.PaymentIntent) domain.PaymentOutcome {
	return domain.PaymentOutcome{
		ID:           pi.ID,
		Status:       domain.PaymentStatus(pi.Status),
		ClientSecret: pi.ClientSecret,
	}
}

// mapError keeps Stripe's own status and message so the handler layer can
// pass the dependency's verdict through to the caller.
func mapError(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		msg := sErr.Msg
		if msg == "" {
			msg = sErr.Error()
		}
		return &service.ProcessorError{
			StatusCode: sErr.HTTPStatusCode,
			Message:    msg,
		}
	}
	return err
}
