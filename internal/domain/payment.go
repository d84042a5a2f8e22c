package domain

// PaymentStatus represents the status reported by the payment processor
// for a confirmed payment intent.
type PaymentStatus string

const (
	PaymentStatusSucceeded            PaymentStatus = "succeeded"
	PaymentStatusRequiresAction       PaymentStatus = "requires_action"
	PaymentStatusRequiresConfirmation PaymentStatus = "requires_confirmation"
)

// ChargeRequest carries the fields needed to create and confirm a payment
// against the processor.
type ChargeRequest struct {
	PaymentMethodID string
	CustomerID      string
	Amount          int64 // minor currency units
	Currency        string
	Description     string
	OffSession      bool
	// AutomaticPaymentMethods and ReturnURL enable redirect-based
	// authentication for on-session charges. Deployment configuration,
	// never a request-level switch.
	AutomaticPaymentMethods bool
	ReturnURL               string
	Metadata                map[string]string
}

// PaymentOutcome is the processor's verdict on a confirmed payment intent.
// ClientSecret is populated only when the payer must complete a client-side
// authentication step.
type PaymentOutcome struct {
	ID           string
	Status       PaymentStatus
	ClientSecret string
}

// Succeeded reports whether the processor reached a terminal success status.
func (o PaymentOutcome) Succeeded() bool {
	return o.Status == PaymentStatusSucceeded
}

// NeedsAction reports whether the payer must complete a further step before
// the payment can succeed.
func (o PaymentOutcome) NeedsAction() bool {
	return o.Status == PaymentStatusRequiresAction || o.Status == PaymentStatusRequiresConfirmation
}
