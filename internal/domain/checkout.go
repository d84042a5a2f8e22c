package domain

// CheckoutMode selects how a checkout session is presented to the buyer.
// It is fixed per deployment, not per request.
type CheckoutMode string

const (
	// CheckoutModeRedirect sends the buyer to a processor-hosted page.
	CheckoutModeRedirect CheckoutMode = "redirect"
	// CheckoutModeEmbedded renders the checkout inside the sales page.
	CheckoutModeEmbedded CheckoutMode = "embedded"
)

// CheckoutSessionRequest carries the fields needed to open a checkout
// session for a single priced item.
type CheckoutSessionRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	ReturnURL  string
	Mode       CheckoutMode
	Metadata   map[string]string
}

// CheckoutSession is the opened session. URL is set in redirect mode,
// ClientSecret in embedded mode.
type CheckoutSession struct {
	ID           string
	URL          string
	ClientSecret string
}

// CheckoutCompleted is the subset of a "checkout completed" processor event
// the webhook receiver works from. The processor is re-queried for customer
// and payment details rather than trusting the event as complete.
type CheckoutCompleted struct {
	SessionID       string
	CustomerID      string
	PaymentIntentID string
	Email           string
	Name            string
	Phone           string
	AmountTotal     int64 // minor currency units
	Currency        string
	PaymentStatus   string
	Status          string
}
