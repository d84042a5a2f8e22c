package domain

// NotificationPayload is the flat record posted to the CRM webhook relay
// after a successful purchase. The JSON keys are the wire contract the
// downstream CRM scenario binds on, so they stay as-is.
type NotificationPayload struct {
	Email string `json:"email"`
	Name  string `json:"nome"`
	Phone string `json:"telefono,omitempty"`

	Amount      float64 `json:"importo"` // major currency units
	Currency    string  `json:"valuta"`
	Product     string  `json:"prodotto"`
	Description string  `json:"descrizione"`

	CustomerID      string `json:"stripeCustomerId"`
	PaymentIntentID string `json:"stripePaymentIntentId"`
	SessionID       string `json:"stripeSessionId,omitempty"`
	PriceID         string `json:"stripePriceId,omitempty"`

	PurchasedAt      string `json:"dataAcquisto"`           // RFC 3339, UTC
	PurchasedAtLocal string `json:"dataAcquistoFormattata"` // funnel-local, dd/mm/yyyy hh:mm

	CampaignTag  string `json:"tag"`
	PurchaseType string `json:"tipoAcquisto"`
	OfferName    string `json:"nomeOfferta"`

	PaymentStatus string `json:"paymentStatus"`
	Status        string `json:"status"`
}
