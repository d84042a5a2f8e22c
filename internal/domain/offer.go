package domain

// Offer describes the single product a funnel deployment sells. Historical
// deployments duplicated these values across handler copies; here they are
// configuration shared by checkout, charges and notifications.
type Offer struct {
	Code                    string // product code used in metadata and CRM payloads
	Description             string
	Name                    string
	CampaignTag             string
	PriceID                 string
	ReturnURL               string
	AutomaticPaymentMethods bool
}
