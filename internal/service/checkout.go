package service

import (
	"context"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
)

// CheckoutService opens processor-hosted checkout sessions. The presentation
// mode (redirect page vs embedded form) is fixed per deployment.
type CheckoutService struct {
	processor Processor
	mode      domain.CheckoutMode
	offer     domain.Offer
	log       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(processor Processor, mode domain.CheckoutMode, offer domain.Offer, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		processor: processor,
		mode:      mode,
		offer:     offer,
		log:       log,
	}
}

// CreateSessionRequest contains the parameters for opening a checkout session.
type CreateSessionRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	ReturnURL  string
}

// CreateSession opens a session for one unit of the given price.
func (s *CheckoutService) CreateSession(ctx context.Context, req CreateSessionRequest) (domain.CheckoutSession, error) {
	if req.PriceID == "" {
		return domain.CheckoutSession{}, ErrInvalidPriceID
	}

	session, err := s.processor.CreateCheckoutSession(ctx, domain.CheckoutSessionRequest{
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		ReturnURL:  req.ReturnURL,
		Mode:       s.mode,
		Metadata: map[string]string{
			"product": s.offer.Code,
			"source":  "sales_page",
		},
	})
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	s.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("mode", string(s.mode)))
	return session, nil
}
