package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"funnelpay/internal/service"
)

// CheckoutHandler handles HTTP requests for checkout sessions.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSessionRequest is the HTTP request body for opening a checkout session.
type CreateSessionRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	ReturnURL  string `json:"returnUrl"`
}

// CheckoutSessionResponse is the HTTP response for an opened session. Exactly
// one of SessionURL (redirect mode) or ClientSecret (embedded mode) is set.
type CheckoutSessionResponse struct {
	SessionID    string `json:"sessionId"`
	SessionURL   string `json:"sessionUrl,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// CreateSession handles POST /v1/checkout/sessions
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.checkoutService.CreateSession(c.Request.Context(), service.CreateSessionRequest{
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		ReturnURL:  req.ReturnURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutSessionResponse{
		SessionID:    session.ID,
		SessionURL:   session.URL,
		ClientSecret: session.ClientSecret,
	})
}
