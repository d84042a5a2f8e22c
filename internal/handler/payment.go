package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"funnelpay/internal/service"
)

// PaymentHandler handles HTTP requests for the two charge flows.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// OneClickChargeRequest is the HTTP request body for charging a saved method.
type OneClickChargeRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
	CustomerEmail   string `json:"customerEmail"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Product         string `json:"product"`
	Description     string `json:"description"`
	PriceID         string `json:"priceId"`
}

// ChargeRequest is the HTTP request body for charging a freshly collected method.
type ChargeRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerName    string `json:"customerName"`
	Product         string `json:"product"`
}

// ChargeSuccessResponse reports a terminal successful payment.
type ChargeSuccessResponse struct {
	Success         bool   `json:"success"`
	CustomerID      string `json:"customerId,omitempty"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// ChargeActionResponse asks the client to run a step-up authentication with
// the given secret. It never carries a success flag.
type ChargeActionResponse struct {
	RequiresAction bool   `json:"requiresAction"`
	ClientSecret   string `json:"clientSecret"`
}

// OneClick handles POST /v1/payments/one-click
func (h *PaymentHandler) OneClick(c *gin.Context) {
	var req OneClickChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.paymentService.ChargeSavedMethod(c.Request.Context(), service.SavedMethodCharge{
		PaymentMethodID: req.PaymentMethodID,
		CustomerEmail:   req.CustomerEmail,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Product:         req.Product,
		Description:     req.Description,
		PriceID:         req.PriceID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Outcome.Succeeded() {
		c.JSON(http.StatusOK, ChargeSuccessResponse{
			Success:         true,
			PaymentIntentID: result.Outcome.ID,
		})
		return
	}
	c.JSON(http.StatusOK, ChargeActionResponse{
		RequiresAction: true,
		ClientSecret:   result.Outcome.ClientSecret,
	})
}

// Process handles POST /v1/payments
func (h *PaymentHandler) Process(c *gin.Context) {
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.paymentService.ChargeNewMethod(c.Request.Context(), service.NewMethodCharge{
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		Product:         req.Product,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Outcome.Succeeded() {
		c.JSON(http.StatusOK, ChargeSuccessResponse{
			Success:         true,
			CustomerID:      result.CustomerID,
			PaymentIntentID: result.Outcome.ID,
		})
		return
	}
	c.JSON(http.StatusOK, ChargeActionResponse{
		RequiresAction: true,
		ClientSecret:   result.Outcome.ClientSecret,
	})
}
