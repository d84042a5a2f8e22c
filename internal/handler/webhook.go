package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/metrics"
	"funnelpay/internal/service"
)

const maxWebhookBodyBytes = int64(65536)

// WebhookHandler receives processor webhook events. With a signing secret
// configured it fails closed on a bad signature; without one it trusts the
// raw body, which is only acceptable behind other transport controls.
type WebhookHandler struct {
	webhookService *service.WebhookService
	signingSecret  string
	log            *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService, signingSecret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		signingSecret:  signingSecret,
		log:            log,
	}
}

// WebhookResponse acknowledges an inbound event.
type WebhookResponse struct {
	Received bool   `json:"received"`
	Message  string `json:"message"`
}

// Handle handles POST /v1/webhooks/stripe
func (h *WebhookHandler) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	var event stripe.Event
	if h.signingSecret != "" {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.signingSecret)
		if err != nil {
			h.log.Warn("webhook signature verification failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "webhook signature verification failed"})
			return
		}
	} else {
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid event payload"})
			return
		}
	}

	metrics.WebhookEvents.WithLabelValues(string(event.Type)).Inc()

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, WebhookResponse{Received: true, Message: "event type not handled"})
		return
	}

	// An unsigned body can be valid JSON with no data object at all.
	if event.Data == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid checkout session payload"})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid checkout session payload"})
		return
	}

	if err := h.webhookService.HandleCheckoutCompleted(c.Request.Context(), toCheckoutCompleted(&session)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{Received: true, Message: "webhook processed successfully"})
}

// toCheckoutCompleted flattens the event's session into what the service
// needs; unexpanded references carry only IDs.
func toCheckoutCompleted(session *stripe.CheckoutSession) domain.CheckoutCompleted {
	ev := domain.CheckoutCompleted{
		SessionID:     session.ID,
		Email:         session.CustomerEmail,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Status:        string(session.Status),
	}
	if session.Customer != nil {
		ev.CustomerID = session.Customer.ID
	}
	if session.PaymentIntent != nil {
		ev.PaymentIntentID = session.PaymentIntent.ID
	}
	if d := session.CustomerDetails; d != nil {
		if ev.Email == "" {
			ev.Email = d.Email
		}
		ev.Name = d.Name
		ev.Phone = d.Phone
	}
	return ev
}
