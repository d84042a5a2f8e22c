package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"funnelpay/internal/domain"
	"funnelpay/internal/metrics"
)

// Purchase is the inner view of a successful transaction handed to the
// notifier by whichever flow completed it.
type Purchase struct {
	Email           string
	Name            string
	Phone           string
	Amount          int64 // minor currency units
	Currency        string
	CustomerID      string
	PaymentIntentID string
	SessionID       string
	PriceID         string
	PurchaseType    string
	PaymentStatus   string
	Status          string
}

// Notifier delivers purchase notifications to the CRM webhook relay.
// Delivery is at-most-once and best-effort: it runs detached from the
// request that produced the purchase, and a failure is logged and counted
// but never surfaces to the buyer.
type Notifier struct {
	webhookURL string
	offer      domain.Offer
	loc        *time.Location
	client     *http.Client
	timeout    time.Duration
	log        *zap.Logger

	wg sync.WaitGroup
}

// NewNotifier creates a Notifier posting to webhookURL. An empty URL
// disables delivery entirely.
func NewNotifier(webhookURL string, offer domain.Offer, loc *time.Location, timeout time.Duration, log *zap.Logger) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		webhookURL: webhookURL,
		offer:      offer,
		loc:        loc,
		client:     &http.Client{Timeout: timeout},
		timeout:    timeout,
		log:        log,
	}
}

// NotifyPurchase builds the flat CRM payload for p and dispatches it in the
// background. It returns immediately; the caller's response is never held
// up or invalidated by the delivery.
func (n *Notifier) NotifyPurchase(p Purchase) {
	if n.webhookURL == "" {
		n.log.Warn("crm webhook url not configured, skipping notification",
			zap.String("payment_intent_id", p.PaymentIntentID))
		return
	}

	payload := n.buildPayload(p, time.Now())

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.deliver(ctx, payload); err != nil {
			metrics.NotificationsFailed.Inc()
			n.log.Error("crm notification delivery failed",
				zap.String("payment_intent_id", p.PaymentIntentID),
				zap.Error(err))
			return
		}
		metrics.NotificationsDelivered.Inc()
		n.log.Info("crm notification delivered",
			zap.String("payment_intent_id", p.PaymentIntentID),
			zap.String("email", payload.Email))
	}()
}

// Drain waits for in-flight deliveries, bounded by ctx. Used on shutdown.
func (n *Notifier) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		n.log.Warn("shutdown before all crm notifications finished")
	}
}

func (n *Notifier) buildPayload(p Purchase, now time.Time) domain.NotificationPayload {
	currency := p.Currency
	if currency == "" {
		currency = "eur"
	}
	return domain.NotificationPayload{
		Email:            p.Email,
		Name:             p.Name,
		Phone:            p.Phone,
		Amount:           float64(p.Amount) / 100,
		Currency:         strings.ToUpper(currency),
		Product:          n.offer.Code,
		Description:      n.offer.Description,
		CustomerID:       p.CustomerID,
		PaymentIntentID:  p.PaymentIntentID,
		SessionID:        p.SessionID,
		PriceID:          p.PriceID,
		PurchasedAt:      now.UTC().Format(time.RFC3339),
		PurchasedAtLocal: now.In(n.loc).Format("02/01/2006, 15:04"),
		CampaignTag:      n.offer.CampaignTag,
		PurchaseType:     p.PurchaseType,
		OfferName:        n.offer.Name,
		PaymentStatus:    p.PaymentStatus,
		Status:           p.Status,
	}
}

func (n *Notifier) deliver(ctx context.Context, payload domain.NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("crm relay returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
