package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnelpay_payments_processed_total",
			Help: "Charge attempts by flow and processor result",
		},
		[]string{"flow", "result"},
	)

	NotificationsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnelpay_crm_notifications_delivered_total",
			Help: "CRM webhook notifications delivered",
		},
	)

	NotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnelpay_crm_notifications_failed_total",
			Help: "CRM webhook notifications that failed (best-effort, never retried)",
		},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnelpay_processor_webhook_events_total",
			Help: "Inbound processor webhook events by type",
		},
		[]string{"type"},
	)

	SheetAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnelpay_sheet_appends_total",
			Help: "Candidature rows appended to the spreadsheet by result",
		},
		[]string{"result"},
	)

	SheetFormatCopyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funnelpay_sheet_format_copy_failures_total",
			Help: "Best-effort row formatting copies that failed",
		},
	)
)
