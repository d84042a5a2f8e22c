package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"funnelpay/internal/handler"
	"funnelpay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckoutHandler    *handler.CheckoutHandler
	PaymentHandler     *handler.PaymentHandler
	WebhookHandler     *handler.WebhookHandler
	CandidatureHandler *handler.CandidatureHandler
	Logger             *zap.Logger
	NewRelicApp        *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// The funnel endpoints are POST-only; anything else must get a 405,
	// not a 404.
	router.HandleMethodNotAllowed = true

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		checkout := v1.Group("/checkout")
		{
			checkout.POST("/sessions", deps.CheckoutHandler.CreateSession)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.Process)
			payments.POST("/one-click", deps.PaymentHandler.OneClick)
		}

		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/stripe", deps.WebhookHandler.Handle)
		}

		v1.POST("/candidatures", deps.CandidatureHandler.Submit)
	}

	return router
}
