package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns permissive cross-origin middleware. The funnel pages are
// served from arbitrary landing-page domains, so every origin is allowed.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Stripe-Signature", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	})
}
