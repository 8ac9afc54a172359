package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/readyvery/foodie-order/utils"
)

// PaymentSecurityHeaders keeps payment responses out of caches.
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// PaymentRateLimiter implements per-client rate limiting for payment endpoints
func PaymentRateLimiter(perSecond int) gin.HandlerFunc {
	limiter := NewRateLimiter(perSecond)
	return func(c *gin.Context) {
		if !limiter.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status:  false,
				Message: "Please wait before making another payment request",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LogPaymentRequest logs payment request details
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}
		if orderID := c.Query("orderId"); orderID != "" {
			fields["order_id"] = orderID
		}
		if c.Writer.Status() >= 400 {
			utils.ErrorLogger.WithFields(fields).Error("Payment request failed")
			return
		}
		utils.InfoLogger.WithFields(fields).Info("Payment request")
	}
}
