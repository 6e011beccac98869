package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/fairlaunch/curve-registry/internal/api/shared/errors"
	"github.com/fairlaunch/curve-registry/internal/logger"
	"github.com/fairlaunch/curve-registry/internal/ratelimit"
)

// RateLimit enforces a per-client request rate, keyed by client IP.
// A limiter failure fails open: availability is preferred over strict limiting.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.ErrorCtx(c.Request.Context(), err, zap.String("client_ip", c.ClientIP()))
			c.Next()
			return
		}

		if !decision.Allowed {
			if decision.RetryAfter > 0 {
				c.Header("Retry-After", fmt.Sprintf("%.0f", decision.RetryAfter.Seconds()))
			}
			apiErr := apierrors.NewRateLimitError("Too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiErr)
			return
		}

		c.Next()
	}
}
