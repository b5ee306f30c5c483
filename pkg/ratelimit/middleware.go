package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"branchdesk/internal/shared/utils/response"
	"branchdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter to every route
func Middleware(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		// Determine rate limit type from route
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := limiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.ErrorWithContext(c.Request.Context(), "Rate limit check failed", err, map[string]interface{}{
				"ip": clientIP,
			})
			response.Error(c, http.StatusInternalServerError, "Rate limit check failed", nil)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded", map[string]interface{}{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
			return
		}

		c.Next()
	}
}

func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	// Payment submissions get the strictest budget
	case strings.HasSuffix(path, "/bookings/checkout"):
		return RateLimitTypePayment

	case strings.Contains(path, "/bookings"):
		return RateLimitTypeBooking

	// Chunk uploads arrive many times per second while recording
	case strings.HasSuffix(path, "/recording/chunks"):
		return RateLimitTypeRecording

	case strings.Contains(path, "/loan-sessions"):
		return RateLimitTypeWizard

	case method == http.MethodGet && (strings.Contains(path, "/movies") ||
		strings.Contains(path, "/screens") ||
		strings.Contains(path, "/loan-types")):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
