package middleware

import (
	"net/http"
	"strconv"

	"coachdesk/internal/redis"
	"coachdesk/internal/services"
	"coachdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles one action kind per authenticated actor.
// It runs before any access-control or content-guard work so rejecting
// abuse stays cheap.
func RateLimitMiddleware(limiter *redis.RateLimiter, action redis.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			// No user context, auth middleware will handle it.
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), userID.String(), action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
}
