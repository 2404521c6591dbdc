// Package identity resolves the caller from the X-Sharer-User-Id header.
// Identity is self-asserted: there is no session or credential check, the
// gateway in front of this service owns that concern.
package identity

import (
	"crypto/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"shareit-backend/internal/platform/apperr"
)

const (
	Header        = "X-Sharer-User-Id"
	RequestHeader = "X-Request-Id"

	ctxUserKey = "identity.userID"
)

// Required parses the numeric user id header and aborts with
// INVALID_ARGUMENT when it is missing or malformed.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(Header)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				apperr.Body(apperr.CodeInvalidArgument, Header+" header is required"))
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				apperr.Body(apperr.CodeInvalidArgument, Header+" header must be a positive integer"))
			return
		}
		c.Set(ctxUserKey, id)
		c.Next()
	}
}

// UserID returns the caller id set by Required.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserKey)
}

// RequestID tags every request with a ULID, echoed back to the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), ulid.Monotonic(rand.Reader, 0))
		if err == nil {
			c.Set(RequestHeader, id.String())
			c.Header(RequestHeader, id.String())
		}
		c.Next()
	}
}

// Logger is the request log middleware.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(RequestHeader)),
		)
	}
}
