package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/interfaces/http/dto"
)

// ChannableTokenHeader carries the shared secret of the order webhook
const ChannableTokenHeader = "X-Channable-Token"

// ChannableToken rejects webhook calls that do not carry the configured
// shared secret. An empty secret disables the check, which config
// validation only allows outside production.
func ChannableToken(secret string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secret == "" {
		logger.Warn("Channable webhook token is not configured; webhook is unauthenticated")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	expected := []byte(secret)
	return func(c *gin.Context) {
		got := c.GetHeader(ChannableTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			logger.Warn("Rejected Channable webhook call",
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("token_present", got != ""))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"Invalid or missing webhook token",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Next()
	}
}
