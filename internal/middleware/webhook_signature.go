package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

// WebhookSignature verifies the HMAC signature of inbound webhook bodies.
// Sources post with a shared secret; an empty configured secret disables the
// check for that deployment (local development).
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Warn("Failed to read webhook body for signature check", "error", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unreadable request body"})
			return
		}
		// Restore the body for the handler's own bind
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		provided := c.GetHeader(SignatureHeader)
		if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
			logger.Warn("Webhook signature verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}

		c.Next()
	}
}
