package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common/graceful"
)

// TrackInFlight counts requests for the shutdown drain and rejects new work
// once draining has begun.
func TrackInFlight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if graceful.IsDraining() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"type": "error",
				"error": gin.H{
					"type":    "api_error",
					"message": "server is shutting down",
				},
			})
			return
		}
		done := graceful.BeginRequest()
		defer done()
		c.Next()
	}
}
