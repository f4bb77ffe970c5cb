package middleware

import (
	"net/http"
	"runtime/debug"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common/helper"
)

// RelayPanicRecover converts handler panics into a well-formed error response
// instead of a dropped connection.
func RelayPanicRecover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				lg := gmw.GetLogger(c)
				lg.Error("panic detected",
					zap.Any("panic", err),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"type": "error",
					"error": gin.H{
						"type": "api_error",
						"message": helper.MessageWithRequestId("internal error",
							c.GetString(helper.RequestIdKey)),
					},
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
