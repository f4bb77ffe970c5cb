package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common/helper"
)

// RequestId assigns every request an id, exposed to handlers, the response
// header, and the request context for downstream logging.
func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := helper.GenRequestID()
		c.Set(helper.RequestIdKey, id)
		ctx := context.WithValue(c.Request.Context(), helper.RequestIdKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(helper.RequestIdKey, id)
		c.Next()
	}
}
