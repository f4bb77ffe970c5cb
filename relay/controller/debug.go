package controller

import (
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common"
	"github.com/bedrockbridge/bedrock-bridge/common/config"
)

const debugLogBodyLimit = 4096

// logClientRequestPayload emits a DEBUG preview of the inbound body. The relay
// handlers call it unconditionally; it is a no-op unless DEBUG is on, so the
// hot path never pays for body formatting.
func logClientRequestPayload(c *gin.Context, label string) {
	if !config.DebugEnabled {
		return
	}
	lg := gmw.GetLogger(c)
	body, err := common.GetRequestBody(c)
	if err != nil {
		lg.Warn("read request body for debug log", zap.Error(err))
		return
	}
	preview, truncated := truncateBytes(body, debugLogBodyLimit)
	lg.Debug("client request received",
		zap.String("label", label),
		zap.String("method", c.Request.Method),
		zap.String("url", c.Request.URL.String()),
		zap.Int("body_bytes", len(body)),
		zap.Bool("body_truncated", truncated),
		zap.ByteString("body_preview", preview),
	)
}

func truncateBytes(input []byte, limit int) ([]byte, bool) {
	if limit <= 0 || len(input) <= limit {
		return input, false
	}
	return input[:limit], true
}
