package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bedrockbridge/bedrock-bridge/common"
	"github.com/bedrockbridge/bedrock-bridge/common/config"
	"github.com/bedrockbridge/bedrock-bridge/relay/controller"
)

// SetRouter registers the relay surface: the simple messages endpoint, the
// invoke-compatible pair, and the operational endpoints. Anything else is a
// 404 with no backend call.
func SetRouter(router *gin.Engine) {
	router.POST("/v1/messages", controller.RelayMessages)

	modelGroup := router.Group("/model")
	{
		modelGroup.POST("/:model/invoke", controller.RelayInvoke)
		modelGroup.POST("/:model/invoke-with-response-stream", controller.RelayInvokeStream)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": common.Version})
	})
	if config.EnablePrometheusMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// wrong-method hits fall through to NoRoute as well, a 404 either way
	router.NoRoute(controller.NotFoundError)
}
