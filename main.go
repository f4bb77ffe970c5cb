package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/bedrockbridge/bedrock-bridge/common"
	"github.com/bedrockbridge/bedrock-bridge/common/config"
	"github.com/bedrockbridge/bedrock-bridge/common/graceful"
	"github.com/bedrockbridge/bedrock-bridge/common/logger"
	"github.com/bedrockbridge/bedrock-bridge/middleware"
	"github.com/bedrockbridge/bedrock-bridge/relay/controller"
	"github.com/bedrockbridge/bedrock-bridge/router"
)

func main() {
	ctx := context.Background()

	common.Init()
	logger.SetupLogger()
	logger.Logger.Info("bedrock-bridge started", zap.String("version", common.Version))

	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	} else if !config.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := controller.InitTransport(ctx); err != nil {
		logger.Logger.Fatal("failed to initialize backend transport", zap.Error(err))
	}
	if config.UseCustomEndpoint() {
		logger.Logger.Info("using custom endpoint transport",
			zap.String("base", config.CustomEndpointBase))
	} else {
		logger.Logger.Info("using aws sdk transport", zap.String("region", config.Region))
	}

	logLevel := glog.LevelInfo
	if config.DebugEnabled {
		logLevel = glog.LevelDebug
	}

	server := gin.New()
	server.RedirectTrailingSlash = false
	server.Use(
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(logLevel.String()),
			gmw.WithLogger(logger.Logger.Named("gin")),
		),
	)
	// NOTE: never add gzip here, it breaks SSE flushing
	server.Use(middleware.RequestId())
	server.Use(middleware.RelayPanicRecover())
	server.Use(middleware.TrackInFlight())
	if config.EnablePrometheusMetrics {
		server.Use(middleware.Prometheus())
	}

	router.SetRouter(server)

	port := config.ServerPort
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server,
	}

	go func() {
		logger.Logger.Info("server listening", zap.String("address", "http://localhost:"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("shutdown signal received")
	graceful.SetDraining()

	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(config.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("server shutdown", zap.Error(err))
	}
	if err := graceful.Drain(shutdownCtx); err != nil {
		logger.Logger.Error("request drain", zap.Error(err))
	}
	logger.Logger.Info("server stopped")
}
