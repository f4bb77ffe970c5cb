package common

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/Laisky/zap"

	"github.com/bedrockbridge/bedrock-bridge/common/logger"
)

var (
	Port   = flag.Int("port", 8000, "the listening port")
	LogDir = flag.String("log-dir", "", "specify the log directory; empty logs to stdout only")
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func Init() {
	flag.Parse()

	if *LogDir != "" {
		expanded, err := filepath.Abs(*LogDir)
		if err != nil {
			logger.Logger.Fatal("failed to get absolute log dir", zap.Error(err))
		}
		if err = os.MkdirAll(expanded, 0o777); err != nil {
			logger.Logger.Fatal("failed to create log dir", zap.Error(err))
		}
		logger.LogDir = expanded
	}
}
