package main

import (
	stdlog "log"

	"go.uber.org/zap"

	"go.datamatch.io/engine/cli"
	"go.datamatch.io/engine/config"
	"go.datamatch.io/engine/utils/log"
)

// version is injected during build by ldflags.
var version string

func main() {
	if version == "" {
		version = "dev"
	}
	logger, err := log.New()
	if err != nil {
		stdlog.Fatalf("failed to build the logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Debug("starting datamatch", zap.String("version", version))
	cli.Execute(logger, config.New())
}
