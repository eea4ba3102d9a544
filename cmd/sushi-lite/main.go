package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/quocphu/sushiswap-lite/internal/app"
	"github.com/quocphu/sushiswap-lite/internal/config"
	"github.com/quocphu/sushiswap-lite/internal/logging"
)

func parseFlags() (cfgPath, logLevel string) {
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file")
	flag.StringVar(&logLevel, "log-level", "", "overrides log.level from the config")
	flag.Parse()
	return cfgPath, logLevel
}

func main() {
	cfgPath, logLevel := parseFlags()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("web server stopped", zap.Error(err))
	}
}
