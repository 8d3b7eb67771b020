package main

import (
	"context"
	"time"

	"go-traindesk/internal/app"
	"go-traindesk/internal/bootstrap"
	"go-traindesk/internal/config"
	"go-traindesk/internal/keepalive"
	"go-traindesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	apperror.Init()
	r := gin.Default()

	// build dependency + routes
	audit, err := app.BuildApp(cfg, r, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	keepalive.New(cfg.KeepAlive.URL, cfg.KeepAlive.Interval, logger).Start(ctx)

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		audit,
	)
}
