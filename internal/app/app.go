package app

import (
	"context"
	"net/http"
	"time"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/config"
	"go-traindesk/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure, wires every module, and registers
// the route tree. It returns the system-log recorder so the server lifecycle
// can write to the same trail as the request path. Redis is optional:
// without it the recent-SOP cache and the idempotency locks degrade to
// pass-through.
func BuildApp(cfg *config.Config, router *gin.Engine, logger *zap.Logger) (auditlog.Recorder, error) {
	db, err := connection.ConnectMongoWithRetry(cfg.Mongo.URI, cfg.Mongo.Database, 5)
	if err != nil {
		return nil, err
	}
	logger.Info("mongo connection established", zap.String("database", cfg.Mongo.Database))

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
		if err != nil {
			// Degraded but serviceable.
			logger.Warn("redis unavailable, caching and idempotency locks disabled", zap.Error(err))
			rdb = nil
		} else {
			logger.Info("redis connection established")
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	audit, err := registerModules(cfg, router, db, rdb, logger)
	if err != nil {
		return nil, err
	}

	return audit, nil
}

// ensureIndexes runs every collection's index build once at startup.
func ensureIndexes(ctx context.Context, builders ...func(context.Context) error) error {
	for _, build := range builders {
		if err := build(ctx); err != nil {
			return err
		}
	}
	return nil
}
