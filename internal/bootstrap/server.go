package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-traindesk/internal/auditlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StartHTTPServer runs the Gin server until SIGINT/SIGTERM, then drains
// in-flight requests. The shutdown is written to the system log before the
// drain starts so the trail records it even if the drain is cut short.
func StartHTTPServer(router *gin.Engine, cfg ServerConfig, audit auditlog.Recorder) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zap.L().Info("HTTP server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	zap.L().Info("shutdown signal received")
	audit.Record(context.Background(), "system", auditlog.TypeSystem, "server shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		zap.L().Error("forced shutdown", zap.Error(err))
		return
	}
	zap.L().Info("server exited gracefully")
}
