package keepalive

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger keeps a free-tier host from idling the process out by GETting its
// own public URL on an interval.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
}

func New(url string, interval time.Duration, logger *zap.Logger) *Pinger {
	if interval <= 0 {
		interval = 14 * time.Minute
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.Named("keepalive"),
	}
}

// Start launches the ping loop. A no-op when no URL is configured. The loop
// stops when ctx is cancelled; ping failures are logged and never fatal.
func (p *Pinger) Start(ctx context.Context) {
	if p.url == "" {
		return
	}

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.logger.Info("keepalive started",
			zap.String("url", p.url),
			zap.Duration("interval", p.interval),
		)

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("keepalive stopped")
				return
			case <-ticker.C:
				p.ping(ctx)
			}
		}
	}()
}

func (p *Pinger) ping(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("keepalive request build failed", zap.Error(err))
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("keepalive ping failed", zap.Error(err))
		return
	}
	resp.Body.Close()

	p.logger.Debug("keepalive ping", zap.Int("status", resp.StatusCode))
}
