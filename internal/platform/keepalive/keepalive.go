// Package keepalive pings an external URL on an interval so free-tier
// hosts do not idle the process out. Failures are logged and never fatal.
package keepalive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Doer is the client slice the pinger needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pinger periodically GETs a URL.
type Pinger struct {
	client   Doer
	url      string
	interval time.Duration
	logger   *slog.Logger
}

// New creates a pinger. A nil client falls back to a default with a
// conservative timeout.
func New(client Doer, url string, interval time.Duration, logger *slog.Logger) *Pinger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Pinger{
		client:   client,
		url:      url,
		interval: interval,
		logger:   logger,
	}
}

// Run pings until the context is canceled. With no URL configured it
// returns immediately; local deployments don't need the loop.
func (p *Pinger) Run(ctx context.Context) error {
	if p.url == "" {
		p.logger.Info("keep-alive disabled: no url configured")
		return nil
	}

	p.logger.Info("keep-alive started", "url", p.url, "interval", p.interval.String())
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.ping(ctx); err != nil {
				p.logger.Warn("keep-alive ping failed", "error", err)
			}
		}
	}
}

func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
