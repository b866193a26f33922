// Package roblox wraps the place-ban API. The real moderation endpoint was
// never integrated; the stub preserves the caller-facing contract (latency
// plus success) so the command path is exercised end to end.
package roblox

import (
	"context"
	"log/slog"
	"time"

	dErrors "consulate/pkg/domain-errors"
)

// Banner executes a place ban for a roblox username.
type Banner interface {
	BanFromPlace(ctx context.Context, robloxUsername, placeID, reason string) error
}

// StubClient simulates the ban API call: it waits for the configured
// latency and reports success. Swap in a real client here once the
// moderation API ships.
type StubClient struct {
	apiKey  string
	latency time.Duration
	logger  *slog.Logger
}

// StubOption configures the stub.
type StubOption func(*StubClient)

// WithLatency overrides the simulated call latency.
func WithLatency(d time.Duration) StubOption {
	return func(c *StubClient) { c.latency = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StubOption {
	return func(c *StubClient) { c.logger = l }
}

// NewStub creates the stub client. The api key is accepted and ignored so
// configuration stays forward compatible.
func NewStub(apiKey string, opts ...StubOption) *StubClient {
	c := &StubClient{
		apiKey:  apiKey,
		latency: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BanFromPlace simulates the ban.
//
// Errors: CodeBadRequest for missing username or place id, ctx.Err() if
// the context ends before the simulated call completes.
func (c *StubClient) BanFromPlace(ctx context.Context, robloxUsername, placeID, reason string) error {
	if robloxUsername == "" {
		return dErrors.New(dErrors.CodeBadRequest, "roblox username is required")
	}
	if placeID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "place id is required")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.latency):
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "simulated place ban",
			"roblox_username", robloxUsername,
			"place_id", placeID,
			"reason", reason,
		)
	}
	return nil
}
