package roblox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consulate/pkg/domain-errors"
)

func TestBanSucceedsAfterLatency(t *testing.T) {
	c := NewStub("key", WithLatency(time.Millisecond))

	start := time.Now()
	err := c.BanFromPlace(context.Background(), "islander42", "12345", "exploiting")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestBanValidatesInput(t *testing.T) {
	c := NewStub("key", WithLatency(time.Millisecond))
	ctx := context.Background()

	err := c.BanFromPlace(ctx, "", "12345", "r")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	err = c.BanFromPlace(ctx, "islander42", "", "r")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestBanHonorsContextCancellation(t *testing.T) {
	c := NewStub("key", WithLatency(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := c.BanFromPlace(ctx, "islander42", "12345", "r")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
