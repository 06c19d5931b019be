package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoffWithJitter(t *testing.T) {
	tests := []struct {
		attempts int
		min, max time.Duration
	}{
		{-1, 500 * time.Millisecond, time.Second},
		{0, 500 * time.Millisecond, time.Second},
		{3, 4 * time.Second, 8 * time.Second},
		{40, 15 * time.Minute, 30 * time.Minute},
	}
	for _, tt := range tests {
		for i := 0; i < 50; i++ {
			d := NextBackoffWithJitter(tt.attempts)
			assert.GreaterOrEqual(t, d, tt.min)
			assert.Less(t, d, tt.max)
		}
	}
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, SleepCtx(context.Background(), 0))
	assert.NoError(t, SleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepCtx(ctx, time.Hour), context.Canceled)
}

func TestPgInterval(t *testing.T) {
	assert.Equal(t, "90 seconds", PgInterval(90*time.Second))
}

func TestTrimPtr(t *testing.T) {
	assert.Nil(t, TrimPtr(nil))
	s := "  Standup "
	assert.Equal(t, "Standup", *TrimPtr(&s))
}
