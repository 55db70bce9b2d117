package utils

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimer_StopReturnsElapsed(t *testing.T) {
	timer := NewTimer("snapshot_build", zerolog.Nop())
	time.Sleep(5 * time.Millisecond)

	duration := timer.Stop()

	assert.GreaterOrEqual(t, duration, 5*time.Millisecond)
}

func TestTimer_StopWithContextReturnsElapsed(t *testing.T) {
	timer := NewTimer("market_revaluation", zerolog.Nop())
	time.Sleep(5 * time.Millisecond)

	duration := timer.StopWithContext(map[string]interface{}{
		"drivers": 20,
		"season":  2031,
	})

	assert.GreaterOrEqual(t, duration, 5*time.Millisecond)
}

func TestTimer_DisabledReturnsZero(t *testing.T) {
	timer := NewTimer("snapshot_build", zerolog.Nop())
	timer.Disable()

	assert.Equal(t, time.Duration(0), timer.Stop())
	assert.Equal(t, time.Duration(0), timer.StopWithContext(nil))
}
