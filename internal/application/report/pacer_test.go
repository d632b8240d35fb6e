package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacerEnforcesMinimumSpacing(t *testing.T) {
	p := NewIntervalPacer(20 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	elapsed := time.Since(start)

	// 三次放行至少需要两个完整间隔
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestIntervalPacerZeroIntervalNeverBlocks(t *testing.T) {
	p := NewIntervalPacer(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestIntervalPacerRespectsCancellation(t *testing.T) {
	p := NewIntervalPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Wait(ctx))

	cancel()
	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNopPacerPassesThroughContextError(t *testing.T) {
	assert.NoError(t, NopPacer{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NopPacer{}.Wait(ctx), context.Canceled)
}
