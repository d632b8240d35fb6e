package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

func newTestRetrier(maxAttempts int, retryDelay time.Duration) (*Retrier, *[]time.Duration) {
	slept := make([]time.Duration, 0, maxAttempts)
	r := NewRetrier(maxAttempts, retryDelay, 0, NopPacer{})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return r, &slept
}

func TestRetrierGenerateSuccessFirstAttempt(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	calls := 0
	res := r.Generate(context.Background(), entity.SectionMarket, func(ctx context.Context) (string, error) {
		calls++
		return "market analysis", nil
	})

	assert.Equal(t, entity.SectionStatusGenerated, res.Status)
	assert.Equal(t, "market analysis", res.Content)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, calls)
	assert.NoError(t, res.Err)
	assert.Empty(t, *slept)
}

func TestRetrierGenerateRetriesWithBackoff(t *testing.T) {
	r, slept := newTestRetrier(3, time.Second)

	calls := 0
	res := r.Generate(context.Background(), entity.SectionFinancial, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient upstream error")
		}
		return "financial analysis", nil
	})

	require.Equal(t, entity.SectionStatusGenerated, res.Status)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "financial analysis", res.Content)
	// 第 n 次失败后的等待为 RetryDelay*n
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestRetrierGenerateExhaustedWritesSentinel(t *testing.T) {
	r, _ := newTestRetrier(3, 0)

	calls := 0
	res := r.Generate(context.Background(), entity.SectionGTM, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("still broken")
	})

	assert.Equal(t, entity.SectionStatusFailed, res.Status)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "Error generating Go-To-Market (GTM) Strategy & Customer Traction.", res.Content)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "still broken")
}

func TestRetrierGeneratePromptContractNotRetried(t *testing.T) {
	r, slept := newTestRetrier(5, time.Second)

	calls := 0
	res := r.Generate(context.Background(), entity.SectionLeadership, func(ctx context.Context) (string, error) {
		calls++
		return "", apperrors.New(apperrors.CodePromptContract, "prompt variable missing")
	})

	assert.Equal(t, entity.SectionStatusFailed, res.Status)
	assert.Equal(t, 1, calls, "contract errors must not be retried")
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, FailureSentinel(entity.SectionLeadership.Title()), res.Content)
	assert.Empty(t, *slept)
}

func TestRetrierGenerateCancelledBeforeFirstCall(t *testing.T) {
	r, _ := newTestRetrier(3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Generate(ctx, entity.SectionInvestorFit, func(ctx context.Context) (string, error) {
		t.Fatal("call must not run after cancellation")
		return "", nil
	})

	assert.Equal(t, entity.SectionStatusCancelled, res.Status)
	assert.Equal(t, 0, res.Attempts)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRetrierGenerateCancelledMidFlight(t *testing.T) {
	r, _ := newTestRetrier(3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	res := r.Generate(ctx, entity.SectionRecommendations, func(ctx context.Context) (string, error) {
		cancel()
		return "", errors.New("interrupted")
	})

	assert.Equal(t, entity.SectionStatusCancelled, res.Status)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, res.Content)
}

func TestRetrierGenerateTimeoutIsRetryable(t *testing.T) {
	r := NewRetrier(2, 0, 10*time.Millisecond, NopPacer{})
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }

	calls := 0
	res := r.Generate(context.Background(), entity.SectionMarket, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "recovered", nil
	})

	assert.Equal(t, entity.SectionStatusGenerated, res.Status)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, "recovered", res.Content)
}

func TestFailureSentinelFormat(t *testing.T) {
	assert.Equal(t, "Error generating Leadership & Team.", FailureSentinel("Leadership & Team"))
}
