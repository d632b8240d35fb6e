package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/metrics"
)

// SectionResult 章节生成的标记结果。下游按 Status 分流，
// 不再靠内容字符串嗅探成败。
type SectionResult struct {
	Key         entity.SectionKey
	DisplayName string
	Status      entity.SectionStatus
	Content     string
	Attempts    int
	Err         error
}

// FailureSentinel 章节生成失败时写入正文的占位文本。
func FailureSentinel(displayName string) string {
	return fmt.Sprintf("Error generating %s.", displayName)
}

// Retrier 章节级重试执行器。
// 规则：
//   - 最多 MaxAttempts 次尝试，重试间隔为 RetryDelay 乘以已失败次数；
//   - 每次调用前经过 Pacer 限速；
//   - 单次调用受 CallTimeout 约束，超时视为可重试；
//   - 提示词契约错误不重试，直接判失败；
//   - 请求级 ctx 取消立即返回 cancelled 状态。
type Retrier struct {
	MaxAttempts int
	RetryDelay  time.Duration
	CallTimeout time.Duration
	Pacer       Pacer

	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier(maxAttempts int, retryDelay, callTimeout time.Duration, pacer Pacer) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if pacer == nil {
		pacer = NopPacer{}
	}
	return &Retrier{
		MaxAttempts: maxAttempts,
		RetryDelay:  retryDelay,
		CallTimeout: callTimeout,
		Pacer:       pacer,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Generate 执行带重试的单章节生成。
func (r *Retrier) Generate(ctx context.Context, key entity.SectionKey, call func(ctx context.Context) (string, error)) SectionResult {
	res := SectionResult{
		Key:         key,
		DisplayName: key.Title(),
	}

	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return r.finish(cancelledResult(res, attempt-1, err))
		}
		if err := r.Pacer.Wait(ctx); err != nil {
			return r.finish(cancelledResult(res, attempt-1, err))
		}

		callCtx := ctx
		cancel := func() {}
		if r.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.CallTimeout)
		}
		content, err := call(callCtx)
		cancel()

		if err == nil {
			res.Status = entity.SectionStatusGenerated
			res.Content = content
			res.Attempts = attempt
			logger.Info(ctx, "section generated",
				"section", string(key),
				"attempt", attempt,
			)
			return r.finish(res)
		}
		lastErr = err

		// 请求级取消优先于一切错误分类
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r.finish(cancelledResult(res, attempt, ctxErr))
		}

		// 契约错误由调用方修正，重试无意义
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodePromptContract {
			logger.Error(ctx, "section prompt contract violated, not retrying", err,
				"section", string(key),
				"attempt", attempt,
			)
			res.Status = entity.SectionStatusFailed
			res.Content = FailureSentinel(res.DisplayName)
			res.Attempts = attempt
			res.Err = err
			return r.finish(res)
		}

		logger.Warn(ctx, "section generation attempt failed",
			"section", string(key),
			"attempt", attempt,
			"error", err.Error(),
		)
		if attempt < r.MaxAttempts {
			if err := r.sleep(ctx, r.RetryDelay*time.Duration(attempt)); err != nil {
				return r.finish(cancelledResult(res, attempt, err))
			}
		}
	}

	logger.Error(ctx, "all section generation attempts failed", lastErr,
		"section", string(key),
		"attempts", r.MaxAttempts,
	)
	res.Status = entity.SectionStatusFailed
	res.Content = FailureSentinel(res.DisplayName)
	res.Attempts = r.MaxAttempts
	res.Err = lastErr
	return r.finish(res)
}

func cancelledResult(res SectionResult, attempts int, err error) SectionResult {
	res.Status = entity.SectionStatusCancelled
	res.Attempts = attempts
	res.Err = err
	return res
}

func (r *Retrier) finish(res SectionResult) SectionResult {
	metrics.SectionGenerationTotal.WithLabelValues(string(res.Key), string(res.Status)).Inc()
	if res.Attempts > 0 {
		metrics.SectionRetryAttempts.WithLabelValues(string(res.Key)).Observe(float64(res.Attempts))
	}
	return res
}
