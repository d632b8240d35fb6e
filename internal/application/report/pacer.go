// Package report 实现尽调报告的编排生成
package report

import (
	"context"
	"sync"
	"time"
)

// Pacer 控制相邻 LLM 调用之间的节奏。
type Pacer interface {
	// Wait 阻塞直到允许下一次调用，ctx 取消时提前返回其错误
	Wait(ctx context.Context) error
}

// IntervalPacer 最小间隔限速器：保证两次放行间隔不小于 interval。
type IntervalPacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

func (p *IntervalPacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopPacer 零延迟放行，测试用。
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
