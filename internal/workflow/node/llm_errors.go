package node

import (
	"context"
	"errors"
	"strings"
)

// IsTimeoutError 判断是否为单次调用超时。
// 注意与请求级取消区分：取消由调用方 context 决定。
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsRetryableLLMError 判断 LLM 调用错误是否值得重试。
// 超时、限流和服务端瞬时故障可重试，其余交由上层决定。
func IsRetryableLLMError(err error) bool {
	if err == nil {
		return false
	}
	if IsTimeoutError(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return true
	case strings.Contains(msg, "429"):
		return true
	case strings.Contains(msg, "timeout"):
		return true
	case strings.Contains(msg, "temporarily unavailable"):
		return true
	case strings.Contains(msg, "502"), strings.Contains(msg, "503"):
		return true
	default:
		return false
	}
}
