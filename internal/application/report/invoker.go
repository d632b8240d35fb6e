package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guygrubbs/dap-deploy-sub000/internal/workflow/chain"
	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/metrics"
)

// ChainInvoker 将章节生成链适配为编排层依赖，并沿途记录用量指标。
type ChainInvoker struct {
	chain    *chain.SectionChain
	provider string
}

func NewChainInvoker(c *chain.SectionChain, provider string) *ChainInvoker {
	return &ChainInvoker{chain: c, provider: provider}
}

func (a *ChainInvoker) Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (string, error) {
	if a == nil || a.chain == nil {
		return "", fmt.Errorf("section chain not configured")
	}

	start := time.Now()
	msg, err := a.chain.Invoke(ctx, in)
	modelName := in.Model
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(a.provider, modelName, "error").Inc()
		return "", err
	}
	metrics.LLMCallTotal.WithLabelValues(a.provider, modelName, "success").Inc()
	metrics.LLMCallDuration.WithLabelValues(a.provider, modelName).Observe(time.Since(start).Seconds())
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		usage := msg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(a.provider, modelName, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(a.provider, modelName, "completion").Add(float64(usage.CompletionTokens))
	}
	return strings.TrimSpace(msg.Content), nil
}

// ProfileInvoker 将画像抽取链适配为应用服务依赖。
type ProfileInvoker struct {
	chain    *chain.ProfileChain
	provider string
}

func NewProfileInvoker(c *chain.ProfileChain, provider string) *ProfileInvoker {
	return &ProfileInvoker{chain: c, provider: provider}
}

func (a *ProfileInvoker) Extract(ctx context.Context, documentText string) (wfmodel.StartupProfile, error) {
	if a == nil || a.chain == nil {
		return wfmodel.StartupProfile{}, nil
	}
	profile, _, err := a.chain.Invoke(ctx, &wfmodel.ProfileExtractInput{
		Provider:     a.provider,
		DocumentText: documentText,
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
