package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	"github.com/guygrubbs/dap-deploy-sub000/internal/workflow/node"
	workflowport "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/port"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

// ProfileChain 结构化画像抽取链。模型输出不可解析时返回空画像而非错误，
// 上游管线不因画像缺失而中断。
type ProfileChain struct {
	factory workflowport.ChatModelFactory
}

func NewProfileChain(factory workflowport.ChatModelFactory) *ProfileChain {
	return &ProfileChain{factory: factory}
}

// Invoke 调用模型并解析画像。返回的 error 仅覆盖传输层失败，
// 解析失败降级为空画像。
func (c *ProfileChain) Invoke(ctx context.Context, in *wfmodel.ProfileExtractInput) (wfmodel.StartupProfile, *schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Provider) == "" {
		return nil, nil, fmt.Errorf("provider is required")
	}

	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, nil, err
	}

	msgs, err := formatSectionMessages(ctx, workflowprompt.PromptStartupProfileV1, map[string]any{
		"document_text": in.DocumentText,
	})
	if err != nil {
		return nil, nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, nil, err
	}

	profile := ParseStartupProfile(ctx, outMsg.Content)
	return profile, outMsg, nil
}

// ParseStartupProfile 从模型输出解析画像：截取首个 JSON 对象，
// 丢弃未声明字段，并对全部字符串叶子做递归清洗。
// 任何解析失败都返回空画像。
func ParseStartupProfile(ctx context.Context, rawText string) wfmodel.StartupProfile {
	profile := wfmodel.StartupProfile{}

	jsonText := node.ExtractJSONObject(rawText)
	if strings.TrimSpace(jsonText) == "" {
		logger.Warn(ctx, "startup profile output empty, returning empty profile")
		return profile
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		logger.Warn(ctx, "startup profile output not parseable, returning empty profile",
			"error", err.Error(),
		)
		return profile
	}

	for _, field := range wfmodel.ProfileFields {
		v, ok := parsed[field]
		if !ok {
			continue
		}
		profile[field] = node.CleanseValue(v)
	}
	return profile
}
