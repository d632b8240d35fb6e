package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	workflowport "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/port"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

// SectionChain 单轮章节生成链：模板格式化 -> 一次 Generate 调用。
type SectionChain struct {
	factory workflowport.ChatModelFactory
}

func NewSectionChain(factory workflowport.ChatModelFactory) *SectionChain {
	return &SectionChain{factory: factory}
}

func (c *SectionChain) Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Provider) == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if in.PromptID == "" {
		return nil, fmt.Errorf("prompt id is required")
	}

	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatSectionMessages(ctx, in.PromptID, in.Vars)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildSectionModelOptions(in)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}
	return outMsg, nil
}

var sectionPromptRegistry = workflowprompt.NewRegistry()

// formatSectionMessages 格式化模板。占位符缺失属于调用方契约错误，
// 包装为 CodePromptContract 以便上层跳过重试。
func formatSectionMessages(ctx context.Context, id workflowprompt.PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := sectionPromptRegistry.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	if vars == nil {
		vars = map[string]any{}
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePromptContract, "prompt variable missing")
	}
	return msgs, nil
}

func buildSectionModelOptions(in *wfmodel.SectionGenerateInput) []model.Option {
	opts := make([]model.Option, 0, 3)
	if in == nil {
		return opts
	}
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}
	return opts
}
