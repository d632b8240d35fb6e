package model

import (
	"time"

	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
)

// LLMUsageMeta LLM 调用的用量元数据
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Temperature      float64
	GeneratedAt      time.Time
}

// SectionGenerateInput 单个报告章节的生成输入
type SectionGenerateInput struct {
	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
	PromptID    workflowprompt.PromptID
	// Vars 按模板占位符传入，缺失占位符由模板格式化阶段报错
	Vars map[string]any
}

// ProfileExtractInput 结构化画像抽取输入
type ProfileExtractInput struct {
	Provider     string
	Model        string
	DocumentText string
}

// StartupProfile 结构化创业公司画像，键限定为声明字段
type StartupProfile map[string]any

// ProfileFields 画像声明字段集合
var ProfileFields = []string{
	"company_name",
	"industry",
	"funding_stage",
	"company_description",
	"founder_name",
	"company_type",
	"location",
	"website",
}
