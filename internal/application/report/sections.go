package report

import (
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
)

// sectionSpec 描述一个章节代理：报告键、模板与摘要上下文中的编号。
type sectionSpec struct {
	Key          entity.SectionKey
	PromptID     workflowprompt.PromptID
	Number       int
	SummaryLabel string
}

// sectionSpecs 六个章节代理的固定声明顺序。
// 并发生成后按该顺序重组，摘要上下文的编号也由此而来。
var sectionSpecs = []sectionSpec{
	{entity.SectionMarket, workflowprompt.PromptMarketV1, 2, "Market Opportunity"},
	{entity.SectionFinancial, workflowprompt.PromptFinancialV1, 3, "Financial Performance"},
	{entity.SectionGTM, workflowprompt.PromptGTMV1, 4, "Go-To-Market Strategy"},
	{entity.SectionLeadership, workflowprompt.PromptLeadershipV1, 5, "Leadership & Team"},
	{entity.SectionInvestorFit, workflowprompt.PromptInvestorFitV1, 6, "Investor Fit"},
	{entity.SectionRecommendations, workflowprompt.PromptRecommendationsV1, 7, "Final Recommendations"},
}
