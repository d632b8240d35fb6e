package entity

import (
	"time"
)

// SectionKey 报告章节键
type SectionKey string

const (
	SectionExecutiveSummary SectionKey = "executive_summary_investment_rationale"
	SectionMarket           SectionKey = "market_opportunity_competitive_landscape"
	SectionFinancial        SectionKey = "financial_performance_investment_readiness"
	SectionGTM              SectionKey = "go_to_market_strategy_customer_traction"
	SectionLeadership       SectionKey = "leadership_team"
	SectionInvestorFit      SectionKey = "investor_fit_exit_strategy_funding"
	SectionRecommendations  SectionKey = "final_recommendations_next_steps"
)

// sectionTitles 章节展示名
var sectionTitles = map[SectionKey]string{
	SectionExecutiveSummary: "Executive Summary & Investment Rationale",
	SectionMarket:           "Market Opportunity & Competitive Landscape",
	SectionFinancial:        "Financial Performance & Investment Readiness",
	SectionGTM:              "Go-To-Market (GTM) Strategy & Customer Traction",
	SectionLeadership:       "Leadership & Team",
	SectionInvestorFit:      "Investor Fit, Exit Strategy & Funding Narrative",
	SectionRecommendations:  "Final Recommendations & Next Steps",
}

// Title 返回章节展示名
func (k SectionKey) Title() string {
	if t, ok := sectionTitles[k]; ok {
		return t
	}
	return string(k)
}

// OrderedSectionKeys 报告中章节的固定顺序
func OrderedSectionKeys() []SectionKey {
	return []SectionKey{
		SectionExecutiveSummary,
		SectionMarket,
		SectionFinancial,
		SectionGTM,
		SectionLeadership,
		SectionInvestorFit,
		SectionRecommendations,
	}
}

// SectionStatus 章节生成结果状态
type SectionStatus string

const (
	SectionStatusGenerated SectionStatus = "generated"
	SectionStatusFailed    SectionStatus = "failed"
	SectionStatusCancelled SectionStatus = "cancelled"
)

// ReportSection 报告章节实体
type ReportSection struct {
	ID        string        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportID  string        `json:"report_id" gorm:"type:uuid;index;not null"`
	Key       SectionKey    `json:"key" gorm:"type:varchar(64);not null;uniqueIndex:idx_report_section_key,composite:report_id"`
	Title     string        `json:"title" gorm:"type:varchar(255)"`
	Position  int           `json:"position" gorm:"not null"`
	Content   string        `json:"content,omitempty" gorm:"type:text"`
	Status    SectionStatus `json:"status" gorm:"type:varchar(32);default:'generated'"`
	Attempts  int           `json:"attempts" gorm:"default:1"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (ReportSection) TableName() string {
	return "report_sections"
}
