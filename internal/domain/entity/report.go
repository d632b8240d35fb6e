// Package entity 定义领域实体
package entity

import (
	"time"
)

// ReportStatus 报告状态
type ReportStatus string

const (
	ReportStatusPending        ReportStatus = "pending"
	ReportStatusProcessing     ReportStatus = "processing"
	ReportStatusCompleted      ReportStatus = "completed"
	ReportStatusFailed         ReportStatus = "failed"
	ReportStatusCancelled      ReportStatus = "cancelled"
	ReportStatusReadyForReview ReportStatus = "ready_for_review"
	ReportStatusApproved       ReportStatus = "approved"
)

// ReportTier 报告档位
type ReportTier string

const (
	TierStandard ReportTier = "standard"
	TierPremium  ReportTier = "premium"
)

// Report 尽调报告实体
type Report struct {
	ID                 string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tier               ReportTier   `json:"tier" gorm:"type:varchar(32);default:'standard'"`
	CompanyName        string       `json:"company_name" gorm:"type:varchar(255);index;not null"`
	CompanyType        string       `json:"company_type,omitempty" gorm:"type:varchar(128)"`
	CompanyDescription string       `json:"company_description,omitempty" gorm:"type:text"`
	FounderName        string       `json:"founder_name,omitempty" gorm:"type:varchar(255)"`
	Industry           string       `json:"industry,omitempty" gorm:"type:varchar(128)"`
	FundingStage       string       `json:"funding_stage,omitempty" gorm:"type:varchar(64)"`
	PitchDeckText      string       `json:"pitch_deck_text,omitempty" gorm:"type:text"`
	Status             ReportStatus `json:"status" gorm:"type:varchar(32);index;default:'pending'"`
	ErrorMessage       string       `json:"error_message,omitempty" gorm:"type:text"`
	PDFObjectKey       string       `json:"pdf_object_key,omitempty" gorm:"type:varchar(512)"`
	CreatedAt          time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt          *time.Time   `json:"started_at,omitempty"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}

// NewReport 创建新报告
func NewReport(tier ReportTier, companyName string) *Report {
	now := time.Now()
	if tier == "" {
		tier = TierStandard
	}
	return &Report{
		Tier:        tier,
		CompanyName: companyName,
		Status:      ReportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Start 进入生成中状态
func (r *Report) Start() {
	now := time.Now()
	r.Status = ReportStatusProcessing
	r.StartedAt = &now
}

// Complete 生成完成，按审批策略决定最终状态
func (r *Report) Complete(autoApprove bool) {
	now := time.Now()
	if autoApprove {
		r.Status = ReportStatusApproved
	} else {
		r.Status = ReportStatusReadyForReview
	}
	r.CompletedAt = &now
}

// Fail 生成失败
func (r *Report) Fail(errMsg string) {
	now := time.Now()
	r.Status = ReportStatusFailed
	r.ErrorMessage = errMsg
	r.CompletedAt = &now
}

// Cancel 取消生成
func (r *Report) Cancel() {
	now := time.Now()
	r.Status = ReportStatusCancelled
	r.CompletedAt = &now
}

// Approve 人工审批通过
func (r *Report) Approve() bool {
	if r.Status != ReportStatusReadyForReview && r.Status != ReportStatusCompleted {
		return false
	}
	r.Status = ReportStatusApproved
	return true
}

// IsTerminal 是否处于终态
func (r *Report) IsTerminal() bool {
	switch r.Status {
	case ReportStatusFailed, ReportStatusCancelled, ReportStatusApproved:
		return true
	}
	return false
}
