// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
)

// CreateReportRequest 创建报告请求
type CreateReportRequest struct {
	Tier               string `json:"tier,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyType        string `json:"company_type,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	FounderName        string `json:"founder_name,omitempty"`
	Industry           string `json:"industry,omitempty"`
	FundingStage       string `json:"funding_stage,omitempty"`
	PitchDeckText      string `json:"pitch_deck_text,omitempty"`
}

// ReportResponse 报告响应
type ReportResponse struct {
	ID           string `json:"id"`
	Tier         string `json:"tier"`
	CompanyName  string `json:"company_name"`
	FounderName  string `json:"founder_name,omitempty"`
	Industry     string `json:"industry,omitempty"`
	FundingStage string `json:"funding_stage,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

// ReportStatusResponse 报告状态响应
type ReportStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SectionResponse 单章节响应
type SectionResponse struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	Status   string `json:"status"`
	Content  string `json:"content"`
}

// ReportContentResponse 报告内容响应
type ReportContentResponse struct {
	ID       string            `json:"id"`
	Sections map[string]string `json:"sections"`
}

// PDFURLResponse PDF 下载地址响应
type PDFURLResponse struct {
	URL string `json:"url"`
}

// FromReport 实体转响应
func FromReport(r *entity.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:           r.ID,
		Tier:         string(r.Tier),
		CompanyName:  r.CompanyName,
		FounderName:  r.FounderName,
		Industry:     r.Industry,
		FundingStage: r.FundingStage,
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.CompletedAt != nil {
		resp.CompletedAt = r.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
