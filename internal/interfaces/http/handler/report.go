// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	"github.com/guygrubbs/dap-deploy-sub000/internal/infrastructure/persistence/redis"
	"github.com/guygrubbs/dap-deploy-sub000/internal/interfaces/http/dto"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

const reportCacheTTL = 30 * time.Second

// ReportHandler 报告处理器
type ReportHandler struct {
	service *report.Service
	reports repository.ReportRepository
	cache   *redis.Cache
}

// NewReportHandler 创建报告处理器
func NewReportHandler(service *report.Service, reports repository.ReportRepository, cache *redis.Cache) *ReportHandler {
	return &ReportHandler{
		service: service,
		reports: reports,
		cache:   cache,
	}
}

// respondAppError 按 AppError 映射 HTTP 状态
func respondAppError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.HTTPStatus,
			Message: appErr.Message,
			Error: &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			},
			TraceID: c.GetString("trace_id"),
		})
		return
	}
	logger.Error(c.Request.Context(), fallback, err)
	dto.InternalError(c, fallback)
}

// CreateReport 创建报告
// @Summary 创建报告
// @Description 创建尽调报告并投递后台生成任务
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.CreateReportRequest true "创建参数"
// @Success 202 {object} dto.Response[dto.ReportResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(ctx, report.CreateInput{
		Tier:               entity.ReportTier(req.Tier),
		CompanyName:        req.CompanyName,
		CompanyType:        req.CompanyType,
		CompanyDescription: req.CompanyDescription,
		FounderName:        req.FounderName,
		Industry:           req.Industry,
		FundingStage:       req.FundingStage,
		PitchDeckText:      req.PitchDeckText,
	})
	if err != nil {
		respondAppError(c, err, "failed to create report")
		return
	}

	dto.Accepted(c, dto.FromReport(created))
}

// GetReport 获取报告详情
// @Summary 获取报告详情
// @Tags Reports
// @Produce json
// @Param id path string true "报告 ID"
// @Success 200 {object} dto.Response[dto.ReportResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	ctx := c.Request.Context()
	reportID := dto.BindReportID(c)

	rep, err := h.service.Get(ctx, reportID)
	if err != nil {
		respondAppError(c, err, "failed to get report")
		return
	}

	dto.Success(c, dto.FromReport(rep))
}

// GetStatus 获取报告状态
// @Summary 获取报告状态
// @Tags Reports
// @Produce json
// @Param id path string true "报告 ID"
// @Success 200 {object} dto.Response[dto.ReportStatusResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/reports/{id}/status [get]
func (h *ReportHandler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	reportID := dto.BindReportID(c)

	rep, err := h.service.Get(ctx, reportID)
	if err != nil {
		respondAppError(c, err, "failed to get report status")
		return
	}

	dto.Success(c, &dto.ReportStatusResponse{
		ID:     rep.ID,
		Status: string(rep.Status),
	})
}

// GetContent 获取报告内容
// @Summary 获取报告内容
// @Description 返回全部章节键到 Markdown 内容的映射
// @Tags Reports
// @Produce json
// @Param id path string true "报告 ID"
// @Success 200 {object} dto.Response[dto.ReportContentResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/reports/{id}/content [get]
func (h *ReportHandler) GetContent(c *gin.Context) {
	ctx := c.Request.Context()
	reportID := dto.BindReportID(c)

	if _, err := h.service.Get(ctx, reportID); err != nil {
		respondAppError(c, err, "failed to get report")
		return
	}

	resp, err := h.loadContent(c, reportID)
	if err != nil {
		respondAppError(c, err, "failed to get report content")
		return
	}

	dto.Success(c, resp)
}

// loadContent 内容读取走缓存，终态报告的内容不再变化
func (h *ReportHandler) loadContent(c *gin.Context, reportID string) (*dto.ReportContentResponse, error) {
	ctx := c.Request.Context()

	build := func() (interface{}, error) {
		content, err := h.service.Content(ctx, reportID)
		if err != nil {
			return nil, err
		}
		sections := make(map[string]string, len(content))
		for key, text := range content {
			sections[string(key)] = text
		}
		return &dto.ReportContentResponse{
			ID:       reportID,
			Sections: sections,
		}, nil
	}

	if h.cache == nil {
		out, err := build()
		if err != nil {
			return nil, err
		}
		return out.(*dto.ReportContentResponse), nil
	}

	raw, err := h.cache.GetOrLoadSafe(ctx, redis.ReportContentKey(reportID), reportCacheTTL, build)
	if err != nil {
		return nil, err
	}
	var resp dto.ReportContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListReports 分页查询报告
// @Summary 分页查询报告
// @Tags Reports
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态过滤"
// @Success 200 {object} dto.Response[[]dto.ReportResponse]
// @Router /v1/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	ctx := c.Request.Context()
	page := dto.BindPage(c)

	filter := &repository.ReportFilter{
		Status:      entity.ReportStatus(c.Query("status")),
		Tier:        entity.ReportTier(c.Query("tier")),
		CompanyName: c.Query("company_name"),
	}

	result, err := h.reports.List(ctx, filter, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, err, "failed to list reports")
		return
	}

	items := make([]*dto.ReportResponse, 0, len(result.Items))
	for _, rep := range result.Items {
		items = append(items, dto.FromReport(rep))
	}

	dto.SuccessWithPage(c, items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// ApproveReport 人工审批通过
// @Summary 审批报告
// @Tags Reports
// @Produce json
// @Param id path string true "报告 ID"
// @Success 200 {object} dto.Response[dto.ReportResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/reports/{id}/approve [post]
func (h *ReportHandler) ApproveReport(c *gin.Context) {
	ctx := c.Request.Context()
	reportID := dto.BindReportID(c)

	rep, err := h.service.Approve(ctx, reportID)
	if err != nil {
		respondAppError(c, err, "failed to approve report")
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateReport(ctx, reportID); err != nil {
			logger.Warn(ctx, "failed to invalidate report cache", "report_id", reportID, "error", err.Error())
		}
	}

	dto.Success(c, dto.FromReport(rep))
}

// GetPDFURL 获取 PDF 下载地址
// @Summary 获取 PDF 下载地址
// @Tags Reports
// @Produce json
// @Param id path string true "报告 ID"
// @Success 200 {object} dto.Response[dto.PDFURLResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/reports/{id}/pdf-url [get]
func (h *ReportHandler) GetPDFURL(c *gin.Context) {
	ctx := c.Request.Context()
	reportID := dto.BindReportID(c)

	url, err := h.service.PDFURL(ctx, reportID)
	if err != nil {
		respondAppError(c, err, "failed to get pdf url")
		return
	}

	dto.Success(c, &dto.PDFURLResponse{URL: url})
}
