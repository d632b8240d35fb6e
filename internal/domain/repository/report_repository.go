// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
)

// ReportFilter 报告过滤条件
type ReportFilter struct {
	Status      entity.ReportStatus
	Tier        entity.ReportTier
	CompanyName string
}

// ReportRepository 报告仓储接口
type ReportRepository interface {
	// Create 创建报告
	Create(ctx context.Context, report *entity.Report) error

	// GetByID 根据 ID 获取报告
	GetByID(ctx context.Context, id string) (*entity.Report, error)

	// Update 更新报告
	Update(ctx context.Context, report *entity.Report) error

	// UpdateStatus 更新报告状态
	UpdateStatus(ctx context.Context, id string, status entity.ReportStatus) error

	// List 分页查询报告
	List(ctx context.Context, filter *ReportFilter, pagination Pagination) (*PagedResult[*entity.Report], error)
}

// SectionRepository 报告章节仓储接口
type SectionRepository interface {
	// UpsertBatch 批量写入章节，按 (report_id, key) 幂等
	UpsertBatch(ctx context.Context, sections []*entity.ReportSection) error

	// ListByReport 获取报告全部章节，按 position 升序
	ListByReport(ctx context.Context, reportID string) ([]*entity.ReportSection, error)
}

// JobRepository 报告生成任务仓储接口
type JobRepository interface {
	// Create 创建任务
	Create(ctx context.Context, job *entity.ReportJob) error

	// GetByID 根据 ID 获取任务
	GetByID(ctx context.Context, id string) (*entity.ReportJob, error)

	// Update 更新任务
	Update(ctx context.Context, job *entity.ReportJob) error

	// GetPendingJobs 获取待处理任务
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.ReportJob, error)
}

// SettingRepository 系统设置仓储接口
type SettingRepository interface {
	// Get 获取设置项，不存在时返回 errors.ErrSettingNotFound
	Get(ctx context.Context, key string) (*entity.SystemSetting, error)

	// Set 写入设置项
	Set(ctx context.Context, key, value string) error
}

// SegmentRepository 文档切片仓储接口
type SegmentRepository interface {
	// GetByID 根据切片 ID 获取正文
	GetByID(ctx context.Context, id string) (*entity.DocumentSegment, error)

	// CreateBatch 批量写入切片
	CreateBatch(ctx context.Context, segments []*entity.DocumentSegment) error

	// ListByReport 获取报告关联的全部切片
	ListByReport(ctx context.Context, reportID string) ([]*entity.DocumentSegment, error)
}
