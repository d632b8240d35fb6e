// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

// ReportRepository 报告仓储实现
type ReportRepository struct {
	client *Client
}

// NewReportRepository 创建报告仓储
func NewReportRepository(client *Client) *ReportRepository {
	return &ReportRepository{client: client}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// Create 创建报告
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(report).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取报告
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var report entity.Report
	if err := db.First(&report, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrReportNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// Update 更新报告
func (r *ReportRepository) Update(ctx context.Context, report *entity.Report) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(report).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// UpdateStatus 更新报告状态
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status entity.ReportStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.UpdateStatus")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Report{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}

// List 分页查询报告
func (r *ReportRepository) List(ctx context.Context, filter *repository.ReportFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Report{})

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Tier != "" {
			query = query.Where("tier = ?", filter.Tier)
		}
		if filter.CompanyName != "" {
			query = query.Where("company_name ILIKE ?", "%"+filter.CompanyName+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []*entity.Report
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&reports).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return repository.NewPagedResult(reports, total, pagination), nil
}
