// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
)

// SectionRepository 报告章节仓储实现
type SectionRepository struct {
	client *Client
}

// NewSectionRepository 创建章节仓储
func NewSectionRepository(client *Client) *SectionRepository {
	return &SectionRepository{client: client}
}

var _ repository.SectionRepository = (*SectionRepository)(nil)

// UpsertBatch 批量写入章节，按 (report_id, key) 幂等
func (r *SectionRepository) UpsertBatch(ctx context.Context, sections []*entity.ReportSection) error {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.UpsertBatch")
	defer span.End()

	if len(sections) == 0 {
		return nil
	}

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "report_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "position", "content", "status", "attempts", "updated_at"}),
	}).Create(sections).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert sections: %w", err)
	}
	return nil
}

// ListByReport 获取报告全部章节，按 position 升序
func (r *SectionRepository) ListByReport(ctx context.Context, reportID string) ([]*entity.ReportSection, error) {
	ctx, span := tracer.Start(ctx, "postgres.SectionRepository.ListByReport")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var sections []*entity.ReportSection
	if err := db.Where("report_id = ?", reportID).
		Order("position ASC").
		Find(&sections).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}
