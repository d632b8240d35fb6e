// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

// SegmentRepository 文档切片仓储实现
type SegmentRepository struct {
	client *Client
}

// NewSegmentRepository 创建文档切片仓储
func NewSegmentRepository(client *Client) *SegmentRepository {
	return &SegmentRepository{client: client}
}

var _ repository.SegmentRepository = (*SegmentRepository)(nil)

// GetByID 根据切片 ID 获取正文
func (r *SegmentRepository) GetByID(ctx context.Context, id string) (*entity.DocumentSegment, error) {
	ctx, span := tracer.Start(ctx, "postgres.SegmentRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var segment entity.DocumentSegment
	if err := db.First(&segment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeSegmentNotFound, "document segment not found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	return &segment, nil
}

// CreateBatch 批量写入切片，主键冲突时覆盖正文
func (r *SegmentRepository) CreateBatch(ctx context.Context, segments []*entity.DocumentSegment) error {
	ctx, span := tracer.Start(ctx, "postgres.SegmentRepository.CreateBatch")
	defer span.End()

	if len(segments) == 0 {
		return nil
	}

	db := getDB(ctx, r.client.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"report_id", "company_id", "source_name", "seq_num", "content"}),
	}).CreateInBatches(segments, 200).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create segments: %w", err)
	}
	return nil
}

// ListByReport 获取报告关联的全部切片
func (r *SegmentRepository) ListByReport(ctx context.Context, reportID string) ([]*entity.DocumentSegment, error) {
	ctx, span := tracer.Start(ctx, "postgres.SegmentRepository.ListByReport")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var segments []*entity.DocumentSegment
	if err := db.Where("report_id = ?", reportID).
		Order("seq_num ASC").
		Find(&segments).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}
