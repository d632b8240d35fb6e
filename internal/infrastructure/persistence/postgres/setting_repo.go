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

// SettingRepository 系统设置仓储实现
type SettingRepository struct {
	client *Client
}

// NewSettingRepository 创建系统设置仓储
func NewSettingRepository(client *Client) *SettingRepository {
	return &SettingRepository{client: client}
}

var _ repository.SettingRepository = (*SettingRepository)(nil)

// Get 获取设置项，不存在时返回 ErrSettingNotFound
func (r *SettingRepository) Get(ctx context.Context, key string) (*entity.SystemSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var setting entity.SystemSetting
	if err := db.First(&setting, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrSettingNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

// Set 写入设置项
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingRepository.Set")
	defer span.End()

	db := getDB(ctx, r.client.db)
	setting := &entity.SystemSetting{Key: key, Value: value}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
