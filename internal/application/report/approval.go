package report

import (
	"context"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

// ApprovalPolicy 报告审批策略。
// 自动审批开关存于系统设置；设置缺失或查询失败一律回退到人工审核。
type ApprovalPolicy struct {
	settings repository.SettingRepository
}

func NewApprovalPolicy(settings repository.SettingRepository) *ApprovalPolicy {
	return &ApprovalPolicy{settings: settings}
}

// AutoApprove 返回当前是否允许自动审批通过。
func (p *ApprovalPolicy) AutoApprove(ctx context.Context) bool {
	if p == nil || p.settings == nil {
		return false
	}
	setting, err := p.settings.Get(ctx, entity.SettingAutoApproveReports)
	if err != nil {
		logger.Warn(ctx, "auto approve setting unavailable, defaulting to manual review",
			"error", err.Error(),
		)
		return false
	}
	if setting == nil {
		logger.Warn(ctx, "auto approve setting missing, defaulting to manual review")
		return false
	}
	return setting.BoolValue()
}
