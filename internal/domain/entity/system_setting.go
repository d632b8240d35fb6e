package entity

import (
	"strconv"
	"strings"
	"time"
)

// 设置键
const (
	SettingAutoApproveReports = "auto_approve_reports"
)

// SystemSetting 系统设置项
type SystemSetting struct {
	Key       string    `json:"key" gorm:"type:varchar(128);primaryKey"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (SystemSetting) TableName() string {
	return "system_settings"
}

// BoolValue 将设置值解析为布尔，解析失败返回 false
func (s *SystemSetting) BoolValue() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s.Value))
	if err != nil {
		return false
	}
	return v
}
