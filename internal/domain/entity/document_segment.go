package entity

import (
	"time"
)

// DocumentSegment 支撑文档切片，向量检索命中后回表取正文
type DocumentSegment struct {
	ID         string    `json:"id" gorm:"type:varchar(128);primaryKey"`
	ReportID   string    `json:"report_id,omitempty" gorm:"type:uuid;index"`
	CompanyID  string    `json:"company_id,omitempty" gorm:"type:varchar(128);index"`
	SourceName string    `json:"source_name,omitempty" gorm:"type:varchar(255)"`
	SeqNum     int       `json:"seq_num" gorm:"default:0"`
	Content    string    `json:"content" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (DocumentSegment) TableName() string {
	return "document_segments"
}
