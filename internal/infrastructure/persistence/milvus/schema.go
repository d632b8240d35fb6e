// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionDocumentSegments 支撑文档片段集合
	CollectionDocumentSegments = "document_segments"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// DocumentSegmentsSchema 支撑文档片段 Collection Schema。
// 片段正文存于 Postgres，这里只保留向量与检索过滤所需的标量字段。
func DocumentSegmentsSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionDocumentSegments,
		Description:    "Pitch deck and supporting document segments for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "report_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "company_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "255",
				},
			},
			{
				Name:     "seq_num",
				DataType: entity.FieldTypeInt64,
			},
		},
	}
}

// DocumentSegment 文档片段向量数据结构
type DocumentSegment struct {
	ID        string    `json:"id"`
	Vector    []float32 `json:"vector"`
	ReportID  string    `json:"report_id"`
	CompanyID string    `json:"company_id"`
	SeqNum    int64     `json:"seq_num"`
}
