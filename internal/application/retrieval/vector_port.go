package retrieval

import "context"

// VectorRepository 定义应用层对“向量存储/检索”的最小依赖（port）。
// 由基础设施层提供具体实现（例如 Milvus）。
type VectorRepository interface {
	EnsureSegmentsCollection(ctx context.Context) error
	SearchSegments(ctx context.Context, params *VectorSearchParams) ([]*VectorSearchResult, error)
	DeleteSegmentsByReport(ctx context.Context, reportID string) error
	InsertSegments(ctx context.Context, segments []*VectorDocumentSegment) error
}

type VectorSearchParams struct {
	ReportID    string
	CompanyID   string
	QueryVector []float32
	TopK        int
}

type VectorSearchResult struct {
	ID       string
	Distance float32
}

type VectorDocumentSegment struct {
	ID        string
	ReportID  string
	CompanyID string
	SeqNum    int64
	Vector    []float32
}
