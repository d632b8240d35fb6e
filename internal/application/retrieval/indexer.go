package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
)

const (
	defaultChunkSizeRunes    = 800
	defaultChunkOverlapRunes = 80
)

// Indexer 将支撑文档切片、向量化并写入向量库与回表存储。
type Indexer struct {
	embedder embedding.Embedder
	vector   VectorRepository
	segments repository.SegmentRepository

	embeddingBatchSize int
	chunkSizeRunes     int
	chunkOverlapRunes  int
}

func NewIndexer(embedder embedding.Embedder, vector VectorRepository, segmentRepo repository.SegmentRepository, embeddingBatchSize int) *Indexer {
	bs := embeddingBatchSize
	if bs <= 0 {
		bs = defaultEmbeddingBatch
	}
	return &Indexer{
		embedder:           embedder,
		vector:             vector,
		segments:           segmentRepo,
		embeddingBatchSize: bs,
		chunkSizeRunes:     defaultChunkSizeRunes,
		chunkOverlapRunes:  defaultChunkOverlapRunes,
	}
}

func (i *Indexer) Enabled() bool {
	return i != nil && i.embedder != nil && i.vector != nil
}

// IndexDocument 重建某报告某来源文档的切片索引。
func (i *Indexer) IndexDocument(ctx context.Context, reportID, companyID, sourceName, text string) (int, error) {
	if strings.TrimSpace(reportID) == "" {
		return 0, fmt.Errorf("report_id is required")
	}
	if !i.Enabled() {
		return 0, ErrVectorDisabled
	}
	if err := i.vector.EnsureSegmentsCollection(ctx); err != nil {
		return 0, err
	}

	if err := i.vector.DeleteSegmentsByReport(ctx, reportID); err != nil {
		return 0, err
	}

	chunks := splitByRunes(text, i.chunkSizeRunes, i.chunkOverlapRunes)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := i.embedBatch(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	segs := make([]*entity.DocumentSegment, 0, len(chunks))
	vecSegs := make([]*VectorDocumentSegment, 0, len(chunks))
	for n, chunk := range chunks {
		id := uuid.New().String()
		segs = append(segs, &entity.DocumentSegment{
			ID:         id,
			ReportID:   reportID,
			CompanyID:  companyID,
			SourceName: sourceName,
			SeqNum:     n,
			Content:    chunk,
		})
		vecSegs = append(vecSegs, &VectorDocumentSegment{
			ID:        id,
			ReportID:  reportID,
			CompanyID: companyID,
			SeqNum:    int64(n),
			Vector:    vectors[n],
		})
	}

	if i.segments != nil {
		if err := i.segments.CreateBatch(ctx, segs); err != nil {
			return 0, err
		}
	}
	if err := i.vector.InsertSegments(ctx, vecSegs); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

func (i *Indexer) embedBatch(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += i.embeddingBatchSize {
		end := start + i.embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		v64, err := i.embedder.EmbedStrings(ctx, chunks[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range v64 {
			v32 := make([]float32, 0, len(vec))
			for _, x := range vec {
				v32 = append(v32, float32(x))
			}
			out = append(out, v32)
		}
	}
	return out, nil
}
