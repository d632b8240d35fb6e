package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
)

const (
	defaultTopK           = 10
	maxTopK               = 50
	defaultEmbeddingBatch = 32
)

// Engine 向量检索引擎：embed query -> ANN 召回 -> 回表取正文。
// embedder 或 vector 未配置时进入降级模式，Search 返回空结果而非错误。
type Engine struct {
	embedder embedding.Embedder
	vector   VectorRepository
	segments repository.SegmentRepository

	topK int
}

func NewEngine(embedder embedding.Embedder, vector VectorRepository, segmentRepo repository.SegmentRepository, topK int) *Engine {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Engine{
		embedder: embedder,
		vector:   vector,
		segments: segmentRepo,
		topK:     topK,
	}
}

func (e *Engine) Enabled() bool {
	return e != nil && e.embedder != nil && e.vector != nil
}

func (e *Engine) ensureReady(ctx context.Context) error {
	if e == nil || e.vector == nil {
		return ErrVectorDisabled
	}
	return e.vector.EnsureSegmentsCollection(ctx)
}

// Search 执行向量检索。召回顺序即引擎返回顺序，不做重排。
// 命中的切片正文缺失时填入占位文本，保证下游上下文拼装不中断。
func (e *Engine) Search(ctx context.Context, in SearchInput) (*SearchOutput, error) {
	in.Query = strings.TrimSpace(in.Query)
	if in.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if in.TopK <= 0 {
		in.TopK = e.topK
	}
	if in.TopK > maxTopK {
		in.TopK = maxTopK
	}

	out := &SearchOutput{}

	if !e.Enabled() {
		out.DisabledReason = ErrVectorDisabled.Error()
		return out, nil
	}
	if err := e.ensureReady(ctx); err != nil {
		out.DisabledReason = err.Error()
		return out, nil
	}

	emb, err := e.embedQuery(ctx, in.Query)
	if err != nil {
		out.DisabledReason = err.Error()
		return out, nil
	}
	if in.IncludeEmbedding {
		out.QueryEmbedding = emb
	}

	results, err := e.vector.SearchSegments(ctx, &VectorSearchParams{
		ReportID:    strings.TrimSpace(in.ReportID),
		CompanyID:   strings.TrimSpace(in.CompanyID),
		QueryVector: emb,
		TopK:        in.TopK,
	})
	if err != nil {
		out.DisabledReason = err.Error()
		return out, nil
	}

	out.Matches = make([]Match, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		id := strings.TrimSpace(r.ID)
		if id == "" {
			continue
		}
		out.Matches = append(out.Matches, Match{
			ID:       id,
			Distance: float64(r.Distance),
			Text:     e.segmentText(ctx, id),
		})
	}
	return out, nil
}

// segmentText 回表取切片正文，取不到时返回占位文本。
func (e *Engine) segmentText(ctx context.Context, id string) string {
	if e.segments != nil {
		seg, err := e.segments.GetByID(ctx, id)
		if err == nil && seg != nil && strings.TrimSpace(seg.Content) != "" {
			return seg.Content
		}
		if err != nil {
			logger.Debug(ctx, "segment text lookup failed", "segment_id", id, "error", err.Error())
		}
	}
	return fmt.Sprintf("[No text found for ID: %s]", id)
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if e == nil || e.embedder == nil {
		return nil, ErrVectorDisabled
	}
	v64, err := e.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(v64) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	vec := v64[0]
	out := make([]float32, 0, len(vec))
	for _, x := range vec {
		out = append(out, float32(x))
	}
	return out, nil
}
