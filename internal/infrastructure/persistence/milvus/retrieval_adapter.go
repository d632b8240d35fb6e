package milvus

import (
	"context"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/retrieval"
)

type RetrievalVectorRepository struct {
	repo *Repository
}

func NewRetrievalVectorRepository(repo *Repository) *RetrievalVectorRepository {
	return &RetrievalVectorRepository{repo: repo}
}

var _ retrieval.VectorRepository = (*RetrievalVectorRepository)(nil)

func (r *RetrievalVectorRepository) EnsureSegmentsCollection(ctx context.Context) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	return r.repo.EnsureDocumentSegmentsCollection(ctx)
}

func (r *RetrievalVectorRepository) SearchSegments(ctx context.Context, params *retrieval.VectorSearchParams) ([]*retrieval.VectorSearchResult, error) {
	if r == nil || r.repo == nil {
		return nil, retrieval.ErrVectorDisabled
	}
	if params == nil {
		return nil, nil
	}

	out, err := r.repo.SearchSegments(ctx, &SearchParams{
		ReportID:    params.ReportID,
		CompanyID:   params.CompanyID,
		QueryVector: params.QueryVector,
		TopK:        params.TopK,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*retrieval.VectorSearchResult, 0, len(out))
	for i := range out {
		v := out[i]
		if v == nil {
			continue
		}
		results = append(results, &retrieval.VectorSearchResult{
			ID:       v.ID,
			Distance: v.Distance,
		})
	}
	return results, nil
}

func (r *RetrievalVectorRepository) DeleteSegmentsByReport(ctx context.Context, reportID string) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	return r.repo.DeleteSegmentsByReport(ctx, reportID)
}

func (r *RetrievalVectorRepository) InsertSegments(ctx context.Context, segments []*retrieval.VectorDocumentSegment) error {
	if r == nil || r.repo == nil {
		return retrieval.ErrVectorDisabled
	}
	if len(segments) == 0 {
		return nil
	}

	out := make([]*DocumentSegment, 0, len(segments))
	for i := range segments {
		s := segments[i]
		if s == nil {
			continue
		}
		out = append(out, &DocumentSegment{
			ID:        s.ID,
			ReportID:  s.ReportID,
			CompanyID: s.CompanyID,
			SeqNum:    s.SeqNum,
			Vector:    s.Vector,
		})
	}
	return r.repo.InsertSegments(ctx, out)
}
