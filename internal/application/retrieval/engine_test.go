package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

type fakeEmbedder struct {
	err   error
	calls [][]string
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeVectorRepo struct {
	ensureErr  error
	searchErr  error
	results    []*VectorSearchResult
	lastParams *VectorSearchParams
	inserted   []*VectorDocumentSegment
	deleted    []string
}

func (f *fakeVectorRepo) EnsureSegmentsCollection(ctx context.Context) error {
	return f.ensureErr
}

func (f *fakeVectorRepo) SearchSegments(ctx context.Context, params *VectorSearchParams) ([]*VectorSearchResult, error) {
	f.lastParams = params
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeVectorRepo) DeleteSegmentsByReport(ctx context.Context, reportID string) error {
	f.deleted = append(f.deleted, reportID)
	return nil
}

func (f *fakeVectorRepo) InsertSegments(ctx context.Context, segments []*VectorDocumentSegment) error {
	f.inserted = append(f.inserted, segments...)
	return nil
}

type fakeSegments struct {
	texts map[string]string
}

func (f *fakeSegments) GetByID(ctx context.Context, id string) (*entity.DocumentSegment, error) {
	text, ok := f.texts[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeSegmentNotFound, "document segment not found")
	}
	return &entity.DocumentSegment{ID: id, Content: text}, nil
}

func (f *fakeSegments) CreateBatch(ctx context.Context, segments []*entity.DocumentSegment) error {
	if f.texts == nil {
		f.texts = make(map[string]string)
	}
	for _, seg := range segments {
		f.texts[seg.ID] = seg.Content
	}
	return nil
}

func (f *fakeSegments) ListByReport(ctx context.Context, reportID string) ([]*entity.DocumentSegment, error) {
	return nil, nil
}

func TestEngineSearchDisabledWithoutEmbedder(t *testing.T) {
	e := NewEngine(nil, &fakeVectorRepo{}, &fakeSegments{}, 10)
	assert.False(t, e.Enabled())

	out, err := e.Search(context.Background(), SearchInput{Query: "growth"})
	require.NoError(t, err)
	assert.Empty(t, out.Matches)
	assert.Equal(t, ErrVectorDisabled.Error(), out.DisabledReason)
}

func TestEngineSearchRequiresQuery(t *testing.T) {
	e := NewEngine(&fakeEmbedder{}, &fakeVectorRepo{}, &fakeSegments{}, 10)
	_, err := e.Search(context.Background(), SearchInput{Query: "   "})
	assert.Error(t, err)
}

func TestEngineSearchHappyPathPreservesOrder(t *testing.T) {
	vector := &fakeVectorRepo{results: []*VectorSearchResult{
		{ID: "seg-2", Distance: 0.4},
		{ID: "seg-1", Distance: 0.1},
	}}
	segments := &fakeSegments{texts: map[string]string{
		"seg-1": "first segment text",
		"seg-2": "second segment text",
	}}
	e := NewEngine(&fakeEmbedder{}, vector, segments, 10)
	require.True(t, e.Enabled())

	out, err := e.Search(context.Background(), SearchInput{ReportID: "rpt-1", Query: "traction"})
	require.NoError(t, err)
	assert.Empty(t, out.DisabledReason)
	require.Len(t, out.Matches, 2)
	// 召回顺序即返回顺序，不按距离重排
	assert.Equal(t, "seg-2", out.Matches[0].ID)
	assert.Equal(t, "second segment text", out.Matches[0].Text)
	assert.Equal(t, "seg-1", out.Matches[1].ID)
	assert.Equal(t, "rpt-1", vector.lastParams.ReportID)
	assert.Equal(t, 10, vector.lastParams.TopK)
}

func TestEngineSearchMissingSegmentTextPlaceholder(t *testing.T) {
	vector := &fakeVectorRepo{results: []*VectorSearchResult{
		{ID: "seg-404", Distance: 0.3},
	}}
	e := NewEngine(&fakeEmbedder{}, vector, &fakeSegments{}, 10)

	out, err := e.Search(context.Background(), SearchInput{Query: "team"})
	require.NoError(t, err)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "[No text found for ID: seg-404]", out.Matches[0].Text)
}

func TestEngineSearchSkipsEmptyIDs(t *testing.T) {
	vector := &fakeVectorRepo{results: []*VectorSearchResult{
		nil,
		{ID: "  ", Distance: 0.2},
		{ID: "seg-1", Distance: 0.5},
	}}
	e := NewEngine(&fakeEmbedder{}, vector, &fakeSegments{texts: map[string]string{"seg-1": "text"}}, 10)

	out, err := e.Search(context.Background(), SearchInput{Query: "team"})
	require.NoError(t, err)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "seg-1", out.Matches[0].ID)
}

func TestEngineSearchEmbedFailureDegrades(t *testing.T) {
	e := NewEngine(&fakeEmbedder{err: errors.New("embedding provider down")}, &fakeVectorRepo{}, &fakeSegments{}, 10)

	out, err := e.Search(context.Background(), SearchInput{Query: "market"})
	require.NoError(t, err, "degraded search must not error")
	assert.Empty(t, out.Matches)
	assert.Contains(t, out.DisabledReason, "embedding provider down")
}

func TestEngineSearchVectorFailureDegrades(t *testing.T) {
	e := NewEngine(&fakeEmbedder{}, &fakeVectorRepo{searchErr: errors.New("milvus unreachable")}, &fakeSegments{}, 10)

	out, err := e.Search(context.Background(), SearchInput{Query: "market"})
	require.NoError(t, err)
	assert.Empty(t, out.Matches)
	assert.Contains(t, out.DisabledReason, "milvus unreachable")
}

func TestEngineSearchEnsureFailureDegrades(t *testing.T) {
	e := NewEngine(&fakeEmbedder{}, &fakeVectorRepo{ensureErr: errors.New("collection load failed")}, &fakeSegments{}, 10)

	out, err := e.Search(context.Background(), SearchInput{Query: "market"})
	require.NoError(t, err)
	assert.Contains(t, out.DisabledReason, "collection load failed")
}

func TestEngineSearchTopKClamped(t *testing.T) {
	vector := &fakeVectorRepo{}
	e := NewEngine(&fakeEmbedder{}, vector, &fakeSegments{}, 10)

	_, err := e.Search(context.Background(), SearchInput{Query: "q", TopK: 500})
	require.NoError(t, err)
	assert.Equal(t, maxTopK, vector.lastParams.TopK)
}

func TestSplitByRunesShortTextSingleChunk(t *testing.T) {
	chunks := splitByRunes("short text", 800, 80)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitByRunesEmptyInput(t *testing.T) {
	assert.Nil(t, splitByRunes("   ", 800, 80))
}

func TestSplitByRunesChunksWithOverlap(t *testing.T) {
	var long string
	for i := 0; i < 100; i++ {
		long += fmt.Sprintf("sentence %02d. ", i)
	}
	chunks := splitByRunes(long, 200, 20)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 200)
		assert.NotEmpty(t, c)
	}
	// 相邻块共享重叠区
	first := []rune(chunks[0])
	assert.Contains(t, long, string(first[len(first)-20:]))
}

func TestSplitByRunesHandlesMultibyte(t *testing.T) {
	var sb []rune
	for i := 0; i < 300; i++ {
		sb = append(sb, '市')
	}
	chunks := splitByRunes(string(sb), 100, 10)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100)
	}
}
