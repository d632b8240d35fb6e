package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexerIndexDocumentRequiresReportID(t *testing.T) {
	idx := NewIndexer(&fakeEmbedder{}, &fakeVectorRepo{}, &fakeSegments{}, 16)
	_, err := idx.IndexDocument(context.Background(), "  ", "c-1", "pitch_deck", "text")
	assert.Error(t, err)
}

func TestIndexerIndexDocumentDisabled(t *testing.T) {
	idx := NewIndexer(nil, &fakeVectorRepo{}, &fakeSegments{}, 16)
	assert.False(t, idx.Enabled())

	_, err := idx.IndexDocument(context.Background(), "rpt-1", "c-1", "pitch_deck", "text")
	assert.ErrorIs(t, err, ErrVectorDisabled)
}

func TestIndexerIndexDocumentEmptyTextNoop(t *testing.T) {
	vector := &fakeVectorRepo{}
	idx := NewIndexer(&fakeEmbedder{}, vector, &fakeSegments{}, 16)

	n, err := idx.IndexDocument(context.Background(), "rpt-1", "c-1", "pitch_deck", "   ")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, vector.inserted)
}

func TestIndexerIndexDocumentRebuildsSegments(t *testing.T) {
	emb := &fakeEmbedder{}
	vector := &fakeVectorRepo{}
	segments := &fakeSegments{}
	idx := NewIndexer(emb, vector, segments, 2)

	text := strings.Repeat("Acme builds autonomous warehouse robots. ", 60)
	n, err := idx.IndexDocument(context.Background(), "rpt-1", "c-1", "pitch_deck", text)
	require.NoError(t, err)
	require.Greater(t, n, 1)

	// 重建前先清空旧索引
	assert.Equal(t, []string{"rpt-1"}, vector.deleted)

	require.Len(t, vector.inserted, n)
	require.Len(t, segments.texts, n)
	for i, seg := range vector.inserted {
		assert.Equal(t, "rpt-1", seg.ReportID)
		assert.Equal(t, "c-1", seg.CompanyID)
		assert.Equal(t, int64(i), seg.SeqNum)
		assert.NotEmpty(t, seg.Vector)
		_, ok := segments.texts[seg.ID]
		assert.True(t, ok, "vector segment %s missing from store", seg.ID)
	}

	// 批大小为 2 时嵌入调用按批切分
	for _, call := range emb.calls {
		assert.LessOrEqual(t, len(call), 2)
	}
}
