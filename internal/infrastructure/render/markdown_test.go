package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
)

func testReport() *entity.Report {
	return &entity.Report{
		ID:          "rpt-1",
		CompanyName: "Acme Robotics",
		CreatedAt:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildDocumentIncludesCoverAndSections(t *testing.T) {
	r := NewHTMLRenderer()
	sections := []*entity.ReportSection{
		{Key: entity.SectionExecutiveSummary, Title: "Executive Summary & Investment Rationale", Position: 1, Content: "## Rationale\n\nStrong **traction**."},
		{Key: entity.SectionMarket, Title: "Market Opportunity & Competitive Landscape", Position: 2, Content: "Large market."},
	}

	html, err := r.BuildDocument(testReport(), sections)
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Acme Robotics</h1>")
	assert.Contains(t, html, "Generated March 14, 2026")
	assert.Contains(t, html, "<h2>1. Executive Summary &amp; Investment Rationale</h2>")
	assert.Contains(t, html, "<h2>2. Market Opportunity &amp; Competitive Landscape</h2>")
	assert.Contains(t, html, "<strong>traction</strong>")
}

func TestBuildDocumentRendersMarkdownTables(t *testing.T) {
	r := NewHTMLRenderer()
	sections := []*entity.ReportSection{
		{Key: entity.SectionFinancial, Title: "Financial Performance & Investment Readiness", Position: 3,
			Content: "| Metric | Value |\n| --- | --- |\n| ARR | $2M |"},
	}

	html, err := r.BuildDocument(testReport(), sections)
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>$2M</td>")
}

func TestBuildDocumentSanitizesSectionHTML(t *testing.T) {
	r := NewHTMLRenderer()
	sections := []*entity.ReportSection{
		{Key: entity.SectionGTM, Title: "Go-To-Market (GTM) Strategy & Customer Traction", Position: 4,
			Content: "Fine text <script>alert(1)</script> and <iframe src=\"x\"></iframe> more."},
	}

	html, err := r.BuildDocument(testReport(), sections)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<iframe")
	assert.Contains(t, html, "Fine text")
}

func TestBuildDocumentMapsStatusMarkers(t *testing.T) {
	r := NewHTMLRenderer()
	sections := []*entity.ReportSection{
		{Key: entity.SectionMarket, Title: "Market Opportunity & Competitive Landscape", Position: 2,
			Content: "| Area | Status |\n| --- | --- |\n| TAM | 🟢 |\n| Moat | 🟡 |\n| Churn | 🔴 |"},
	}

	html, err := r.BuildDocument(testReport(), sections)
	require.NoError(t, err)
	assert.Contains(t, html, `<span class="status-strong">🟢</span>`)
	assert.Contains(t, html, `<span class="status-moderate">🟡</span>`)
	assert.Contains(t, html, `<span class="status-weak">🔴</span>`)
}

func TestBuildDocumentStripsEventHandlerAttributes(t *testing.T) {
	r := NewHTMLRenderer()
	sections := []*entity.ReportSection{
		{Key: entity.SectionLeadership, Title: "Leadership & Team", Position: 5,
			Content: `Team bios <a href="https://example.com" onclick="steal()">here</a>.`},
	}

	html, err := r.BuildDocument(testReport(), sections)
	require.NoError(t, err)
	assert.NotContains(t, html, "onclick")
	assert.Contains(t, html, `href="https://example.com"`)
}

func TestBuildDocumentEscapesCompanyName(t *testing.T) {
	r := NewHTMLRenderer()
	report := testReport()
	report.CompanyName = `Acme <&> "Co"`

	html, err := r.BuildDocument(report, nil)
	require.NoError(t, err)
	assert.Contains(t, html, "Acme &lt;&amp;&gt; &quot;Co&quot;")
	assert.NotContains(t, html, `<&>`)
}

func TestHTMLEscape(t *testing.T) {
	assert.Equal(t, "a &amp;&amp; b &lt;c&gt;", htmlEscape("a && b <c>"))
}
