// Package render 提供报告的 HTML / PDF 渲染
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/metrics"
)

// HTMLRenderer 将章节 Markdown 拼装为完整 HTML 文档
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer 创建 HTML 渲染器
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
			goldmark.WithRendererOptions(ghtml.WithHardWraps()),
		),
		policy: newDocumentPolicy(),
	}
}

// newDocumentPolicy 文档级白名单，在内联标签之外放行标题、表格等块级元素
func newDocumentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "blockquote", "pre", "code",
		"b", "i", "strong", "em", "u", "del", "span", "a",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("style").OnElements("span")
	p.AllowAttrs("align").OnElements("th", "td")
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// BuildDocument 渲染完整报告 HTML，章节按固定顺序排列
func (r *HTMLRenderer) BuildDocument(report *entity.Report, sections []*entity.ReportSection) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RenderDuration.WithLabelValues("markdown").Observe(time.Since(start).Seconds())
	}()

	var body strings.Builder
	body.WriteString(fmt.Sprintf(`<div class="cover"><h1>%s</h1><p class="subtitle">Investor Readiness Report</p><p class="meta">Generated %s</p></div>`,
		htmlEscape(report.CompanyName),
		report.CreatedAt.Format("January 2, 2006"),
	))

	for _, sec := range sections {
		rendered, err := r.renderSection(sec)
		if err != nil {
			return "", err
		}
		body.WriteString(rendered)
	}

	return documentShell(htmlEscape(report.CompanyName), body.String()), nil
}

// renderSection 渲染单个章节：Markdown 转 HTML 后按白名单清洗
func (r *HTMLRenderer) renderSection(sec *entity.ReportSection) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(sec.Content), &buf); err != nil {
		return "", fmt.Errorf("failed to render section %s: %w", sec.Key, err)
	}

	clean := decorateStatusMarkers(r.policy.Sanitize(buf.String()))

	var out strings.Builder
	out.WriteString(`<section class="report-section">`)
	out.WriteString(fmt.Sprintf("<h2>%d. %s</h2>", sec.Position, htmlEscape(sec.Title)))
	out.WriteString(clean)
	out.WriteString("</section>")
	return out.String(), nil
}

// statusMarkerClasses 三级状态标记为封闭枚举，未知标记原样保留
var statusMarkerClasses = []struct{ marker, class string }{
	{"🟢", "status-strong"},
	{"🟡", "status-moderate"},
	{"🔴", "status-weak"},
}

// decorateStatusMarkers 在清洗后执行，替换结果不经过白名单
func decorateStatusMarkers(html string) string {
	for _, m := range statusMarkerClasses {
		html = strings.ReplaceAll(html, m.marker, fmt.Sprintf(`<span class="%s">%s</span>`, m.class, m.marker))
	}
	return html
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}

// documentShell 包裹打印样式
func documentShell(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a2e; margin: 48px; line-height: 1.55; }
  .cover { text-align: center; page-break-after: always; padding-top: 200px; }
  .cover h1 { font-size: 34px; margin-bottom: 8px; }
  .cover .subtitle { font-size: 18px; color: #4a4a68; }
  .cover .meta { font-size: 12px; color: #8a8aa3; }
  .report-section { page-break-before: always; }
  .report-section:first-of-type { page-break-before: avoid; }
  h2 { border-bottom: 2px solid #2d6cdf; padding-bottom: 6px; font-size: 22px; }
  h3 { font-size: 16px; margin-top: 20px; }
  table { border-collapse: collapse; width: 100%%; margin: 12px 0; font-size: 12px; }
  th, td { border: 1px solid #d3d3e0; padding: 6px 10px; text-align: left; }
  th { background: #f0f4fb; }
  blockquote { border-left: 3px solid #2d6cdf; margin-left: 0; padding-left: 14px; color: #4a4a68; }
  .status-strong { color: #1e8e3e; }
  .status-moderate { color: #b8860b; }
  .status-weak { color: #c5221f; }
</style>
</head>
<body>
%s
</body>
</html>`, title, body)
}
