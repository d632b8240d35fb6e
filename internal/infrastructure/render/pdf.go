package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
)

var tracer = otel.Tracer("render")

const defaultPageTimeout = 60 * time.Second

// PDFRenderer 基于无头浏览器的 PDF 渲染器
type PDFRenderer struct {
	html        *HTMLRenderer
	browserBin  string
	pageTimeout time.Duration
}

var _ report.Renderer = (*PDFRenderer)(nil)

// NewPDFRenderer 创建 PDF 渲染器
func NewPDFRenderer(cfg *config.RenderConfig) *PDFRenderer {
	timeout := cfg.PageTimeout
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	return &PDFRenderer{
		html:        NewHTMLRenderer(),
		browserBin:  cfg.BrowserBin,
		pageTimeout: timeout,
	}
}

// RenderPDF 将报告渲染为 PDF 字节流
func (r *PDFRenderer) RenderPDF(ctx context.Context, rep *entity.Report, sections []*entity.ReportSection) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "render.RenderPDF",
		trace.WithAttributes(attribute.String("report_id", rep.ID)))
	defer span.End()

	html, err := r.html.BuildDocument(rep, sections)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	l := launcher.New().Headless(true)
	if r.browserBin != "" {
		l = l.Bin(r.browserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page = page.Timeout(r.pageTimeout)

	if err := page.SetDocumentContent(html); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to set page content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed waiting for page load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}

	span.SetAttributes(attribute.Int("pdf.size_bytes", len(data)))
	return data, nil
}
