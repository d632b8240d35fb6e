package report

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/retrieval"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/tracer"
)

const (
	defaultQuery           = "Investment readiness analysis"
	researchWarningMarker  = "\n[Warning: research stage encountered an error.]\n"
	researchFindingsHeader = "\nRESEARCHER FINDINGS:\n"
)

// SectionInvoker 编排层对章节生成链的最小依赖。
type SectionInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (content string, err error)
}

// Params 报告编排输入。
type Params struct {
	ReportID           string
	CompanyName        string
	CompanyType        string
	CompanyDescription string
	FounderName        string
	Industry           string
	FundingStage       string
	PitchDeckText      string
	Title              string
}

// Result 报告编排输出：七个固定章节键到内容的映射，
// 附带按键的状态与尝试次数。
type Result struct {
	Sections map[entity.SectionKey]string
	Statuses map[entity.SectionKey]entity.SectionStatus
	Attempts map[entity.SectionKey]int

	ResearchOK     bool
	DisabledReason string
}

// Orchestrator 报告编排器。全部依赖注入，无包级状态。
type Orchestrator struct {
	invoker     SectionInvoker
	engine      *retrieval.Engine
	retrier     *Retrier
	provider    string
	concurrency int
}

func NewOrchestrator(invoker SectionInvoker, engine *retrieval.Engine, retrier *Retrier, provider string, concurrency int) *Orchestrator {
	if retrier == nil {
		retrier = NewRetrier(3, 0, 0, NopPacer{})
	}
	if concurrency <= 0 {
		concurrency = len(sectionSpecs)
	}
	return &Orchestrator{
		invoker:     invoker,
		engine:      engine,
		retrier:     retrier,
		provider:    provider,
		concurrency: concurrency,
	}
}

// Generate 执行完整编排：检索 -> 研究 -> 六章节并发生成 -> 执行摘要。
// 返回的映射始终包含全部七个键；取消与失败通过 Statuses 区分。
func (o *Orchestrator) Generate(ctx context.Context, p Params) (*Result, error) {
	if o == nil || o.invoker == nil {
		return nil, fmt.Errorf("orchestrator not configured")
	}
	ctx, span := tracer.Start(ctx, "report.orchestrate")
	defer span.End()

	// 阶段一：检索与基础上下文拼装
	snippets, disabledReason := o.retrieve(ctx, p)

	ephemeral := referenceBlock + "\n\n"
	if pitch := strings.TrimSpace(p.PitchDeckText); pitch != "" {
		ephemeral += "Pitch Deck Text:\n" + pitch + "\n\n"
	}
	if snippets != "" {
		ephemeral += snippets + "\n"
	}

	// 阶段二：研究代理只执行一次，失败降级为警告标记
	researchOK := false
	if research, err := o.runResearcher(ctx, p, ephemeral); err != nil {
		logger.Error(ctx, "researcher stage failed, continuing without findings", err,
			"report_id", p.ReportID,
		)
		ephemeral += researchWarningMarker
	} else {
		ephemeral += researchFindingsHeader + research + "\n"
		researchOK = true
	}

	// 阶段三：六个章节并发生成，结果按声明顺序落位
	results := make([]SectionResult, len(sectionSpecs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, spec := range sectionSpecs {
		g.Go(func() error {
			results[i] = o.retrier.Generate(gctx, spec.Key, func(callCtx context.Context) (string, error) {
				return o.invoker.Invoke(callCtx, &wfmodel.SectionGenerateInput{
					Provider: o.provider,
					PromptID: spec.PromptID,
					Vars: map[string]any{
						"company":           companyOrDefault(p.CompanyName),
						"retrieved_context": ephemeral,
					},
				})
			})
			return nil
		})
	}
	_ = g.Wait()

	// 阶段四：执行摘要，上下文仅由六个章节输出构成
	summaryCtx := buildSummaryContext(results)
	summary := o.retrier.Generate(ctx, entity.SectionExecutiveSummary, func(callCtx context.Context) (string, error) {
		return o.invoker.Invoke(callCtx, &wfmodel.SectionGenerateInput{
			Provider: o.provider,
			PromptID: workflowprompt.PromptExecSummaryV1,
			Vars: map[string]any{
				"founder_name":        valueOrDefault(p.FounderName, "Unknown Founder"),
				"company":             companyOrDefault(p.CompanyName),
				"company_type":        valueOrDefault(p.CompanyType, "Unknown Type"),
				"company_description": valueOrDefault(p.CompanyDescription, "unknown"),
				"retrieved_context":   summaryCtx,
			},
		})
	})

	out := &Result{
		Sections:       make(map[entity.SectionKey]string, len(sectionSpecs)+1),
		Statuses:       make(map[entity.SectionKey]entity.SectionStatus, len(sectionSpecs)+1),
		Attempts:       make(map[entity.SectionKey]int, len(sectionSpecs)+1),
		ResearchOK:     researchOK,
		DisabledReason: disabledReason,
	}
	for _, r := range results {
		out.Sections[r.Key] = r.Content
		out.Statuses[r.Key] = r.Status
		out.Attempts[r.Key] = r.Attempts
	}
	out.Sections[summary.Key] = summary.Content
	out.Statuses[summary.Key] = summary.Status
	out.Attempts[summary.Key] = summary.Attempts

	logger.Info(ctx, "report orchestration complete",
		"report_id", p.ReportID,
		"research_ok", researchOK,
		"statuses", statusSummary(out.Statuses),
	)
	return out, nil
}

// retrieve 执行向量检索并拼装上下文块。检索不可用或无命中时返回空串。
func (o *Orchestrator) retrieve(ctx context.Context, p Params) (snippets string, disabledReason string) {
	if o.engine == nil || !o.engine.Enabled() {
		logger.Warn(ctx, "vector retrieval unavailable, skipping", "report_id", p.ReportID)
		return "", retrieval.ErrVectorDisabled.Error()
	}
	query := strings.TrimSpace(p.Title)
	if query == "" {
		query = defaultQuery
	}
	out, err := o.engine.Search(ctx, retrieval.SearchInput{
		ReportID: p.ReportID,
		Query:    query,
	})
	if err != nil {
		logger.Warn(ctx, "retrieval search failed, continuing without context",
			"report_id", p.ReportID,
			"error", err.Error(),
		)
		return "", err.Error()
	}
	if out.DisabledReason != "" {
		return "", out.DisabledReason
	}
	if len(out.Matches) == 0 {
		return "", ""
	}
	return retrieval.BuildContext(out.Matches), ""
}

// runResearcher 单次调用研究代理，不经过重试器。
func (o *Orchestrator) runResearcher(ctx context.Context, p Params, ephemeral string) (string, error) {
	if err := o.retrier.Pacer.Wait(ctx); err != nil {
		return "", err
	}
	return o.invoker.Invoke(ctx, &wfmodel.SectionGenerateInput{
		Provider: o.provider,
		PromptID: workflowprompt.PromptResearcherV1,
		Vars: map[string]any{
			"company_name":      companyOrDefault(p.CompanyName),
			"industry":          valueOrDefault(p.Industry, "General Industry"),
			"funding_stage":     valueOrDefault(p.FundingStage, "Unknown Stage"),
			"retrieved_context": ephemeral,
		},
	})
}

// buildSummaryContext 由六个章节输出构建摘要上下文，顺序与编号固定。
func buildSummaryContext(results []SectionResult) string {
	var b strings.Builder
	for i, spec := range sectionSpecs {
		fmt.Fprintf(&b, "SECTION %d: %s\n%s\n\n", spec.Number, spec.SummaryLabel, results[i].Content)
	}
	return b.String()
}

func companyOrDefault(name string) string {
	return valueOrDefault(name, "Unknown Company")
}

func valueOrDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func statusSummary(statuses map[entity.SectionKey]entity.SectionStatus) string {
	parts := make([]string, 0, len(statuses))
	for _, key := range entity.OrderedSectionKeys() {
		if st, ok := statuses[key]; ok {
			parts = append(parts, string(key)+"="+string(st))
		}
	}
	return strings.Join(parts, ",")
}
