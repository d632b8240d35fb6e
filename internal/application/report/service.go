package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/logger"
	"github.com/guygrubbs/dap-deploy-sub000/pkg/metrics"
)

// Renderer 报告落盘渲染依赖（Markdown -> PDF）。
type Renderer interface {
	RenderPDF(ctx context.Context, report *entity.Report, sections []*entity.ReportSection) ([]byte, error)
}

// ObjectStore PDF 对象存储依赖。
type ObjectStore interface {
	UploadPDF(ctx context.Context, key string, data []byte) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// Notifier 状态变更通知依赖，实现方自行处理重试，调用不阻塞管线。
type Notifier interface {
	NotifyStatus(ctx context.Context, reportID string, status entity.ReportStatus)
}

// JobPublisher 生成任务入队依赖。
type JobPublisher interface {
	PublishGenerate(ctx context.Context, reportID, jobID string) error
}

// ProfileExtractor 画像抽取依赖。
type ProfileExtractor interface {
	Extract(ctx context.Context, documentText string) (wfmodel.StartupProfile, error)
}

// DocumentIndexer 支撑文档向量索引依赖。
type DocumentIndexer interface {
	Enabled() bool
	IndexDocument(ctx context.Context, reportID, companyID, sourceName, text string) (int, error)
}

// CreateInput 报告创建请求。
type CreateInput struct {
	Tier               entity.ReportTier
	CompanyName        string
	CompanyType        string
	CompanyDescription string
	FounderName        string
	Industry           string
	FundingStage       string
	PitchDeckText      string
}

// Service 报告应用服务：对外提供创建、查询、审批，对 worker 提供生成入口。
type Service struct {
	reports  repository.ReportRepository
	sections repository.SectionRepository
	jobs     repository.JobRepository

	orchestrator *Orchestrator
	approval     *ApprovalPolicy
	profiles     ProfileExtractor
	indexer      DocumentIndexer
	renderer     Renderer
	store        ObjectStore
	notifier     Notifier
	publisher    JobPublisher
}

// ServiceDeps Service 的可选依赖集合。
type ServiceDeps struct {
	Profiles  ProfileExtractor
	Indexer   DocumentIndexer
	Renderer  Renderer
	Store     ObjectStore
	Notifier  Notifier
	Publisher JobPublisher
}

func NewService(
	reports repository.ReportRepository,
	sections repository.SectionRepository,
	jobs repository.JobRepository,
	orchestrator *Orchestrator,
	approval *ApprovalPolicy,
	deps ServiceDeps,
) *Service {
	return &Service{
		reports:      reports,
		sections:     sections,
		jobs:         jobs,
		orchestrator: orchestrator,
		approval:     approval,
		profiles:     deps.Profiles,
		indexer:      deps.Indexer,
		renderer:     deps.Renderer,
		store:        deps.Store,
		notifier:     deps.Notifier,
		publisher:    deps.Publisher,
	}
}

// Create 创建报告并投递生成任务。
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Report, error) {
	if strings.TrimSpace(in.CompanyName) == "" && strings.TrimSpace(in.PitchDeckText) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "company_name or pitch_deck_text is required")
	}

	report := entity.NewReport(in.Tier, strings.TrimSpace(in.CompanyName))
	report.CompanyType = strings.TrimSpace(in.CompanyType)
	report.CompanyDescription = strings.TrimSpace(in.CompanyDescription)
	report.FounderName = strings.TrimSpace(in.FounderName)
	report.Industry = strings.TrimSpace(in.Industry)
	report.FundingStage = strings.TrimSpace(in.FundingStage)
	report.PitchDeckText = in.PitchDeckText

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create report")
	}

	job := entity.NewReportJob(report.ID, nil)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create report job")
	}

	if s.publisher != nil {
		if err := s.publisher.PublishGenerate(ctx, report.ID, job.ID); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMessagingError, "failed to enqueue report job")
		}
	}

	s.notify(ctx, report.ID, report.Status)
	return report, nil
}

// Generate worker 侧生成入口：执行编排并落库、渲染、归档。
func (s *Service) Generate(ctx context.Context, reportID string) error {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeReportNotFound, "report not found")
	}
	ctx = logger.WithContext(ctx, logger.ReportIDKey, report.ID)

	report.Start()
	if err := s.reports.Update(ctx, report); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark report processing")
	}
	s.notify(ctx, report.ID, report.Status)

	metrics.ActiveReports.Inc()
	defer metrics.ActiveReports.Dec()
	start := time.Now()

	s.enrichFromProfile(ctx, report)
	s.indexPitchDeck(ctx, report)

	result, err := s.orchestrator.Generate(ctx, Params{
		ReportID:           report.ID,
		CompanyName:        report.CompanyName,
		CompanyType:        report.CompanyType,
		CompanyDescription: report.CompanyDescription,
		FounderName:        report.FounderName,
		Industry:           report.Industry,
		FundingStage:       report.FundingStage,
		PitchDeckText:      report.PitchDeckText,
	})
	if err != nil {
		return s.fail(ctx, report, err)
	}

	sections := buildSectionEntities(report.ID, result)
	if err := s.sections.UpsertBatch(ctx, sections); err != nil {
		return s.fail(ctx, report, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to persist sections"))
	}

	if cancelled(result) {
		report.Cancel()
		if err := s.reports.Update(ctx, report); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark report cancelled")
		}
		s.notify(ctx, report.ID, report.Status)
		metrics.ReportGenerationTotal.WithLabelValues(string(report.Tier), string(report.Status)).Inc()
		return apperrors.Wrap(ctx.Err(), apperrors.CodeReportCancelled, "report generation cancelled")
	}

	if err := s.archivePDF(ctx, report, sections); err != nil {
		// 渲染归档失败不回滚已生成内容，降级为告警
		logger.Error(ctx, "pdf archive failed, report content kept", err)
	}

	report.Complete(s.approval.AutoApprove(ctx))
	if err := s.reports.Update(ctx, report); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to finalize report")
	}
	s.notify(ctx, report.ID, report.Status)

	metrics.ReportGenerationTotal.WithLabelValues(string(report.Tier), string(report.Status)).Inc()
	metrics.ReportGenerationDuration.WithLabelValues(string(report.Tier)).Observe(time.Since(start).Seconds())
	return nil
}

// RunJob 执行一次生成任务：维护任务状态机并驱动 Generate。
// 已取消的任务直接跳过；生成侧的取消会同步落到任务状态。
func (s *Service) RunJob(ctx context.Context, jobID string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load report job")
	}
	if job == nil {
		return apperrors.New(apperrors.CodeNotFound, "report job not found").WithDetail(jobID)
	}
	if job.Status == entity.JobStatusCancelled {
		return nil
	}
	ctx = logger.WithContext(ctx, logger.JobIDKey, job.ID)

	job.Start()
	if err := s.jobs.Update(ctx, job); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark job running")
	}

	if err := s.Generate(ctx, job.ReportID); err != nil {
		if appErr := apperrors.AsAppError(err); appErr.Code == apperrors.CodeReportCancelled {
			job.Cancel()
		} else {
			job.Fail(err.Error())
		}
		if updateErr := s.jobs.Update(ctx, job); updateErr != nil {
			logger.Error(ctx, "failed to record job outcome", updateErr)
		}
		return err
	}

	job.Complete()
	if err := s.jobs.Update(ctx, job); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to mark job completed")
	}
	return nil
}

// Get 查询报告。
func (s *Service) Get(ctx context.Context, id string) (*entity.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeReportNotFound, "report not found")
	}
	return report, nil
}

// Content 返回报告的章节键到内容映射，按固定顺序补齐缺失键。
func (s *Service) Content(ctx context.Context, id string) (map[entity.SectionKey]string, error) {
	sections, err := s.sections.ListByReport(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load sections")
	}
	out := make(map[entity.SectionKey]string, len(entity.OrderedSectionKeys()))
	for _, key := range entity.OrderedSectionKeys() {
		out[key] = ""
	}
	for _, sec := range sections {
		out[sec.Key] = sec.Content
	}
	return out, nil
}

// Approve 人工审批通过。
func (s *Service) Approve(ctx context.Context, id string) (*entity.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeReportNotFound, "report not found")
	}
	if !report.Approve() {
		return nil, apperrors.New(apperrors.CodeConflict, "report is not awaiting review").
			WithDetail(fmt.Sprintf("current status: %s", report.Status))
	}
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to approve report")
	}
	s.notify(ctx, report.ID, report.Status)
	return report, nil
}

// PDFURL 返回报告 PDF 的限时下载地址。
func (s *Service) PDFURL(ctx context.Context, id string) (string, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeReportNotFound, "report not found")
	}
	if report.PDFObjectKey == "" {
		return "", apperrors.New(apperrors.CodeNotFound, "report pdf not generated")
	}
	if s.store == nil {
		return "", apperrors.New(apperrors.CodeServiceUnavailable, "object storage not configured")
	}
	url, err := s.store.PresignGet(ctx, report.PDFObjectKey)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeStorageError, "failed to presign pdf url")
	}
	return url, nil
}

// enrichFromProfile 公司字段缺失且有 pitch deck 原文时，用画像抽取补全。
// 画像解析失败返回空画像，不阻断生成。
func (s *Service) enrichFromProfile(ctx context.Context, report *entity.Report) {
	if s.profiles == nil {
		return
	}
	if strings.TrimSpace(report.CompanyName) != "" || strings.TrimSpace(report.PitchDeckText) == "" {
		return
	}
	profile, err := s.profiles.Extract(ctx, report.PitchDeckText)
	if err != nil {
		logger.Warn(ctx, "profile extraction failed, continuing with raw fields", "error", err.Error())
		return
	}
	report.CompanyName = profileString(profile, "company_name", report.CompanyName)
	report.CompanyType = profileString(profile, "company_type", report.CompanyType)
	report.CompanyDescription = profileString(profile, "company_description", report.CompanyDescription)
	report.FounderName = profileString(profile, "founder_name", report.FounderName)
	report.Industry = profileString(profile, "industry", report.Industry)
	report.FundingStage = profileString(profile, "funding_stage", report.FundingStage)
	if err := s.reports.Update(ctx, report); err != nil {
		logger.Warn(ctx, "failed to persist extracted profile", "error", err.Error())
	}
}

// profileString 读取画像字符串字段，缺失、非字符串或为空时保留 fallback。
func profileString(profile wfmodel.StartupProfile, key, fallback string) string {
	v, ok := profile[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// indexPitchDeck 将 pitch deck 原文切片入向量索引，供检索阶段使用。
func (s *Service) indexPitchDeck(ctx context.Context, report *entity.Report) {
	if s.indexer == nil || !s.indexer.Enabled() {
		return
	}
	text := strings.TrimSpace(report.PitchDeckText)
	if text == "" {
		return
	}
	n, err := s.indexer.IndexDocument(ctx, report.ID, report.CompanyName, "pitch_deck", text)
	if err != nil {
		logger.Warn(ctx, "pitch deck indexing failed, retrieval may be degraded", "error", err.Error())
		return
	}
	logger.Info(ctx, "pitch deck indexed", "segments", n)
}

// archivePDF 渲染并上传 PDF，写回对象键。
func (s *Service) archivePDF(ctx context.Context, report *entity.Report, sections []*entity.ReportSection) error {
	if s.renderer == nil || s.store == nil {
		return nil
	}
	start := time.Now()
	data, err := s.renderer.RenderPDF(ctx, report, sections)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeRenderFailed, "pdf render failed")
	}
	metrics.RenderDuration.WithLabelValues("pdf").Observe(time.Since(start).Seconds())

	key := fmt.Sprintf("reports/report_%s_%d.pdf", report.ID, time.Now().Unix())
	start = time.Now()
	if err := s.store.UploadPDF(ctx, key, data); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, "pdf upload failed")
	}
	metrics.RenderDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())

	report.PDFObjectKey = key
	return nil
}

func (s *Service) fail(ctx context.Context, report *entity.Report, cause error) error {
	report.Fail(cause.Error())
	if err := s.reports.Update(ctx, report); err != nil {
		logger.Error(ctx, "failed to mark report failed", err)
	}
	s.notify(ctx, report.ID, report.Status)
	metrics.ReportGenerationTotal.WithLabelValues(string(report.Tier), string(report.Status)).Inc()
	return cause
}

func (s *Service) notify(ctx context.Context, reportID string, status entity.ReportStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyStatus(ctx, reportID, status)
}

// buildSectionEntities 将编排结果转换为章节实体，按固定顺序编号。
func buildSectionEntities(reportID string, result *Result) []*entity.ReportSection {
	keys := entity.OrderedSectionKeys()
	out := make([]*entity.ReportSection, 0, len(keys))
	for pos, key := range keys {
		out = append(out, &entity.ReportSection{
			ReportID: reportID,
			Key:      key,
			Title:    key.Title(),
			Position: pos + 1,
			Content:  result.Sections[key],
			Status:   result.Statuses[key],
			Attempts: result.Attempts[key],
		})
	}
	return out
}

func cancelled(result *Result) bool {
	for _, st := range result.Statuses {
		if st == entity.SectionStatusCancelled {
			return true
		}
	}
	return false
}
