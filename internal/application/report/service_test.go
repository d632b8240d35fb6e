package report

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/repository"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*entity.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*entity.Report)}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	cp := *report
	f.reports[report.ID] = &cp
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok {
		return nil, apperrors.ErrReportNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *entity.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *report
	f.reports[report.ID] = &cp
	return nil
}

func (f *fakeReportRepo) UpdateStatus(ctx context.Context, id string, status entity.ReportStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reports[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeReportRepo) List(ctx context.Context, filter *repository.ReportFilter, p repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]*entity.Report, 0, len(f.reports))
	for _, r := range f.reports {
		cp := *r
		items = append(items, &cp)
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

type fakeSectionRepo struct {
	mu       sync.Mutex
	sections map[string][]*entity.ReportSection
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: make(map[string][]*entity.ReportSection)}
}

func (f *fakeSectionRepo) UpsertBatch(ctx context.Context, sections []*entity.ReportSection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sec := range sections {
		replaced := false
		for i, existing := range f.sections[sec.ReportID] {
			if existing.Key == sec.Key {
				f.sections[sec.ReportID][i] = sec
				replaced = true
				break
			}
		}
		if !replaced {
			f.sections[sec.ReportID] = append(f.sections[sec.ReportID], sec)
		}
	}
	return nil
}

func (f *fakeSectionRepo) ListByReport(ctx context.Context, reportID string) ([]*entity.ReportSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sections[reportID], nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.ReportJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.ReportJob)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entity.ReportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id string) (*entity.ReportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) Update(ctx context.Context, job *entity.ReportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetPendingJobs(ctx context.Context, limit int) ([]*entity.ReportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.ReportJob, 0, limit)
	for _, j := range f.jobs {
		if j.Status == entity.JobStatusPending && len(out) < limit {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published [][2]string
	err       error
}

func (f *fakePublisher) PublishGenerate(ctx context.Context, reportID, jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, [2]string{reportID, jobID})
	f.mu.Unlock()
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	statuses []entity.ReportStatus
}

func (f *fakeNotifier) NotifyStatus(ctx context.Context, reportID string, status entity.ReportStatus) {
	f.mu.Lock()
	f.statuses = append(f.statuses, status)
	f.mu.Unlock()
}

type serviceFixture struct {
	svc       *Service
	reports   *fakeReportRepo
	sections  *fakeSectionRepo
	jobs      *fakeJobRepo
	invoker   *fakeInvoker
	settings  *fakeSettingRepo
	publisher *fakePublisher
	notifier  *fakeNotifier
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		reports:   newFakeReportRepo(),
		sections:  newFakeSectionRepo(),
		jobs:      newFakeJobRepo(),
		invoker:   newFakeInvoker(),
		settings:  &fakeSettingRepo{settings: map[string]string{}},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	f.svc = NewService(
		f.reports, f.sections, f.jobs,
		newTestOrchestrator(f.invoker),
		NewApprovalPolicy(f.settings),
		ServiceDeps{Publisher: f.publisher, Notifier: f.notifier},
	)
	return f
}

func TestServiceCreateRequiresCompanyOrDeck(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)
}

func TestServiceCreatePersistsAndEnqueues(t *testing.T) {
	f := newServiceFixture(t)

	report, err := f.svc.Create(context.Background(), CreateInput{
		Tier:        entity.TierPremium,
		CompanyName: "  Acme Robotics  ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Acme Robotics", report.CompanyName)
	assert.Equal(t, entity.ReportStatusPending, report.Status)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, report.ID, f.publisher.published[0][0])
	assert.Equal(t, []entity.ReportStatus{entity.ReportStatusPending}, f.notifier.statuses)
}

func TestServiceGenerateManualReviewByDefault(t *testing.T) {
	f := newServiceFixture(t)
	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Generate(context.Background(), report.ID))

	updated, err := f.reports.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusReadyForReview, updated.Status)

	sections, err := f.sections.ListByReport(context.Background(), report.ID)
	require.NoError(t, err)
	require.Len(t, sections, 7)
	assert.Equal(t, entity.SectionExecutiveSummary, sections[0].Key)
	assert.Equal(t, 1, sections[0].Position)
	for _, sec := range sections {
		assert.Equal(t, entity.SectionStatusGenerated, sec.Status)
		assert.NotEmpty(t, sec.Content)
	}
}

func TestServiceGenerateAutoApprove(t *testing.T) {
	f := newServiceFixture(t)
	f.settings.settings[entity.SettingAutoApproveReports] = "true"

	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Generate(context.Background(), report.ID))

	updated, err := f.reports.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusApproved, updated.Status)
	assert.True(t, updated.IsTerminal())
}

func TestServiceGenerateUnknownReport(t *testing.T) {
	f := newServiceFixture(t)
	err := f.svc.Generate(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeReportNotFound, apperrors.AsAppError(err).Code)
}

func TestServiceGenerateCancelledMarksReportAndSections(t *testing.T) {
	f := newServiceFixture(t)
	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = f.svc.Generate(ctx, report.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeReportCancelled, apperrors.AsAppError(err).Code)

	updated, getErr := f.reports.GetByID(context.Background(), report.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.ReportStatusCancelled, updated.Status)

	sections, listErr := f.sections.ListByReport(context.Background(), report.ID)
	require.NoError(t, listErr)
	require.Len(t, sections, 7)
	for _, sec := range sections {
		assert.Equal(t, entity.SectionStatusCancelled, sec.Status)
	}
}

func TestServiceRunJobCompletesJob(t *testing.T) {
	f := newServiceFixture(t)
	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	jobID := f.publisher.published[0][1]
	require.NoError(t, f.svc.RunJob(context.Background(), jobID))

	job, err := f.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)

	updated, err := f.reports.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusReadyForReview, updated.Status)
}

func TestServiceRunJobSkipsCancelledJob(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	jobID := f.publisher.published[0][1]
	job, err := f.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	job.Cancel()
	require.NoError(t, f.jobs.Update(context.Background(), job))

	require.NoError(t, f.svc.RunJob(context.Background(), jobID))

	job, err = f.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCancelled, job.Status)
}

func TestServiceRunJobRecordsCancellation(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)
	jobID := f.publisher.published[0][1]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = f.svc.RunJob(ctx, jobID)
	require.Error(t, err)

	job, getErr := f.jobs.GetByID(context.Background(), jobID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.JobStatusCancelled, job.Status)
}

func TestServiceContentFillsMissingKeys(t *testing.T) {
	f := newServiceFixture(t)
	reportID := uuid.NewString()
	require.NoError(t, f.sections.UpsertBatch(context.Background(), []*entity.ReportSection{
		{ReportID: reportID, Key: entity.SectionMarket, Content: "market body"},
	}))

	content, err := f.svc.Content(context.Background(), reportID)
	require.NoError(t, err)
	require.Len(t, content, 7)
	assert.Equal(t, "market body", content[entity.SectionMarket])
	for _, key := range entity.OrderedSectionKeys() {
		_, ok := content[key]
		assert.True(t, ok, "missing key %s", key)
	}
	assert.Empty(t, content[entity.SectionLeadership])
}

func TestServiceApproveLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	// pending 状态不可审批
	_, err = f.svc.Approve(context.Background(), report.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)

	require.NoError(t, f.svc.Generate(context.Background(), report.ID))

	approved, err := f.svc.Approve(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusApproved, approved.Status)

	// 重复审批冲突
	_, err = f.svc.Approve(context.Background(), report.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestServicePDFURLWithoutObject(t *testing.T) {
	f := newServiceFixture(t)
	report, err := f.svc.Create(context.Background(), CreateInput{CompanyName: "Acme Robotics"})
	require.NoError(t, err)

	_, err = f.svc.PDFURL(context.Background(), report.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestBuildSectionEntitiesOrder(t *testing.T) {
	result := &Result{
		Sections: map[entity.SectionKey]string{},
		Statuses: map[entity.SectionKey]entity.SectionStatus{},
		Attempts: map[entity.SectionKey]int{},
	}
	for i, key := range entity.OrderedSectionKeys() {
		result.Sections[key] = fmt.Sprintf("content %d", i)
		result.Statuses[key] = entity.SectionStatusGenerated
		result.Attempts[key] = 1
	}

	sections := buildSectionEntities("rpt-1", result)
	require.Len(t, sections, 7)
	for i, sec := range sections {
		assert.Equal(t, i+1, sec.Position)
		assert.Equal(t, entity.OrderedSectionKeys()[i], sec.Key)
		assert.Equal(t, sec.Key.Title(), sec.Title)
	}
}
