package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
)

// fakeInvoker 记录每次调用的输入，按 PromptID 返回预置内容或错误。
type fakeInvoker struct {
	mu      sync.Mutex
	inputs  []*wfmodel.SectionGenerateInput
	outputs map[workflowprompt.PromptID]string
	errs    map[workflowprompt.PromptID]error
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{
		outputs: make(map[workflowprompt.PromptID]string),
		errs:    make(map[workflowprompt.PromptID]error),
	}
}

func (f *fakeInvoker) Invoke(ctx context.Context, in *wfmodel.SectionGenerateInput) (string, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if err := f.errs[in.PromptID]; err != nil {
		return "", err
	}
	if out, ok := f.outputs[in.PromptID]; ok {
		return out, nil
	}
	return "content for " + string(in.PromptID), nil
}

func (f *fakeInvoker) inputFor(id workflowprompt.PromptID) *wfmodel.SectionGenerateInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.inputs {
		if in.PromptID == id {
			return in
		}
	}
	return nil
}

func newTestOrchestrator(inv SectionInvoker) *Orchestrator {
	return NewOrchestrator(inv, nil, NewRetrier(1, 0, 0, NopPacer{}), "openai", 3)
}

func TestOrchestratorGenerateAllSevenKeysPresent(t *testing.T) {
	inv := newFakeInvoker()
	o := newTestOrchestrator(inv)

	res, err := o.Generate(context.Background(), Params{
		ReportID:    "rpt-1",
		CompanyName: "Acme Robotics",
	})
	require.NoError(t, err)

	keys := entity.OrderedSectionKeys()
	require.Len(t, res.Sections, len(keys))
	for _, key := range keys {
		content, ok := res.Sections[key]
		assert.True(t, ok, "missing section %s", key)
		assert.NotEmpty(t, content)
		assert.Equal(t, entity.SectionStatusGenerated, res.Statuses[key])
		assert.Equal(t, 1, res.Attempts[key])
	}
	assert.True(t, res.ResearchOK)
}

func TestOrchestratorGenerateSectionContextIncludesResearch(t *testing.T) {
	inv := newFakeInvoker()
	inv.outputs[workflowprompt.PromptResearcherV1] = "key finding: strong pipeline"
	o := newTestOrchestrator(inv)

	_, err := o.Generate(context.Background(), Params{
		ReportID:      "rpt-2",
		CompanyName:   "Acme Robotics",
		PitchDeckText: "We build robots.",
	})
	require.NoError(t, err)

	in := inv.inputFor(workflowprompt.PromptMarketV1)
	require.NotNil(t, in)
	assert.Equal(t, "Acme Robotics", in.Vars["company"])

	retrieved, _ := in.Vars["retrieved_context"].(string)
	assert.Contains(t, retrieved, "Pitch Deck Text:\nWe build robots.")
	assert.Contains(t, retrieved, "RESEARCHER FINDINGS:\nkey finding: strong pipeline")
	assert.NotContains(t, retrieved, researchWarningMarker)
}

func TestOrchestratorGenerateResearcherFailureDegrades(t *testing.T) {
	inv := newFakeInvoker()
	inv.errs[workflowprompt.PromptResearcherV1] = errors.New("research backend down")
	o := newTestOrchestrator(inv)

	res, err := o.Generate(context.Background(), Params{
		ReportID:    "rpt-3",
		CompanyName: "Acme Robotics",
	})
	require.NoError(t, err)
	assert.False(t, res.ResearchOK)

	in := inv.inputFor(workflowprompt.PromptFinancialV1)
	require.NotNil(t, in)
	retrieved, _ := in.Vars["retrieved_context"].(string)
	assert.Contains(t, retrieved, "[Warning: research stage encountered an error.]")
	assert.NotContains(t, retrieved, researchFindingsHeader)
}

func TestOrchestratorGenerateResearcherVarsDefaults(t *testing.T) {
	inv := newFakeInvoker()
	o := newTestOrchestrator(inv)

	_, err := o.Generate(context.Background(), Params{ReportID: "rpt-4"})
	require.NoError(t, err)

	in := inv.inputFor(workflowprompt.PromptResearcherV1)
	require.NotNil(t, in)
	assert.Equal(t, "Unknown Company", in.Vars["company_name"])
	assert.Equal(t, "General Industry", in.Vars["industry"])
	assert.Equal(t, "Unknown Stage", in.Vars["funding_stage"])
}

func TestOrchestratorGenerateSummaryContextOrderAndFormat(t *testing.T) {
	inv := newFakeInvoker()
	for _, spec := range sectionSpecs {
		inv.outputs[spec.PromptID] = "body of " + spec.SummaryLabel
	}
	o := newTestOrchestrator(inv)

	_, err := o.Generate(context.Background(), Params{
		ReportID:           "rpt-5",
		CompanyName:        "Acme Robotics",
		FounderName:        "Dana Lee",
		CompanyType:        "B2B SaaS",
		CompanyDescription: "warehouse robotics platform",
	})
	require.NoError(t, err)

	in := inv.inputFor(workflowprompt.PromptExecSummaryV1)
	require.NotNil(t, in)
	assert.Equal(t, "Dana Lee", in.Vars["founder_name"])
	assert.Equal(t, "B2B SaaS", in.Vars["company_type"])
	assert.Equal(t, "warehouse robotics platform", in.Vars["company_description"])

	summaryCtx, _ := in.Vars["retrieved_context"].(string)
	var want strings.Builder
	for _, spec := range sectionSpecs {
		fmt.Fprintf(&want, "SECTION %d: %s\nbody of %s\n\n", spec.Number, spec.SummaryLabel, spec.SummaryLabel)
	}
	assert.Equal(t, want.String(), summaryCtx)
}

func TestOrchestratorGenerateSummaryIncludesFailedSectionSentinel(t *testing.T) {
	inv := newFakeInvoker()
	inv.errs[workflowprompt.PromptLeadershipV1] = errors.New("model refused")
	o := newTestOrchestrator(inv)

	res, err := o.Generate(context.Background(), Params{
		ReportID:    "rpt-6",
		CompanyName: "Acme Robotics",
	})
	require.NoError(t, err)

	sentinel := FailureSentinel(entity.SectionLeadership.Title())
	assert.Equal(t, entity.SectionStatusFailed, res.Statuses[entity.SectionLeadership])
	assert.Equal(t, sentinel, res.Sections[entity.SectionLeadership])

	in := inv.inputFor(workflowprompt.PromptExecSummaryV1)
	require.NotNil(t, in)
	summaryCtx, _ := in.Vars["retrieved_context"].(string)
	assert.Contains(t, summaryCtx, "SECTION 5: Leadership & Team\n"+sentinel)
}

func TestOrchestratorGenerateNilEngineReportsDisabled(t *testing.T) {
	inv := newFakeInvoker()
	o := newTestOrchestrator(inv)

	res, err := o.Generate(context.Background(), Params{
		ReportID:    "rpt-7",
		CompanyName: "Acme Robotics",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.DisabledReason)
}

func TestOrchestratorGenerateNilInvokerRejected(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, "openai", 0)
	_, err := o.Generate(context.Background(), Params{ReportID: "rpt-8"})
	assert.Error(t, err)
}

func TestOrchestratorGenerateCancelledContext(t *testing.T) {
	inv := newFakeInvoker()
	o := newTestOrchestrator(inv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := o.Generate(ctx, Params{ReportID: "rpt-9", CompanyName: "Acme Robotics"})
	require.NoError(t, err)
	for _, spec := range sectionSpecs {
		assert.Equal(t, entity.SectionStatusCancelled, res.Statuses[spec.Key])
	}
	assert.Equal(t, entity.SectionStatusCancelled, res.Statuses[entity.SectionExecutiveSummary])
}
