package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPromptIDs() []PromptID {
	return []PromptID{
		PromptResearcherV1,
		PromptMarketV1,
		PromptFinancialV1,
		PromptGTMV1,
		PromptLeadershipV1,
		PromptInvestorFitV1,
		PromptRecommendationsV1,
		PromptExecSummaryV1,
		PromptStartupProfileV1,
	}
}

func TestRegistryLoadsEveryTemplate(t *testing.T) {
	r := NewRegistry()
	for _, id := range allPromptIDs() {
		tpl, err := r.ChatTemplate(id)
		require.NoError(t, err, "prompt %s", id)
		assert.NotNil(t, tpl)
	}
}

func TestRegistryUnknownPromptID(t *testing.T) {
	r := NewRegistry()
	_, err := r.ChatTemplate(PromptID("does_not_exist_v1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt id")
}

func TestRegistryCachesTemplates(t *testing.T) {
	r := NewRegistry()
	first, err := r.ChatTemplate(PromptMarketV1)
	require.NoError(t, err)
	second, err := r.ChatTemplate(PromptMarketV1)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSectionTemplateFormatsWithExpectedVars(t *testing.T) {
	r := NewRegistry()
	tpl, err := r.ChatTemplate(PromptMarketV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"company":           "Acme Robotics",
		"retrieved_context": "Relevant Context:\nnone",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Acme Robotics")
}

func TestSectionTemplateMissingVarFails(t *testing.T) {
	r := NewRegistry()
	tpl, err := r.ChatTemplate(PromptMarketV1)
	require.NoError(t, err)

	_, err = tpl.Format(context.Background(), map[string]any{
		"company": "Acme Robotics",
	})
	assert.Error(t, err)
}
