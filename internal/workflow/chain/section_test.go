package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wfmodel "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/model"
	workflowprompt "github.com/guygrubbs/dap-deploy-sub000/internal/workflow/prompt"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

func TestFormatSectionMessagesComplete(t *testing.T) {
	msgs, err := formatSectionMessages(context.Background(), workflowprompt.PromptGTMV1, map[string]any{
		"company":           "Acme Robotics",
		"retrieved_context": "some context",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Acme Robotics")
}

func TestFormatSectionMessagesMissingVarIsContractError(t *testing.T) {
	_, err := formatSectionMessages(context.Background(), workflowprompt.PromptGTMV1, map[string]any{
		"company": "Acme Robotics",
	})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodePromptContract, appErr.Code)
}

func TestFormatSectionMessagesUnknownPrompt(t *testing.T) {
	_, err := formatSectionMessages(context.Background(), workflowprompt.PromptID("nope_v1"), nil)
	assert.Error(t, err)
}

func TestBuildSectionModelOptions(t *testing.T) {
	assert.Empty(t, buildSectionModelOptions(nil))
	assert.Empty(t, buildSectionModelOptions(&wfmodel.SectionGenerateInput{}))

	temp := float32(0.4)
	maxTokens := 2048
	opts := buildSectionModelOptions(&wfmodel.SectionGenerateInput{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Model:       " gpt-4o ",
	})
	assert.Len(t, opts, 3)
}

func TestSectionChainRejectsBadInput(t *testing.T) {
	var nilChain *SectionChain
	_, err := nilChain.Invoke(context.Background(), &wfmodel.SectionGenerateInput{Provider: "openai"})
	assert.Error(t, err)

	c := NewSectionChain(nil)
	_, err = c.Invoke(context.Background(), &wfmodel.SectionGenerateInput{Provider: "openai"})
	assert.Error(t, err)
}
