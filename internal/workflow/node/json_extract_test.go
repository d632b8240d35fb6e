package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectPlainObject(t *testing.T) {
	in := `{"company_name":"Acme"}`
	assert.Equal(t, in, ExtractJSONObject(in))
}

func TestExtractJSONObjectStripsSurroundingProse(t *testing.T) {
	in := "Here is the profile you asked for:\n```json\n{\"company_name\": \"Acme\", \"industry\": \"Robotics\"}\n```\nLet me know if you need more."
	out := ExtractJSONObject(in)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Acme", parsed["company_name"])
}

func TestExtractJSONObjectPrefersFirstValue(t *testing.T) {
	in := `[1, 2, 3] trailing note`
	out := ExtractJSONObject(in)

	var parsed []any
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed, 3)
}

func TestExtractJSONObjectEmptyInput(t *testing.T) {
	assert.Equal(t, "", ExtractJSONObject(""))
	assert.Equal(t, "", ExtractJSONObject("   \n\t"))
}

func TestExtractJSONObjectNoJSONReturnsTrimmed(t *testing.T) {
	out := ExtractJSONObject("I could not produce a profile.")
	var parsed map[string]any
	assert.Error(t, json.Unmarshal([]byte(out), &parsed))
}

func TestIsTimeoutError(t *testing.T) {
	assert.True(t, IsTimeoutError(context.DeadlineExceeded))
	assert.True(t, IsTimeoutError(fmt.Errorf("call failed: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeoutError(context.Canceled))
	assert.False(t, IsTimeoutError(errors.New("timeout")))
}

func TestIsRetryableLLMError(t *testing.T) {
	assert.False(t, IsRetryableLLMError(nil))
	assert.True(t, IsRetryableLLMError(context.DeadlineExceeded))
	assert.True(t, IsRetryableLLMError(errors.New("Rate limit exceeded")))
	assert.True(t, IsRetryableLLMError(errors.New("upstream returned 429")))
	assert.True(t, IsRetryableLLMError(errors.New("request timeout")))
	assert.True(t, IsRetryableLLMError(errors.New("model temporarily unavailable")))
	assert.True(t, IsRetryableLLMError(errors.New("bad gateway: 502")))
	assert.False(t, IsRetryableLLMError(errors.New("invalid api key")))
}
