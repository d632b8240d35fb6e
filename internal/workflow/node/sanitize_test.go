package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTMLStripsScript(t *testing.T) {
	out := SanitizeHTML(`Hello <script>alert("x")</script><b>World</b>`)
	assert.Equal(t, "Hello <b>World</b>", out)
}

func TestSanitizeHTMLKeepsAllowedInlineTags(t *testing.T) {
	in := `<p>Summary with <strong>bold</strong>, <em>emphasis</em> and a <a href="https://example.com" rel="nofollow">link</a>.</p>`
	assert.Equal(t, in, SanitizeHTML(in))
}

func TestSanitizeHTMLDropsDisallowedSchemes(t *testing.T) {
	out := SanitizeHTML(`<a href="javascript:alert(1)">click</a>`)
	assert.NotContains(t, out, "javascript:")
}

func TestCleanseValueRecursesIntoMapsAndSlices(t *testing.T) {
	in := map[string]any{
		"name": `Acme <script>alert(1)</script>Robotics`,
		"founders": []any{
			"Dana <img src=x onerror=alert(1)>Lee",
			map[string]any{"bio": "<b>builder</b>"},
		},
		"employees": float64(42),
		"public":    true,
		"website":   nil,
	}

	out, ok := CleanseValue(in).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Acme Robotics", out["name"])

	founders, _ := out["founders"].([]any)
	assert.Equal(t, "Dana Lee", founders[0])
	nested, _ := founders[1].(map[string]any)
	assert.Equal(t, "<b>builder</b>", nested["bio"])

	assert.Equal(t, float64(42), out["employees"])
	assert.Equal(t, true, out["public"])
	assert.Nil(t, out["website"])
}
