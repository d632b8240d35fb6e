package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStartupProfileWellFormed(t *testing.T) {
	raw := `{
		"company_name": "Acme Robotics",
		"industry": "Industrial Automation",
		"funding_stage": "Series A",
		"founder_name": "Dana Lee"
	}`

	profile := ParseStartupProfile(context.Background(), raw)
	assert.Equal(t, "Acme Robotics", profile["company_name"])
	assert.Equal(t, "Industrial Automation", profile["industry"])
	assert.Equal(t, "Series A", profile["funding_stage"])
	assert.Equal(t, "Dana Lee", profile["founder_name"])
}

func TestParseStartupProfileWithSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the extracted profile:\n```json\n{\"company_name\": \"Acme Robotics\", \"website\": \"https://acme.example\"}\n```"

	profile := ParseStartupProfile(context.Background(), raw)
	assert.Equal(t, "Acme Robotics", profile["company_name"])
	assert.Equal(t, "https://acme.example", profile["website"])
}

func TestParseStartupProfileGarbageReturnsEmpty(t *testing.T) {
	profile := ParseStartupProfile(context.Background(), "I am unable to extract a profile from this document.")
	require.NotNil(t, profile)
	assert.Empty(t, profile)
}

func TestParseStartupProfileEmptyReturnsEmpty(t *testing.T) {
	profile := ParseStartupProfile(context.Background(), "")
	require.NotNil(t, profile)
	assert.Empty(t, profile)
}

func TestParseStartupProfileFiltersUndeclaredFields(t *testing.T) {
	raw := `{
		"company_name": "Acme Robotics",
		"confidence": 0.93,
		"internal_notes": "do not show",
		"industry": "Robotics"
	}`

	profile := ParseStartupProfile(context.Background(), raw)
	assert.Equal(t, "Acme Robotics", profile["company_name"])
	assert.Equal(t, "Robotics", profile["industry"])
	assert.NotContains(t, profile, "confidence")
	assert.NotContains(t, profile, "internal_notes")
}

func TestParseStartupProfileSanitizesNestedStrings(t *testing.T) {
	raw := `{
		"company_name": "Acme <script>alert(1)</script>Robotics",
		"company_description": "We build <b>robots</b> for <iframe src=x></iframe>warehouses"
	}`

	profile := ParseStartupProfile(context.Background(), raw)
	assert.Equal(t, "Acme Robotics", profile["company_name"])
	assert.Equal(t, "We build <b>robots</b> for warehouses", profile["company_description"])
}

func TestParseStartupProfileKeepsNonStringLeaves(t *testing.T) {
	raw := `{"company_name": "Acme", "location": null}`

	profile := ParseStartupProfile(context.Background(), raw)
	assert.Equal(t, "Acme", profile["company_name"])
	v, ok := profile["location"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
