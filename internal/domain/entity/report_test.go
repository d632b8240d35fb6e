package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLifecycleManualReview(t *testing.T) {
	r := NewReport(TierStandard, "Acme Robotics")
	assert.Equal(t, ReportStatusPending, r.Status)
	assert.False(t, r.IsTerminal())

	r.Start()
	assert.Equal(t, ReportStatusProcessing, r.Status)
	require.NotNil(t, r.StartedAt)

	r.Complete(false)
	assert.Equal(t, ReportStatusReadyForReview, r.Status)
	assert.False(t, r.IsTerminal())

	assert.True(t, r.Approve())
	assert.Equal(t, ReportStatusApproved, r.Status)
	assert.True(t, r.IsTerminal())
}

func TestReportCompleteAutoApprove(t *testing.T) {
	r := NewReport(TierPremium, "Acme Robotics")
	r.Start()
	r.Complete(true)
	assert.Equal(t, ReportStatusApproved, r.Status)
	require.NotNil(t, r.CompletedAt)
}

func TestReportApproveRejectedFromNonReviewStates(t *testing.T) {
	for _, status := range []ReportStatus{
		ReportStatusPending,
		ReportStatusProcessing,
		ReportStatusFailed,
		ReportStatusCancelled,
		ReportStatusApproved,
	} {
		r := NewReport(TierStandard, "Acme Robotics")
		r.Status = status
		assert.False(t, r.Approve(), "status %s must not be approvable", status)
		assert.Equal(t, status, r.Status)
	}
}

func TestReportFailAndCancelAreTerminal(t *testing.T) {
	r := NewReport(TierStandard, "Acme Robotics")
	r.Fail("upstream error")
	assert.Equal(t, ReportStatusFailed, r.Status)
	assert.Equal(t, "upstream error", r.ErrorMessage)
	assert.True(t, r.IsTerminal())

	r2 := NewReport(TierStandard, "Acme Robotics")
	r2.Cancel()
	assert.Equal(t, ReportStatusCancelled, r2.Status)
	assert.True(t, r2.IsTerminal())
}

func TestNewReportDefaultsTier(t *testing.T) {
	r := NewReport("", "Acme Robotics")
	assert.Equal(t, TierStandard, r.Tier)
}

func TestReportJobRetryResetsState(t *testing.T) {
	j := NewReportJob("rpt-1", nil)
	j.Start()
	j.Fail("llm failure")
	assert.Equal(t, JobStatusFailed, j.Status)
	assert.True(t, j.CanRetry(3))

	j.Retry()
	assert.Equal(t, JobStatusPending, j.Status)
	assert.Equal(t, 1, j.RetryCount)
	assert.Empty(t, j.ErrorMessage)
	assert.Nil(t, j.StartedAt)
	assert.Nil(t, j.CompletedAt)
}

func TestReportJobCanRetryExhausted(t *testing.T) {
	j := NewReportJob("rpt-1", nil)
	j.Fail("boom")
	j.RetryCount = 3
	assert.False(t, j.CanRetry(3))

	j2 := NewReportJob("rpt-1", nil)
	j2.Complete()
	assert.False(t, j2.CanRetry(3))
}

func TestReportJobCompleteRecordsDuration(t *testing.T) {
	j := NewReportJob("rpt-1", nil)
	j.Start()
	j.Complete()
	assert.Equal(t, JobStatusCompleted, j.Status)
	require.NotNil(t, j.CompletedAt)
	assert.GreaterOrEqual(t, j.DurationMs, 0)
}

func TestOrderedSectionKeysStable(t *testing.T) {
	keys := OrderedSectionKeys()
	require.Len(t, keys, 7)
	assert.Equal(t, SectionExecutiveSummary, keys[0])
	assert.Equal(t, SectionRecommendations, keys[6])

	seen := make(map[SectionKey]bool, len(keys))
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
		assert.NotEmpty(t, k.Title())
	}
}

func TestSectionKeyTitleFallback(t *testing.T) {
	assert.Equal(t, "custom_key", SectionKey("custom_key").Title())
}

func TestSystemSettingBoolValue(t *testing.T) {
	cases := map[string]bool{
		"true":  true,
		"TRUE":  true,
		" 1 ":   true,
		"false": false,
		"0":     false,
		"yes":   false,
		"":      false,
	}
	for raw, want := range cases {
		s := &SystemSetting{Key: SettingAutoApproveReports, Value: raw}
		assert.Equal(t, want, s.BoolValue(), "value %q", raw)
	}
}
