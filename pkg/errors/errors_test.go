package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodePromptContract, http.StatusBadRequest},
		{CodeReportNotFound, http.StatusNotFound},
		{CodeSegmentNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeDatabaseError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, New(c.code, "msg").HTTPStatus, "code %s", c.code)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppErrorPassthrough(t *testing.T) {
	orig := New(CodeReportNotFound, "report not found")
	got := AsAppError(orig)
	assert.Same(t, orig, got)
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	got := AsAppError(stderrors.New("something odd"))
	require.NotNil(t, got)
	assert.Equal(t, CodeUnknown, got.Code)
}

func TestErrorsAsFindsAppErrorThroughWrapping(t *testing.T) {
	inner := New(CodePromptContract, "prompt variable missing")
	wrapped := fmt.Errorf("section call: %w", inner)

	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, CodePromptContract, appErr.Code)
}

func TestWithDetailAndWithError(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(CodeConflict, "conflict").WithDetail("current status: approved").WithError(cause)
	assert.Equal(t, "current status: approved", err.Detail)
	assert.ErrorIs(t, err, cause)
}
