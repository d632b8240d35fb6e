package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guygrubbs/dap-deploy-sub000/internal/domain/entity"
	apperrors "github.com/guygrubbs/dap-deploy-sub000/pkg/errors"
)

type fakeSettingRepo struct {
	settings map[string]string
	err      error
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*entity.SystemSetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.settings[key]
	if !ok {
		return nil, apperrors.ErrSettingNotFound
	}
	return &entity.SystemSetting{Key: key, Value: v}, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	if f.settings == nil {
		f.settings = make(map[string]string)
	}
	f.settings[key] = value
	return nil
}

func TestApprovalPolicyAutoApproveEnabled(t *testing.T) {
	repo := &fakeSettingRepo{settings: map[string]string{
		entity.SettingAutoApproveReports: "true",
	}}
	p := NewApprovalPolicy(repo)
	assert.True(t, p.AutoApprove(context.Background()))
}

func TestApprovalPolicyAutoApproveDisabled(t *testing.T) {
	repo := &fakeSettingRepo{settings: map[string]string{
		entity.SettingAutoApproveReports: "false",
	}}
	p := NewApprovalPolicy(repo)
	assert.False(t, p.AutoApprove(context.Background()))
}

func TestApprovalPolicyMissingSettingDefaultsToManual(t *testing.T) {
	p := NewApprovalPolicy(&fakeSettingRepo{})
	assert.False(t, p.AutoApprove(context.Background()))
}

func TestApprovalPolicyLookupErrorDefaultsToManual(t *testing.T) {
	repo := &fakeSettingRepo{err: apperrors.New(apperrors.CodeDatabaseError, "connection lost")}
	p := NewApprovalPolicy(repo)
	assert.False(t, p.AutoApprove(context.Background()))
}

func TestApprovalPolicyUnparsableValueDefaultsToManual(t *testing.T) {
	repo := &fakeSettingRepo{settings: map[string]string{
		entity.SettingAutoApproveReports: "yes please",
	}}
	p := NewApprovalPolicy(repo)
	assert.False(t, p.AutoApprove(context.Background()))
}

func TestApprovalPolicyNilRepository(t *testing.T) {
	p := NewApprovalPolicy(nil)
	assert.False(t, p.AutoApprove(context.Background()))
}
