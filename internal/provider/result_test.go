package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResult_Success(t *testing.T) {
	r := Success(42)

	v, f := r.Get()
	assert.True(t, r.OK())
	assert.Nil(t, f)
	assert.Equal(t, 42, v)
}

func TestResult_NotConfigured(t *testing.T) {
	r := NotConfigured[string]()

	v, f := r.Get()
	assert.False(t, r.OK())
	assert.Empty(t, v)
	assert.ErrorIs(t, f, domain.ErrProviderNotConfigured)
	assert.Equal(t, "provider not configured", f.Error())
}

func TestResult_RequestFailedKeepsCause(t *testing.T) {
	r := RequestFailed[int](context.Canceled)

	_, f := r.Get()
	assert.ErrorIs(t, f, domain.ErrProviderRequestFailed)
	assert.ErrorIs(t, f, context.Canceled)
	assert.False(t, errors.Is(f, domain.ErrProviderNotConfigured))
	assert.Equal(t, "provider request failed: context canceled", f.Error())
}
