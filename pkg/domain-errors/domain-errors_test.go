package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "certificate not found")

	assert.EqualError(t, err, "certificate not found")
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestError_MessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeRateLimited}
	assert.EqualError(t, err, "rate_limited")
}

func TestWrap_PreservesOriginalCode(t *testing.T) {
	inner := New(CodeCertificatePending, "credential not issued yet")
	outer := Wrap(inner, CodeInternal, "share url generation failed")

	// The inner domain code wins over the wrapping code.
	assert.True(t, HasCode(outer, CodeCertificatePending))
	assert.False(t, HasCode(outer, CodeInternal))
	assert.EqualError(t, outer, "share url generation failed")
}

func TestWrap_PlainError(t *testing.T) {
	inner := fmt.Errorf("sql: connection refused")
	outer := Wrap(inner, CodeInternal, "failed to load progress")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, errors.Is(outer, inner))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(CodeNotEnrolled, "enroll first")
	b := New(CodeNotEnrolled, "different message")

	assert.True(t, errors.Is(a, b))
}

func TestHasCode_NonDomainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}
