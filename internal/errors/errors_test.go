package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/talentscout/internal/errors"
)

func TestAs_FindsWrappedAppError(t *testing.T) {
	base := apperrors.NewValidationError("age", "must be a whole number")
	wrapped := fmt.Errorf("submit youth profile: %w", base)

	got, ok := apperrors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, got.Code)
	assert.Equal(t, "age", got.Field)
	assert.True(t, apperrors.HasCode(wrapped, apperrors.ErrCodeValidation))
}

func TestAs_PlainError(t *testing.T) {
	_, ok := apperrors.As(stderrors.New("boom"))
	assert.False(t, ok)
	assert.False(t, apperrors.HasCode(nil, apperrors.ErrCodeInternal))
}

func TestGatewayError_KeepsMessageAndCause(t *testing.T) {
	cause := stderrors.New("duplicate key value violates unique constraint")
	err := apperrors.NewGatewayError(409, cause.Error(), cause)

	assert.Equal(t, 409, err.Status)
	assert.Equal(t, cause.Error(), err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestGatewayError_DefaultStatus(t *testing.T) {
	err := apperrors.NewGatewayError(0, "upstream failed", nil)
	assert.Equal(t, 502, err.Status)
	assert.Equal(t, "GATEWAY_ERROR: upstream failed", err.Error())
}

func TestInProgressError(t *testing.T) {
	err := apperrors.NewInProgressError("basic profile")
	assert.Equal(t, 409, err.Status)
	assert.Contains(t, err.Message, "basic profile")
}

func TestCanceledError(t *testing.T) {
	cause := stderrors.New("context canceled")
	err := apperrors.NewCanceledError("profile load", cause)

	assert.Equal(t, apperrors.ErrCodeCanceled, err.Code)
	assert.Equal(t, apperrors.StatusClientClosedRequest, err.Status)
	assert.Equal(t, "profile load canceled", err.Message)
	assert.ErrorIs(t, err, cause)
}
