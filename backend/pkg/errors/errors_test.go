package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorMessage(t *testing.T) {
	plain := NewBaseError(ErrorTypeRequest, "bad depth", nil)
	assert.Equal(t, "[request] bad depth", plain.Error())
	assert.Nil(t, plain.Unwrap())

	cause := stderrors.New("connection refused")
	wrapped := NewBaseError(ErrorTypeGraph, "query failed", cause)
	assert.Equal(t, "[graph] query failed: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.False(t, wrapped.Timestamp.IsZero())
}

func TestIsErrorType(t *testing.T) {
	dup := NewDuplicateEntity("python")
	assert.True(t, IsErrorType(dup, ErrorTypeDataset))
	assert.False(t, IsErrorType(dup, ErrorTypeGraph))
	assert.False(t, IsErrorType(nil, ErrorTypeDataset))
	assert.False(t, IsErrorType(stderrors.New("plain"), ErrorTypeDataset))

	// wrapped with fmt.Errorf
	assert.True(t, IsErrorType(fmt.Errorf("loading: %w", dup), ErrorTypeDataset))

	// joined errors match on any member
	joined := stderrors.Join(stderrors.New("other"), NewInvalidRequest("depth", "too deep"))
	assert.True(t, IsErrorType(joined, ErrorTypeRequest))
	assert.False(t, IsErrorType(joined, ErrorTypeConfig))
}

func TestTypedErrorsCarryFields(t *testing.T) {
	var dangling *ErrDanglingRelationship
	require.ErrorAs(t, fmt.Errorf("build: %w", NewDanglingRelationship("a", "b", "b")), &dangling)
	assert.Equal(t, "b", dangling.Missing)

	var strength *ErrInvalidStrength
	require.ErrorAs(t, NewInvalidStrength("a", "b", 1.5), &strength)
	assert.Equal(t, 1.5, strength.Strength)

	var send *ErrTransportSendFailed
	require.ErrorAs(t, NewTransportSendFailed("discord", "chan-1", stderrors.New("429")), &send)
	assert.Equal(t, "discord", send.Surface)
	assert.Contains(t, send.Error(), "chan-1")

	var evalCase *ErrInvalidEvalCase
	require.ErrorAs(t, NewInvalidEvalCase("faq_email", "question is empty"), &evalCase)
	assert.Equal(t, "faq_email", evalCase.Name)
	assert.True(t, IsErrorType(evalCase, ErrorTypeDataset))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", NewEntityNotFound("ghost"))))
	assert.False(t, IsNotFound(NewInvalidRequest("id", "empty")))
}

func TestIsRetryable(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")

	assert.True(t, IsRetryable(NewGraphConnectionFailed("bolt://localhost:7687", cause)))
	assert.True(t, IsRetryable(NewTransportSendFailed("discord", "c", cause)))
	assert.False(t, IsRetryable(NewGraphQueryFailed("merge", cause)))
	assert.False(t, IsRetryable(NewConfigMissingRequired("PORT")))
	assert.False(t, IsRetryable(NewInvalidFAQ(3, "empty answer")))
}
