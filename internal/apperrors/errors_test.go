package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidation("quantity", "must be positive")
	require.EqualError(t, err, "quantity: must be positive")
	require.True(t, IsValidation(err))
	require.False(t, IsAuth(err))
}

func TestUpstreamErrorWraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstream("price feed", cause)
	require.ErrorIs(t, err, cause)
	require.True(t, IsUpstream(err))

	wrapped := fmt.Errorf("refresh failed: %w", err)
	require.True(t, IsUpstream(wrapped))
}

func TestClassifiersOnWrappedErrors(t *testing.T) {
	err := fmt.Errorf("update: %w", NewConflict("transaction", "tx-1"))
	require.True(t, IsConflict(err))
	require.False(t, IsNotFound(err))

	err = fmt.Errorf("lookup: %w", NewNotFound("transaction", "tx-2"))
	require.True(t, IsNotFound(err))

	err = fmt.Errorf("gate: %w", NewAuth("missing token"))
	require.True(t, IsAuth(err))
}
