package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncError_Format(t *testing.T) {
	err := NewError(GRAPH_SAVE_FAILED, "save failed")
	assert.Equal(t, "[GRAPH_SAVE_FAILED] save failed", err.Error())

	wrapped := WrapError(STORE_REQUEST_FAILED, "request failed", errors.New("connection refused"))
	assert.Equal(t, "[STORE_REQUEST_FAILED] request failed: connection refused", wrapped.Error())
}

func TestSyncError_UnwrapChain(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(GRAPH_GET_FAILED, "get failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, fmt.Errorf("outer: %w", err), NewError(GRAPH_GET_FAILED, "any message"))
}

func TestCodeOf(t *testing.T) {
	err := WrapError(GRAPH_LIST_FAILED, "list failed", errors.New("x"))
	assert.Equal(t, GRAPH_LIST_FAILED, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, GRAPH_LIST_FAILED, syncErr.Code)
}
