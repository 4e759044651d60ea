package helpers

import (
	"errors"
	"fmt"
	"testing"

	"golden-cross/src/logger"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	noData := NewNoDataFound("ZZZZ")
	failed := NewFetchFailed("AAPL", errors.New("connection reset"))
	wrapped := fmt.Errorf("render: %w", failed)

	assert.True(t, IsNoData(noData))
	assert.False(t, IsFetchFailed(noData))
	assert.True(t, IsFetchFailed(wrapped))
	assert.False(t, IsNoData(wrapped))
	assert.True(t, IsValidation(NewValidationError("years must be between 1 and 10, got %d", 12)))

	assert.Equal(t, "no data found for ZZZZ", noData.Error())
	assert.Equal(t, "fetch AAPL failed: connection reset", failed.Error())
	assert.ErrorIs(t, NewCacheError("store", errInner), errInner)
}

var errInner = errors.New("disk full")

func TestFetchFailureCause(t *testing.T) {
	assert.Equal(t, "bad status: 429", FetchFailureCause(NewFetchFailed("AAPL", errors.New("bad status: 429"))))
	assert.Equal(t, "plain", FetchFailureCause(errors.New("plain")))
}

func TestAsAdapterError(t *testing.T) {
	assert.NoError(t, AsAdapterError("AAPL", nil))

	noData := NewNoDataFound("AAPL")
	assert.Same(t, noData, AsAdapterError("AAPL", noData))

	err := AsAdapterError("AAPL", errors.New("json unmarshal failed"))
	assert.True(t, IsFetchFailed(err))
	assert.Equal(t, "json unmarshal failed", FetchFailureCause(err))
}

func TestErrorHandlerCountsUnexpectedOnly(t *testing.T) {
	h := NewErrorHandler(logger.Nop())

	h.Handle(nil, "nil")
	h.Handle(NewNoDataFound("ZZZZ"), "fetch")
	h.Handle(NewValidationError("bad"), "request")
	assert.Equal(t, int64(0), h.ErrorCount())

	h.Handle(NewFetchFailed("AAPL", errors.New("timeout")), "fetch")
	h.Handle(errors.New("boom"), "analyze")
	assert.Equal(t, int64(2), h.ErrorCount())

	h.ResetErrorCount()
	assert.Equal(t, int64(0), h.ErrorCount())
}
