package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntitySentinelsWrapBaseErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(ErrTaskNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrOccurrenceExists, ErrDuplicate))
	assert.False(t, errors.Is(ErrTaskNotFound, ErrDuplicate))
	assert.False(t, errors.Is(ErrOccurrenceExists, ErrNotFound))
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "base not found", err: ErrNotFound, want: true},
		{name: "task not found", err: ErrTaskNotFound, want: true},
		{name: "wrapped task not found", err: fmt.Errorf("lookup: %w", ErrTaskNotFound), want: true},
		{name: "duplicate", err: ErrOccurrenceExists, want: false},
		{name: "unrelated", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrOccurrenceExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrOccurrenceExists)))
	assert.False(t, IsDuplicateError(ErrTaskNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreErrorFormatting(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	withCause := NewStoreError("task", "create", "insert failed", cause)
	assert.Equal(t, "create operation on task failed: insert failed: connection reset", withCause.Error())
	assert.True(t, errors.Is(withCause, cause))

	withoutCause := NewStoreError("sweep_run", "record", "nothing to record", nil)
	assert.Equal(t, "record operation on sweep_run failed: nothing to record", withoutCause.Error())
	assert.Nil(t, errors.Unwrap(withoutCause))
}

func TestStoreErrorPreservesSentinelChecks(t *testing.T) {
	t.Parallel()

	err := NewStoreError("task", "get_by_id", "row lookup failed", ErrTaskNotFound)

	assert.True(t, IsNotFoundError(err))

	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "get_by_id", storeErr.Operation)
}
