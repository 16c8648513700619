package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	t.Run("Wrap plain error", func(t *testing.T) {
		original := errors.New("connection refused")
		err := NewError("create index", original)

		require.Error(t, err)
		assert.Equal(t, "create index: connection refused", err.Error())
		assert.ErrorIs(t, err, original, "Expected wrapped error to unwrap to original")
	})

	t.Run("Wrap helper error appends trace", func(t *testing.T) {
		original := errors.New("timeout")
		err := NewError("index document", original)
		err = NewError("ingest", err)

		var helperErr Error
		require.True(t, errors.As(err, &helperErr))
		assert.Equal(t, []string{"index document", "ingest"}, helperErr.Trace)
		assert.Equal(t, "ingest: index document: timeout", err.Error())
		assert.ErrorIs(t, err, original)
	})

	t.Run("Rewrapping does not mutate the inner trace", func(t *testing.T) {
		inner := NewError("search", errors.New("boom"))
		_ = NewError("compare a", inner)
		second := NewError("compare b", inner)

		assert.Equal(t, "compare b: search: boom", second.Error())
	})
}
