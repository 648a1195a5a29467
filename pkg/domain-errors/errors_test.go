package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeNotFound, "patient not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("wrapped with fmt", func(t *testing.T) {
		base := New(CodeConflict, "duplicate")
		err := fmt.Errorf("%w: license MP001", base)
		assert.True(t, HasCode(err, CodeConflict))
		assert.True(t, errors.Is(err, base))
	})

	t.Run("inner code reachable through Wrap", func(t *testing.T) {
		inner := New(CodeSchedulingConflict, "doctor not working that day")
		err := Wrap(inner, CodeInternal, "scheduling failed")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeSchedulingConflict))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.False(t, HasCode(nil, CodeNotFound))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("message includes cause", func(t *testing.T) {
		err := Wrap(errors.New("lock timeout"), CodeTimeout, "transaction aborted")
		require.Error(t, err)
		assert.Equal(t, "transaction aborted: lock timeout", err.Error())
		assert.True(t, Is(err, CodeTimeout))
	})
}
