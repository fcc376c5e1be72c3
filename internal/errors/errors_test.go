package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsType(t *testing.T) {
	t.Run("Direct", func(t *testing.T) {
		err := Precondition("no repository under %s", "/tmp/nowhere")
		assert.True(t, IsType(err, ErrorTypePrecondition))
		assert.False(t, IsType(err, ErrorTypeApply))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("running scan: %w", Parse("bad record"))
		assert.True(t, IsType(err, ErrorTypeParse))
	})

	t.Run("Foreign", func(t *testing.T) {
		assert.False(t, IsType(fs.ErrNotExist, ErrorTypeApply))
		assert.False(t, IsType(nil, ErrorTypeApply))
	})
}

func TestApplyKeepsCause(t *testing.T) {
	err := Apply("a/b.txt", fs.ErrPermission)

	require.Error(t, err)
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Equal(t, "a/b.txt", err.Path)
	assert.Contains(t, err.Error(), "setting file times")
}

func TestPreconditionMessage(t *testing.T) {
	err := Precondition("%d uncommitted changes", 3)
	assert.Equal(t, "3 uncommitted changes", err.Error())
}
