package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	t.Run("SaveAndOpen", func(t *testing.T) {
		require.NoError(t, store.Save("a1b2.png", strings.NewReader("png-bytes")))

		rc, err := store.Open("a1b2.png")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		require.NoError(t, store.Save("a1b2.png", strings.NewReader("v1")))
		require.NoError(t, store.Save("a1b2.png", strings.NewReader("v2")))

		rc, err := store.Open("a1b2.png")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open("nope.png")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		require.NoError(t, store.Save("gone.png", strings.NewReader("x")))
		assert.NoError(t, store.Delete("gone.png"))
		assert.NoError(t, store.Delete("gone.png"))
	})

	t.Run("KeyCannotEscapeDirectory", func(t *testing.T) {
		require.NoError(t, store.Save("../escape.png", strings.NewReader("x")))

		rc, err := store.Open("escape.png")
		require.NoError(t, err)
		rc.Close()
	})
}
