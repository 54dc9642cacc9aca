package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestCopyAtomic(t *testing.T) {
	t.Run("creates file and parents", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "pages", "Dune.md")

		n, err := copyAtomic(filename, strings.NewReader("- spice\n"), 0644)
		require.NoError(t, err)
		assert.Equal(t, int64(8), n)

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "- spice\n", string(got))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "page.md")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))

		_, err := copyAtomic(filename, strings.NewReader("overwritten"), 0644)
		require.NoError(t, err)

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("failed read leaves target untouched", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "page.md")
		require.NoError(t, os.WriteFile(filename, []byte("keep me"), 0644))

		_, err := copyAtomic(filename, io.MultiReader(strings.NewReader("partial"), failingReader{}), 0644)
		require.Error(t, err)

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "keep me", string(got))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file must be cleaned up")
	})
}
