package atomicwrite

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

func TestWriteFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "file.txt")

	n, err := WriteFrom(path, strings.NewReader("hello"), 0o644)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, WriteFile(path, []byte("bye"), 0o644))
	got, _ = os.ReadFile(path)
	assert.Equal(t, "bye", string(got))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestWriteFrom_FailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, WriteFile(path, []byte("old"), 0o644))

	_, err := WriteFrom(path, io.MultiReader(strings.NewReader("par"), failingReader{}), 0o644)
	require.Error(t, err)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "old", string(got))

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "temp file cleaned up")
}
