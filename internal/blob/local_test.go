package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	k, err := CleanKey("audios/user_1/./a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "audios/user_1/a.mp3", k)

	for _, bad := range []string{"", "/etc/passwd", "../x", "a/../../x", "..", `a\b`} {
		_, err := CleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}

func TestLocal_PutDelete(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "audios/user_1/a.mp3", strings.NewReader("ID3"), 3, "audio/mpeg"))
	b, err := os.ReadFile(filepath.Join(root, "audios", "user_1", "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(b))

	require.NoError(t, l.Delete(ctx, "audios/user_1/a.mp3"))
	assert.ErrorIs(t, l.Delete(ctx, "audios/user_1/a.mp3"), ErrNotFound)
	assert.ErrorIs(t, l.Put(ctx, "../escape", strings.NewReader("x"), 1, ""), ErrInvalidKey)
}
