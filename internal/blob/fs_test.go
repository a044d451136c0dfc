package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	require.NoError(t, err)

	ctx := context.Background()

	name, err := fs.Save(ctx, ".png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), "extension should be preserved, got %q", name)

	rc, err := fs.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "image-bytes", string(data))

	require.NoError(t, fs.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	_, err = fs.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, fs.Delete(ctx, name), ErrNotFound)
}

func TestFSRejectsUnsafeExtensions(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	for _, ext := range []string{"../../etc/passwd", ".p/ng", "png", ".a b"} {
		name, err := fs.Save(context.Background(), ext, strings.NewReader("x"))
		require.NoError(t, err)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, " ")
	}
}

func TestFSRejectsTraversalNames(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		_, err := fs.Open(context.Background(), name)
		assert.ErrorIs(t, err, ErrNotFound, "name %q", name)
		assert.ErrorIs(t, fs.Delete(context.Background(), name), ErrNotFound, "name %q", name)
	}
}
