package inspect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMissing(t *testing.T) {
	fs := filesystem.NewOS()

	facts, err := inspect.Path(fs, filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.False(t, facts.Exists)
	assert.False(t, facts.IsLink)
}

func TestPathRegularFile(t *testing.T) {
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	facts, err := inspect.Path(fs, path)
	require.NoError(t, err)
	assert.True(t, facts.Exists)
	assert.False(t, facts.IsLink)
	assert.False(t, facts.IsDir)
}

func TestPathDirectory(t *testing.T) {
	fs := filesystem.NewOS()
	path := filepath.Join(t.TempDir(), "dir")
	require.NoError(t, os.Mkdir(path, 0755))

	facts, err := inspect.Path(fs, path)
	require.NoError(t, err)
	assert.True(t, facts.Exists)
	assert.True(t, facts.IsDir)
}

func TestPathSymlink(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	require.NoError(t, os.Symlink(target, link))

	facts, err := inspect.Path(fs, link)
	require.NoError(t, err)
	assert.True(t, facts.Exists)
	assert.True(t, facts.IsLink)
	assert.Equal(t, target, facts.Target)
}

func TestPathDanglingSymlink(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("/nonexistent/target", link))

	facts, err := inspect.Path(fs, link)
	require.NoError(t, err)
	assert.True(t, facts.Exists)
	assert.True(t, facts.IsLink)
	assert.Equal(t, "/nonexistent/target", facts.Target)
}
