package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSymlinkTo fails unless link is a symlink whose raw target equals
// target exactly (no normalization, matching the engine's comparison)
func AssertSymlinkTo(t *testing.T, link, target string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err, "expected a symlink at %s", link)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s is not a symlink", link)

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got, "wrong link target at %s", link)
}

// AssertFileContent fails unless path holds exactly content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// AssertNotExists fails if anything is present at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "expected nothing at %s", path)
}

// AssertRealFile fails unless path is a regular file (not a link)
func AssertRealFile(t *testing.T, path string) {
	t.Helper()

	info, err := os.Lstat(path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "%s is not a regular file", path)
}
