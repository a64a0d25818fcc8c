package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/registry"
	"github.com/arthur-debert/relink/pkg/types"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullRegistry(t *testing.T) {
	path := writeRegistry(t, `
repo_root = "/repo"

[[paths]]
name = "gitconfig"
system = "/home/user/.gitconfig"
repo = "git/gitconfig"
kind = "file"
category = "shared"

[[paths]]
name = "gnupg"
system = "/home/user/.gnupg"
repo = "/elsewhere/gnupg"
kind = "directory"
category = "identity"
`)

	reg, err := registry.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/repo", reg.RepoRoot)
	require.Len(t, reg.Entries, 2)

	first := reg.Entries[0]
	assert.Equal(t, "gitconfig", first.Name)
	assert.Equal(t, "/home/user/.gitconfig", first.SystemPath)
	assert.Equal(t, filepath.Join("/repo", "git", "gitconfig"), first.RepoPath)
	assert.Equal(t, types.KindFile, first.Kind)
	assert.Equal(t, types.CategoryShared, first.Category)

	second := reg.Entries[1]
	assert.Equal(t, "/elsewhere/gnupg", second.RepoPath, "absolute repo paths bypass repo_root")
	assert.Equal(t, types.KindDirectory, second.Kind)
	assert.Equal(t, types.CategoryIdentity, second.Category)
}

func TestLoadDefaultsOnly(t *testing.T) {
	reg, err := registry.Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.RepoRoot)
	assert.Empty(t, reg.Entries)
}

func TestEntryOrderIsPreserved(t *testing.T) {
	path := writeRegistry(t, `
repo_root = "/repo"

[[paths]]
name = "zz"
system = "/home/user/.zz"
repo = "zz"
category = "shared"

[[paths]]
name = "aa"
system = "/home/user/.aa"
repo = "aa"
category = "shared"
`)

	reg, err := registry.Load(path)
	require.NoError(t, err)
	require.Len(t, reg.Entries, 2)
	assert.Equal(t, "zz", reg.Entries[0].Name)
	assert.Equal(t, "aa", reg.Entries[1].Name)
}

func TestExpansion(t *testing.T) {
	t.Setenv("RELINK_TEST_ROOT", "/expanded")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := writeRegistry(t, `
repo_root = "$RELINK_TEST_ROOT/repo"

[[paths]]
name = "rc"
system = "~/.rc"
repo = "rc"
category = "shared"
`)

	reg, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/expanded/repo", reg.RepoRoot)
	assert.Equal(t, filepath.Join(home, ".rc"), reg.Entries[0].SystemPath)
}

func TestKindDefaultsToFile(t *testing.T) {
	path := writeRegistry(t, `
repo_root = "/repo"

[[paths]]
name = "rc"
system = "/home/user/.rc"
repo = "rc"
category = "script"
`)

	reg, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.KindFile, reg.Entries[0].Kind)
}

func TestInvalidRegistries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown category",
			content: `
repo_root = "/repo"
[[paths]]
system = "/home/user/.rc"
repo = "rc"
category = "mystery"
`,
		},
		{
			name: "unknown kind",
			content: `
repo_root = "/repo"
[[paths]]
system = "/home/user/.rc"
repo = "rc"
kind = "socket"
category = "shared"
`,
		},
		{
			name: "missing system path",
			content: `
repo_root = "/repo"
[[paths]]
name = "rc"
repo = "rc"
category = "shared"
`,
		},
		{
			name: "missing repo path",
			content: `
repo_root = "/repo"
[[paths]]
system = "/home/user/.rc"
category = "shared"
`,
		},
		{
			name: "relative system path",
			content: `
repo_root = "/repo"
[[paths]]
system = ".rc"
repo = "rc"
category = "shared"
`,
		},
		{
			name: "duplicate entries",
			content: `
repo_root = "/repo"
[[paths]]
name = "rc"
system = "/home/user/.rc"
repo = "rc"
category = "shared"
[[paths]]
name = "rc"
system = "/home/user/.rc2"
repo = "rc2"
category = "shared"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Load(writeRegistry(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryInvalid))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := registry.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryLoad))
}

func TestCheckRepoRoot(t *testing.T) {
	dir := t.TempDir()
	fs := filesystem.NewOS()

	reg := &registry.Registry{RepoRoot: dir}
	assert.NoError(t, reg.CheckRepoRoot(fs))

	reg = &registry.Registry{RepoRoot: filepath.Join(dir, "missing")}
	err := reg.CheckRepoRoot(fs)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoRootMissing))
}
