// Package testutil provides isolated test environments and filesystem
// assertions for the reconciliation engine's tests. Every environment
// lives in its own temp directory; nothing touches the real home.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/registry"
	"github.com/arthur-debert/relink/pkg/types"
)

// Env is a self-contained filesystem layout for one test: a fake home,
// a repository root and a backups root, all under one temp directory.
type Env struct {
	T           *testing.T
	FS          types.FS
	Home        string
	RepoRoot    string
	BackupsRoot string
}

// NewEnv creates an isolated environment under t.TempDir()
func NewEnv(t *testing.T) *Env {
	t.Helper()
	root := t.TempDir()

	env := &Env{
		T:           t,
		FS:          filesystem.NewOS(),
		Home:        filepath.Join(root, "home"),
		RepoRoot:    filepath.Join(root, "repo"),
		BackupsRoot: filepath.Join(root, "backups"),
	}
	require.NoError(t, os.MkdirAll(env.Home, 0755))
	require.NoError(t, os.MkdirAll(env.RepoRoot, 0755))
	return env
}

// Managed builds a registry entry with the system side under Home and the
// repo side under RepoRoot
func (e *Env) Managed(name string, kind types.PathKind, category types.Category) types.ManagedPath {
	return types.ManagedPath{
		Name:       name,
		SystemPath: filepath.Join(e.Home, name),
		RepoPath:   filepath.Join(e.RepoRoot, name),
		Kind:       kind,
		Category:   category,
	}
}

// Registry wraps entries in a loaded-registry value rooted at RepoRoot
func (e *Env) Registry(entries ...types.ManagedPath) *registry.Registry {
	return &registry.Registry{RepoRoot: e.RepoRoot, Entries: entries}
}

// WriteSystem creates a real file on the system side of an entry
func (e *Env) WriteSystem(mp types.ManagedPath, content string) {
	e.T.Helper()
	require.NoError(e.T, os.MkdirAll(filepath.Dir(mp.SystemPath), 0755))
	require.NoError(e.T, os.WriteFile(mp.SystemPath, []byte(content), 0644))
}

// WriteRepo creates a real file on the repo side of an entry
func (e *Env) WriteRepo(mp types.ManagedPath, content string) {
	e.T.Helper()
	require.NoError(e.T, os.MkdirAll(filepath.Dir(mp.RepoPath), 0755))
	require.NoError(e.T, os.WriteFile(mp.RepoPath, []byte(content), 0644))
}

// LinkSystem makes the system side a symlink to target
func (e *Env) LinkSystem(mp types.ManagedPath, target string) {
	e.T.Helper()
	require.NoError(e.T, os.MkdirAll(filepath.Dir(mp.SystemPath), 0755))
	require.NoError(e.T, os.Symlink(target, mp.SystemPath))
}
