package execute_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/relink/pkg/backup"
	"github.com/arthur-debert/relink/pkg/execute"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/platform"
	"github.com/arthur-debert/relink/pkg/types"
)

type env struct {
	executor *execute.Executor
	backups  *backup.Manager
	home     string
	repo     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	backups := backup.NewManager(fsys, filepath.Join(dir, "backups"), time.Now())
	linker := platform.NewLinker(fsys, platform.Detect())

	home := filepath.Join(dir, "home")
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(home, 0755))
	require.NoError(t, os.MkdirAll(repo, 0755))

	return &env{
		executor: execute.New(fsys, backups, linker),
		backups:  backups,
		home:     home,
		repo:     repo,
	}
}

func (e *env) managed(name string, kind types.PathKind, category types.Category) types.ManagedPath {
	return types.ManagedPath{
		Name:       name,
		SystemPath: filepath.Join(e.home, name),
		RepoPath:   filepath.Join(e.repo, name),
		Kind:       kind,
		Category:   category,
	}
}

func assertLinkTo(t *testing.T, link, target string) {
	t.Helper()
	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestCreateLink(t *testing.T) {
	e := newEnv(t)
	mp := e.managed(".vimrc", types.KindFile, types.CategoryShared)
	require.NoError(t, os.WriteFile(mp.RepoPath, []byte("syntax on\n"), 0644))

	results, err := e.executor.Apply([]types.Action{{Kind: types.ActionCreateLink, Path: mp}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success())

	assertLinkTo(t, mp.SystemPath, mp.RepoPath)

	// repo copy untouched, no backup taken
	content, err := os.ReadFile(mp.RepoPath)
	require.NoError(t, err)
	assert.Equal(t, "syntax on\n", string(content))
	assert.Empty(t, e.backups.RunDir())
}

func TestCreateLinkMakesParents(t *testing.T) {
	e := newEnv(t)
	mp := e.managed(".vimrc", types.KindFile, types.CategoryShared)
	mp.SystemPath = filepath.Join(e.home, ".config", "nvim", "init.vim")
	require.NoError(t, os.WriteFile(mp.RepoPath, []byte("x"), 0644))

	_, err := e.executor.Apply([]types.Action{{Kind: types.ActionCreateLink, Path: mp}})
	require.NoError(t, err)
	assertLinkTo(t, mp.SystemPath, mp.RepoPath)
}

func TestMoveThenLink(t *testing.T) {
	e := newEnv(t)
	mp := e.managed(".ssh_identity", types.KindFile, types.CategoryIdentity)
	require.NoError(t, os.WriteFile(mp.SystemPath, []byte("X"), 0600))

	_, err := e.executor.Apply([]types.Action{{Kind: types.ActionMoveThenLink, Path: mp}})
	require.NoError(t, err)

	// repo side now holds the content
	content, err := os.ReadFile(mp.RepoPath)
	require.NoError(t, err)
	assert.Equal(t, "X", string(content))

	// system side is a link to it
	assertLinkTo(t, mp.SystemPath, mp.RepoPath)

	// backup holds the pre-move content
	backupCopy := filepath.Join(e.backups.RunDir(), ".ssh_identity")
	content, err = os.ReadFile(backupCopy)
	require.NoError(t, err)
	assert.Equal(t, "X", string(content))
}

func TestRelinkFix(t *testing.T) {
	e := newEnv(t)
	mp := e.managed(".zshrc", types.KindFile, types.CategoryShared)
	require.NoError(t, os.WriteFile(mp.RepoPath, []byte("z"), 0644))
	require.NoError(t, os.Symlink("/wrong/target", mp.SystemPath))

	action := types.Action{Kind: types.ActionRelinkFix, Path: mp, OldTarget: "/wrong/target"}
	_, err := e.executor.Apply([]types.Action{action})
	require.NoError(t, err)

	assertLinkTo(t, mp.SystemPath, mp.RepoPath)

	data, err := os.ReadFile(filepath.Join(e.backups.RunDir(), backup.RelinkLogName))
	require.NoError(t, err)
	assert.Equal(t, mp.SystemPath+" -> /wrong/target\n", string(data))
}

func TestBackupRemoveLinkFile(t *testing.T) {
	e := newEnv(t)
	mp := e.managed("deploy.sh", types.KindFile, types.CategoryScript)
	require.NoError(t, os.WriteFile(mp.RepoPath, []byte("new"), 0755))
	require.NoError(t, os.WriteFile(mp.SystemPath, []byte("old"), 0755))

	_, err := e.executor.Apply([]types.Action{{Kind: types.ActionBackupRemoveLink, Path: mp}})
	require.NoError(t, err)

	assertLinkTo(t, mp.SystemPath, mp.RepoPath)

	content, err := os.ReadFile(filepath.Join(e.backups.RunDir(), "deploy.sh"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}

func TestBackupRemoveLinkDirectory(t *testing.T) {
	e := newEnv(t)
	mp := e.managed("conf.d", types.KindDirectory, types.CategoryShared)
	require.NoError(t, os.MkdirAll(mp.RepoPath, 0755))
	require.NoError(t, os.MkdirAll(mp.SystemPath, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(mp.SystemPath, "a.conf"), []byte("a"), 0644))

	_, err := e.executor.Apply([]types.Action{{Kind: types.ActionBackupRemoveLink, Path: mp}})
	require.NoError(t, err)

	assertLinkTo(t, mp.SystemPath, mp.RepoPath)

	content, err := os.ReadFile(filepath.Join(e.backups.RunDir(), "conf.d", "a.conf"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestNoOpsAreSkipped(t *testing.T) {
	e := newEnv(t)
	mp := e.managed(".vimrc", types.KindFile, types.CategoryShared)

	results, err := e.executor.Apply([]types.Action{{Kind: types.ActionNoOp, Path: mp}})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, e.backups.RunDir())
}

func TestHaltOnFirstFailure(t *testing.T) {
	e := newEnv(t)

	// first action fails: nothing exists at the system path to back up
	broken := e.managed("missing", types.KindFile, types.CategoryIdentity)

	second := e.managed(".vimrc", types.KindFile, types.CategoryShared)
	require.NoError(t, os.WriteFile(second.RepoPath, []byte("x"), 0644))

	actions := []types.Action{
		{Kind: types.ActionMoveThenLink, Path: broken},
		{Kind: types.ActionCreateLink, Path: second},
	}

	results, err := e.executor.Apply(actions)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success())

	// the second action was never attempted
	_, statErr := os.Lstat(second.SystemPath)
	assert.True(t, os.IsNotExist(statErr))
}
