// Package execute implements the action executor. It applies planned
// actions against the real filesystem, one at a time in planning order,
// with the backup manager as a hard precondition for anything destructive.
//
// On the first I/O failure execution halts. Already-applied actions stay
// in place (there is no rollback); the backup directory is reported so a
// human can recover.
package execute

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/relink/pkg/backup"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/platform"
	"github.com/arthur-debert/relink/pkg/types"
)

// Executor applies planned actions
type Executor struct {
	fsys    types.FS
	backups *backup.Manager
	linker  platform.Linker
	logger  zerolog.Logger
}

// New creates an executor. The linker carries the platform's directory
// link capability, resolved once per run.
func New(fsys types.FS, backups *backup.Manager, linker platform.Linker) *Executor {
	return &Executor{
		fsys:    fsys,
		backups: backups,
		linker:  linker,
		logger:  logging.GetLogger("execute"),
	}
}

// Apply executes the mutating actions in order. It returns a result per
// attempted action; on failure the remaining actions are not attempted
// and the first error is returned alongside the partial results.
func (e *Executor) Apply(actions []types.Action) ([]types.ActionResult, error) {
	results := make([]types.ActionResult, 0, len(actions))

	for _, action := range actions {
		if !action.Mutates() {
			continue
		}

		err := e.applyOne(action)
		results = append(results, types.ActionResult{Action: action, Err: err})

		if err != nil {
			e.logger.Error().
				Str("path", action.Path.Name).
				Str("action", string(action.Kind)).
				Err(err).
				Msg("execution halted")
			return results, err
		}

		e.logger.Info().
			Str("path", action.Path.Name).
			Str("action", string(action.Kind)).
			Msg("applied action")
	}

	return results, nil
}

func (e *Executor) applyOne(action types.Action) error {
	switch action.Kind {
	case types.ActionMoveThenLink:
		return e.moveThenLink(action.Path)
	case types.ActionCreateLink:
		return e.createLink(action.Path)
	case types.ActionRelinkFix:
		return e.relinkFix(action.Path, action.OldTarget)
	case types.ActionBackupRemoveLink:
		return e.backupRemoveLink(action.Path)
	}
	return errors.Newf(errors.ErrInternal, "unknown action %q for %s",
		action.Kind, action.Path.Name)
}

// moveThenLink adopts the system copy into the repository, making it the
// source of truth, then links the system path to it.
func (e *Executor) moveThenLink(mp types.ManagedPath) error {
	if _, err := e.backups.Backup(mp.SystemPath); err != nil {
		return err
	}

	if err := e.fsys.MkdirAll(filepath.Dir(mp.RepoPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed,
			"creating repo parent for %s", mp.RepoPath)
	}

	if err := e.move(mp.SystemPath, mp.RepoPath); err != nil {
		return err
	}

	return e.linker.Link(mp.Kind, mp.RepoPath, mp.SystemPath)
}

// createLink links a system path that has nothing pre-existing; the repo
// copy is untouched and nothing needs backing up.
func (e *Executor) createLink(mp types.ManagedPath) error {
	if err := e.fsys.MkdirAll(filepath.Dir(mp.SystemPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed,
			"creating parent for %s", mp.SystemPath)
	}

	return e.linker.Link(mp.Kind, mp.RepoPath, mp.SystemPath)
}

// relinkFix replaces a link pointing at the wrong target, recording the
// old target first.
func (e *Executor) relinkFix(mp types.ManagedPath, oldTarget string) error {
	if err := e.backups.RecordRelink(mp.SystemPath, oldTarget); err != nil {
		return err
	}

	if err := e.fsys.Remove(mp.SystemPath); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed,
			"removing wrong-target link %s", mp.SystemPath)
	}

	return e.linker.Link(mp.Kind, mp.RepoPath, mp.SystemPath)
}

// backupRemoveLink replaces a real system copy with a link; the repo copy
// is authoritative for the path's category.
func (e *Executor) backupRemoveLink(mp types.ManagedPath) error {
	if _, err := e.backups.Backup(mp.SystemPath); err != nil {
		return err
	}

	if err := e.fsys.RemoveAll(mp.SystemPath); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed,
			"removing %s", mp.SystemPath)
	}

	return e.linker.Link(mp.Kind, mp.RepoPath, mp.SystemPath)
}

// move renames src to dst, falling back to copy-and-remove when rename
// fails (cross-device moves).
func (e *Executor) move(src, dst string) error {
	if err := e.fsys.Rename(src, dst); err == nil {
		return nil
	}

	if err := backup.Copy(e.fsys, src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed, "copying %s to %s", src, dst)
	}
	if err := e.fsys.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrExecutionFailed, "removing %s after copy", src)
	}
	return nil
}
