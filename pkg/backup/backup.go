// Package backup implements the backup manager. Each reconciliation run
// gets at most one timestamped backup directory, created lazily when the
// first mutation needs it. Anything the executor is about to modify or
// remove is copied there first; backups are never deleted and never
// overwrite each other.
package backup

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

const (
	// RelinkLogName is the append-log of replaced link targets
	RelinkLogName = "relinked.txt"

	// ManifestName records every backup taken during the run
	ManifestName = "manifest.toml"

	// TimestampFormat names the per-run backup directory
	TimestampFormat = "20060102-150405"
)

// Manager copies pre-mutation objects into a per-run backup directory
type Manager struct {
	fsys    types.FS
	root    string
	stamp   string
	runDir  string
	records []types.BackupRecord
	logger  zerolog.Logger
}

// NewManager creates a backup manager rooted at backupsRoot. The run
// directory is not created until the first backup is taken.
func NewManager(fsys types.FS, backupsRoot string, start time.Time) *Manager {
	return &Manager{
		fsys:   fsys,
		root:   backupsRoot,
		stamp:  start.Format(TimestampFormat),
		logger: logging.GetLogger("backup"),
	}
}

// RunDir returns the run's backup directory, or "" if no backup was taken
func (m *Manager) RunDir() string {
	return m.runDir
}

// Records returns the backups taken so far, in order
func (m *Manager) Records() []types.BackupRecord {
	return m.records
}

// Backup copies the object at path (recursively for directories) into the
// run's backup directory and returns the copy's location. It must succeed
// before the executor may mutate path.
func (m *Manager) Backup(path string) (string, error) {
	if err := m.ensureRunDir(); err != nil {
		return "", err
	}

	dest, err := m.destFor(filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := Copy(m.fsys, path, dest); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed,
			"backing up %s to %s", path, dest)
	}

	m.logger.Info().Str("original", path).Str("copy", dest).Msg("backed up")
	m.records = append(m.records, types.BackupRecord{Original: path, Copy: dest})
	if err := m.writeManifest(); err != nil {
		return "", err
	}

	return dest, nil
}

// RecordRelink appends "<systemPath> -> <oldTarget>" to the relink log.
// The old target is metadata, not file content, so no copy is taken.
func (m *Manager) RecordRelink(systemPath, oldTarget string) error {
	if err := m.ensureRunDir(); err != nil {
		return err
	}

	logPath := filepath.Join(m.runDir, RelinkLogName)
	line := systemPath + " -> " + oldTarget + "\n"

	existing, err := m.fsys.ReadFile(logPath)
	if err != nil {
		existing = nil
	}
	if err := m.fsys.WriteFile(logPath, append(existing, line...), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrBackupFailed,
			"recording old link target for %s", systemPath)
	}

	m.logger.Info().Str("path", systemPath).Str("oldTarget", oldTarget).Msg("recorded old link target")
	m.records = append(m.records, types.BackupRecord{Original: systemPath, OldTarget: oldTarget})
	return m.writeManifest()
}

// ensureRunDir lazily creates the per-run directory
func (m *Manager) ensureRunDir() error {
	if m.runDir != "" {
		return nil
	}

	dir := filepath.Join(m.root, m.stamp)
	if err := m.fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackupFailed, "creating backup directory %s", dir)
	}

	m.runDir = dir
	m.logger.Info().Str("dir", dir).Msg("created backup directory")
	return nil
}

// destFor picks a free destination for base inside the run directory.
// Same-named objects from different managed paths get a numeric suffix.
func (m *Manager) destFor(base string) (string, error) {
	dest := filepath.Join(m.runDir, base)
	for i := 2; ; i++ {
		if _, err := m.fsys.Lstat(dest); err != nil {
			return dest, nil
		}
		dest = filepath.Join(m.runDir, base+"."+strconv.Itoa(i))
	}
}

func (m *Manager) writeManifest() error {
	doc := struct {
		Backup []types.BackupRecord `toml:"backup"`
	}{Backup: m.records}

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrBackupFailed, "encoding backup manifest")
	}

	path := filepath.Join(m.runDir, ManifestName)
	if err := m.fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrBackupFailed, "writing backup manifest %s", path)
	}
	return nil
}
