// Package platform answers the one platform question the engine has:
// can a directory-kind path be linked with a plain symbolic link, or does
// this platform need an alternate directory-link mechanism?
//
// The capability is resolved once per run and injected into the executor,
// so no other package branches on the operating system.
package platform

import (
	"os/exec"
	"runtime"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Capability describes the link mechanisms available on this platform
type Capability struct {
	// DirSymlink is true when directories can be linked with an ordinary
	// symbolic link. Windows needs a junction instead (symlinks to
	// directories require elevated privileges there).
	DirSymlink bool
}

// Detect resolves the platform capability for the current OS
func Detect() Capability {
	return Capability{DirSymlink: runtime.GOOS != "windows"}
}

// Linker creates links for managed paths
type Linker interface {
	// Link creates a link at linkPath pointing to target, choosing the
	// mechanism appropriate for the path kind
	Link(kind types.PathKind, target, linkPath string) error
}

// NewLinker returns a Linker for the given capability
func NewLinker(fsys types.FS, capability Capability) Linker {
	if capability.DirSymlink {
		return &symlinkLinker{fsys: fsys}
	}
	return &junctionLinker{fsys: fsys}
}

// symlinkLinker links everything with symbolic links
type symlinkLinker struct {
	fsys types.FS
}

func (l *symlinkLinker) Link(kind types.PathKind, target, linkPath string) error {
	if err := l.fsys.Symlink(target, linkPath); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreate,
			"creating symlink %s -> %s", linkPath, target)
	}
	return nil
}

// junctionLinker uses NTFS junctions for directories and symlinks for files
type junctionLinker struct {
	fsys types.FS
}

func (l *junctionLinker) Link(kind types.PathKind, target, linkPath string) error {
	logger := logging.GetLogger("platform")

	if kind != types.KindDirectory {
		if err := l.fsys.Symlink(target, linkPath); err != nil {
			return errors.Wrapf(err, errors.ErrLinkCreate,
				"creating symlink %s -> %s", linkPath, target)
		}
		return nil
	}

	logger.Debug().Str("link", linkPath).Str("target", target).Msg("creating junction")
	cmd := exec.Command("cmd", "/c", "mklink", "/J", linkPath, target)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, errors.ErrLinkCreate,
			"creating junction %s -> %s: %s", linkPath, target, string(out))
	}
	return nil
}
