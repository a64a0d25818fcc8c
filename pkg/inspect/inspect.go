// Package inspect implements the link inspector: low-level, read-only
// queries about a single filesystem path.
package inspect

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// Facts captures what the inspector observed about one path. A missing
// path yields the zero value.
type Facts struct {
	// Exists is true if anything is present at the path (including a
	// dangling link)
	Exists bool

	// IsLink is true if the entry itself is a symbolic link
	IsLink bool

	// Target is the raw link target as stored, without normalization.
	// Target comparison is exact string equality; logically-equivalent
	// but textually different targets count as wrong.
	Target string

	// IsDir is true for real directories (not links to directories)
	IsDir bool
}

// Path inspects a single path without following links and without any
// side effects.
func Path(fsys types.FS, path string) (Facts, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Facts{}, nil
		}
		return Facts{}, errors.Wrapf(err, errors.ErrInternal, "inspecting %s", path)
	}

	facts := Facts{Exists: true}
	if info.Mode()&fs.ModeSymlink != 0 {
		facts.IsLink = true
		target, err := fsys.Readlink(path)
		if err != nil {
			return Facts{}, errors.Wrapf(err, errors.ErrInternal, "reading link target of %s", path)
		}
		facts.Target = target
	} else {
		facts.IsDir = info.IsDir()
	}

	return facts, nil
}

// Exists reports whether anything is present at the path
func Exists(fsys types.FS, path string) (bool, error) {
	facts, err := Path(fsys, path)
	if err != nil {
		return false, err
	}
	return facts.Exists, nil
}
