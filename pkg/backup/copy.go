package backup

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/relink/pkg/types"
)

// Copy copies a filesystem object of any kind. Directories are copied
// recursively; symlinks are recreated with their stored target rather than
// followed, so a copy of a tree reproduces it exactly.
func Copy(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return copyLink(fsys, src, dst)
	case info.IsDir():
		return copyDir(fsys, src, dst, info.Mode().Perm())
	default:
		return copyFile(fsys, src, dst, info.Mode().Perm())
	}
}

func copyFile(fsys types.FS, src, dst string, perm fs.FileMode) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, perm)
}

func copyLink(fsys types.FS, src, dst string) error {
	target, err := fsys.Readlink(src)
	if err != nil {
		return err
	}
	return fsys.Symlink(target, dst)
}

func copyDir(fsys types.FS, src, dst string, perm fs.FileMode) error {
	if err := fsys.MkdirAll(dst, perm); err != nil {
		return err
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := Copy(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}
