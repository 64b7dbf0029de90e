package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pgentry/pgentry/internal/sentinel"
)

// ErrEmptyPath is returned when a tree root path is empty.
const ErrEmptyPath = sentinel.Error("path must not be empty")

// ChownFunc changes the ownership of a single filesystem entry.
// os.Lchown satisfies this signature; tests substitute a recorder.
type ChownFunc func(path string, uid, gid int) error

// ChownTree walks the tree rooted at root and applies chown to every entry,
// root itself included. The walk does not follow symlinks: a link inside
// the tree is chowned as a link, so a link pointing outside the tree cannot
// redirect the ownership change. Pass os.Lchown to keep that property.
func ChownTree(root string, uid, gid int, chown ChownFunc) error {
	if root == "" {
		return ErrEmptyPath
	}
	err := filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := chown(path, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("chown tree %s: %w", root, err)
	}
	return nil
}

// Exists reports whether path exists. A trailing symlink counts as existing
// even if its target is gone (Lstat, not Stat).
func Exists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}
