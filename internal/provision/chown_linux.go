//go:build linux

package provision

import (
	"io/fs"
	"path/filepath"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"golang.org/x/sys/unix"
)

// chownTree sets uid:gid on root and everything below it. Symlinks are
// changed themselves, never followed.
func chownTree(root string, uid, gid int) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &model.ProvisionError{Step: "walk", Path: path, Err: err}
		}
		if err := unix.Lchown(path, uid, gid); err != nil {
			return &model.ProvisionError{Step: "chown", Path: path, Err: err}
		}
		return nil
	})
}
