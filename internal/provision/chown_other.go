//go:build !linux

package provision

import (
	"sync"

	"github.com/ThomasCrouzet/homestack/internal/logger"
)

var chownNotice sync.Once

// chownTree is not supported off Linux; the data tree keeps the ownership
// of the calling user.
func chownTree(root string, uid, gid int) error {
	chownNotice.Do(func() {
		logger.Info("skipping data directory ownership, only supported on linux",
			"uid", uid, "gid", gid)
	})
	return nil
}
