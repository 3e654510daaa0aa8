//go:build !unix

package executor

import "os/exec"

// setProcessGroup is a no-op; cancellation kills only the direct child.
func setProcessGroup(cmd *exec.Cmd) {}
