package cmd

import (
	"os"
	"os/exec"
)

// findExecutable wraps exec.LookPath for testability.
func findExecutable(name string) (string, error) {
	return exec.LookPath(name)
}

// execCommand wraps exec.Command for testability.
func execCommand(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
