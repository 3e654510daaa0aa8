package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a service id or its manifest is unknown.
	ErrNotFound = errors.New("not found")

	// ErrTimeout is returned when an external command exceeds its bound.
	ErrTimeout = errors.New("command timed out")

	// ErrRuntimeUnavailable is returned when the container runtime cannot
	// be reached.
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")

	// ErrFollowUnsupported is returned when streaming logs are requested
	// from a single-shot log fetch.
	ErrFollowUnsupported = errors.New("log streaming (follow) is not supported")

	// ErrInvalidServiceID is returned for ids that are not a plain
	// directory name.
	ErrInvalidServiceID = errors.New("invalid service id")
)

// CommandError is an external command that exited nonzero.
type CommandError struct {
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return e.Output
	}
	return fmt.Sprintf("exit status %d: %s", e.ExitCode, e.Output)
}

// ProvisionError wraps a filesystem failure with the provisioning step and
// path it happened at.
type ProvisionError struct {
	Step string
	Path string
	Err  error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
