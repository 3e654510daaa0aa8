// Package executor runs the external orchestration command and folds every
// outcome into a model.LifecycleResult.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
)

// Default bounds for the three kinds of external calls.
const (
	DefaultLifecycleTimeout = 120 * time.Second
	DefaultQueryTimeout     = 10 * time.Second
	DefaultLogsTimeout      = 30 * time.Second
)

// TimedOutMessage is the failure text of a command killed by its timeout.
const TimedOutMessage = "Command timed out"

// waitDelay bounds how long Wait keeps reading output after the process
// group was killed.
const waitDelay = 2 * time.Second

// Executor spawns Command followed by per-call arguments.
type Executor struct {
	// Command is the binary and its fixed leading arguments, for example
	// ["docker", "compose"].
	Command []string
}

// New returns an Executor for command.
func New(command ...string) *Executor {
	return &Executor{Command: command}
}

// Run executes the command with args in workDir. It never panics and never
// returns an error: exit 0 yields a success carrying stdout, anything else a
// failure. On timeout the whole process group is killed.
func (e *Executor) Run(ctx context.Context, workDir string, args []string, description string, timeout time.Duration) (result model.LifecycleResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("command panicked", logger.KeyCommand, description, "panic", r)
			result = model.Failed(fmt.Sprintf("%s: %v", description, r))
		}
	}()

	if len(e.Command) == 0 {
		return model.Failed("no command configured")
	}
	if timeout <= 0 {
		timeout = DefaultLifecycleTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := append(append([]string{}, e.Command[1:]...), args...)
	cmd := exec.CommandContext(ctx, e.Command[0], argv...)
	cmd.Dir = workDir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logger.With(logger.KeyCommand, description, logger.KeyDir, workDir)
	log.Debug("running command", "argv", append([]string{e.Command[0]}, argv...))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warn("command timed out", "timeout", timeout.String(), logger.KeyDuration, elapsed)
		return model.Failed(TimedOutMessage)
	}

	if err == nil {
		log.Debug("command finished", logger.KeyDuration, elapsed)
		return model.Succeeded(stdout.String())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := stderr.String()
		if msg == "" {
			msg = stdout.String()
		}
		log.Info("command failed", logger.KeyExitCode, exitErr.ExitCode(), logger.KeyDuration, elapsed)
		return model.FailedWithCode(msg, exitErr.ExitCode())
	}

	log.Warn("command could not run", logger.KeyError, err)
	return model.Failed(err.Error())
}
