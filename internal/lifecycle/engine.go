// Package lifecycle drives services through install, start, stop, restart
// and remove by running the compose command in each service's directory.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThomasCrouzet/homestack/internal/executor"
	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/manifest"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/provision"
	"github.com/google/uuid"
)

// Engine is the outer boundary of every lifecycle operation: whatever goes
// wrong underneath, callers get a well-formed LifecycleResult. Operations
// on the same service id run one at a time.
type Engine struct {
	Store       *manifest.Store
	Provisioner *provision.Provisioner
	Exec        *executor.Executor
	Timeout     time.Duration

	locks keyedMutex
}

// New returns an Engine. A non-positive timeout uses the executor default.
func New(store *manifest.Store, prov *provision.Provisioner, exec *executor.Executor, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = executor.DefaultLifecycleTimeout
	}
	return &Engine{Store: store, Provisioner: prov, Exec: exec, Timeout: timeout}
}

// Install provisions the data directory, writes the env file when env is
// non-empty and brings the service up detached. Steps already done are not
// rolled back when a later one fails.
func (e *Engine) Install(ctx context.Context, id string, env map[string]string) model.LifecycleResult {
	return e.do(ctx, "install", id, func(log *slog.Logger) model.LifecycleResult {
		desc, err := e.Store.Describe(ctx, id)
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidServiceID) {
			return model.Failed(fmt.Sprintf("Service '%s' not found", id))
		}
		if err != nil {
			return model.Failed(fmt.Sprintf("loading manifest: %v", err))
		}

		if err := e.Provisioner.Provision(ctx, desc); err != nil {
			log.Error("provisioning failed", logger.KeyError, err)
			return model.Failed(err.Error())
		}

		if len(env) > 0 {
			if err := provision.WriteEnvFile(desc.ServiceDir, env); err != nil {
				log.Error("env file write failed", logger.KeyError, err)
				return model.Failed(err.Error())
			}
			log.Debug("env file written", "vars", len(env))
		}

		return e.compose(ctx, desc.ServiceDir, id, "installed", "up", "-d")
	})
}

// Start starts the service's existing containers.
func (e *Engine) Start(ctx context.Context, id string) model.LifecycleResult {
	return e.simple(ctx, "start", id, "started")
}

// Stop stops the service's containers without removing them.
func (e *Engine) Stop(ctx context.Context, id string) model.LifecycleResult {
	return e.simple(ctx, "stop", id, "stopped")
}

// Restart restarts the service's containers.
func (e *Engine) Restart(ctx context.Context, id string) model.LifecycleResult {
	return e.simple(ctx, "restart", id, "restarted")
}

// Remove tears the service down, with its volumes when removeVolumes is
// set, and then deletes its env file.
func (e *Engine) Remove(ctx context.Context, id string, removeVolumes bool) model.LifecycleResult {
	return e.do(ctx, "remove", id, func(log *slog.Logger) model.LifecycleResult {
		dir, err := e.Store.ServiceDir(id)
		if err != nil {
			return model.Failed(err.Error())
		}

		args := []string{"down"}
		if removeVolumes {
			args = append(args, "-v")
		}
		res := e.compose(ctx, dir, id, "removed", args...)
		if !res.Success {
			return res
		}

		if err := provision.RemoveEnvFile(dir); err != nil {
			log.Warn("could not remove env file", logger.KeyError, err)
		}
		res.VolumesRemoved = &removeVolumes
		return res
	})
}

// simple forwards a single-word compose command. A missing service
// directory surfaces as the command's own failure.
func (e *Engine) simple(ctx context.Context, command, id, verb string) model.LifecycleResult {
	return e.do(ctx, command, id, func(*slog.Logger) model.LifecycleResult {
		dir, err := e.Store.ServiceDir(id)
		if err != nil {
			return model.Failed(err.Error())
		}
		return e.compose(ctx, dir, id, verb, command)
	})
}

func (e *Engine) compose(ctx context.Context, dir, id, verb string, args ...string) model.LifecycleResult {
	res := e.Exec.Run(ctx, dir, args, fmt.Sprintf("compose %s %s", args[0], id), e.Timeout)
	if !res.Success {
		return res
	}
	return model.LifecycleResult{
		Success:   true,
		Message:   fmt.Sprintf("Service '%s' %s successfully", id, verb),
		ServiceID: id,
		Output:    res.Output,
	}
}

// do runs fn under the service's lock with an operation-scoped logger and
// turns a panic into a failure result.
func (e *Engine) do(ctx context.Context, op, id string, fn func(*slog.Logger) model.LifecycleResult) (res model.LifecycleResult) {
	log := logger.With(logger.KeyServiceID, id, logger.KeyOpID, uuid.NewString(), "op", op)

	unlock := e.locks.Lock(id)
	defer unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("operation panicked", "panic", r)
			res = model.Failed(fmt.Sprint(r))
		}
		elapsed := time.Since(start).Milliseconds()
		if res.Success {
			log.Info(res.Message, logger.KeyDuration, elapsed)
		} else {
			log.Warn("operation failed", logger.KeyError, res.Error, logger.KeyDuration, elapsed)
		}
	}()

	if err := ctx.Err(); err != nil {
		return model.Failed(err.Error())
	}
	log.Debug("operation started")
	return fn(log)
}
