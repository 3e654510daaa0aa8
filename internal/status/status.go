// Package status reconciles the containers the runtime reports for a
// service into one service status, and collects their logs.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/runtime"
	"github.com/ThomasCrouzet/homestack/internal/util"
)

// DefaultTail is the number of log lines fetched per container when the
// caller passes a negative tail.
const DefaultTail = 100

// QueryFailedMessage is reported when the runtime query ran but failed.
const QueryFailedMessage = "Docker command failed"

// Reconciler derives service state from the runtime on every call; nothing
// is cached.
type Reconciler struct {
	Runtime runtime.Runtime
}

// New returns a Reconciler over rt.
func New(rt runtime.Runtime) *Reconciler {
	return &Reconciler{Runtime: rt}
}

// GetStatus reports the aggregated state of serviceID. Runtime failures are
// folded into the returned status.
func (r *Reconciler) GetStatus(ctx context.Context, serviceID string) (st model.ServiceStatus) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("status query panicked", logger.KeyServiceID, serviceID, "panic", p)
			st = model.ErrorStatus(model.StateError, fmt.Errorf("%v", p))
		}
	}()

	if !util.ValidServiceID(serviceID) {
		return model.ErrorStatus(model.StateError, fmt.Errorf("%q: %w", serviceID, model.ErrInvalidServiceID))
	}

	rows, err := r.Runtime.Containers(ctx, serviceID)
	if err != nil {
		logger.Warn("status query failed", logger.KeyServiceID, serviceID, logger.KeyError, err)
		var cmdErr *model.CommandError
		if errors.As(err, &cmdErr) {
			return model.ErrorStatus(model.StateUnknown, errors.New(QueryFailedMessage))
		}
		return model.ErrorStatus(model.StateError, err)
	}

	snapshots := make([]model.ContainerSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, row.Snapshot())
	}
	return model.AggregateStatus(snapshots)
}

// GetLogs returns up to tail timestamped lines from every container of
// serviceID. With several containers each block is headed by
// "=== <name> ===". A container whose logs cannot be read contributes an
// inline error block instead of failing the call. Streaming is not
// supported: follow returns ErrFollowUnsupported. A tail of zero fetches no
// lines.
func (r *Reconciler) GetLogs(ctx context.Context, serviceID string, tail int, follow bool) (logs string, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("log query panicked", logger.KeyServiceID, serviceID, "panic", p)
			logs, err = "", fmt.Errorf("collecting logs: %v", p)
		}
	}()

	if follow {
		return "", model.ErrFollowUnsupported
	}
	if !util.ValidServiceID(serviceID) {
		return "", fmt.Errorf("%q: %w", serviceID, model.ErrInvalidServiceID)
	}
	if tail < 0 {
		tail = DefaultTail
	}

	rows, err := r.Runtime.Containers(ctx, serviceID)
	if err != nil {
		return "", fmt.Errorf("finding containers: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := strings.TrimSpace(row.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("No containers found for service '%s'", serviceID), nil
	}

	blocks := make([]string, 0, len(names))
	for _, name := range names {
		out, err := r.Runtime.Logs(ctx, name, tail)
		switch {
		case err != nil:
			logger.Debug("log fetch failed", logger.KeyServiceID, serviceID, "container", name, logger.KeyError, err)
			blocks = append(blocks, fmt.Sprintf("=== %s ===\nError: %s", name, errorText(err)))
		case len(names) > 1:
			blocks = append(blocks, fmt.Sprintf("=== %s ===\n%s", name, out))
		default:
			blocks = append(blocks, out)
		}
	}
	return strings.Join(blocks, "\n"), nil
}

// errorText prefers the captured command output over the wrapped message.
func errorText(err error) string {
	var cmdErr *model.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Output
	}
	return err.Error()
}
