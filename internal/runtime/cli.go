package runtime

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ThomasCrouzet/homestack/internal/executor"
	"github.com/ThomasCrouzet/homestack/internal/model"
)

// CLI talks to the runtime through the docker command line.
type CLI struct {
	Vendor       string
	Exec         *executor.Executor
	QueryTimeout time.Duration
	LogsTimeout  time.Duration
}

// NewCLI returns a CLI backend running exec.
func NewCLI(vendor string, exec *executor.Executor, queryTimeout, logsTimeout time.Duration) *CLI {
	if queryTimeout <= 0 {
		queryTimeout = executor.DefaultQueryTimeout
	}
	if logsTimeout <= 0 {
		logsTimeout = executor.DefaultLogsTimeout
	}
	return &CLI{Vendor: vendor, Exec: exec, QueryTimeout: queryTimeout, LogsTimeout: logsTimeout}
}

func (c *CLI) Containers(ctx context.Context, serviceID string) ([]Container, error) {
	args := []string{"ps", "-a", "--filter", "label=" + ServiceFilter(c.Vendor, serviceID), "--format", psFormat}
	res := c.Exec.Run(ctx, "", args, "docker ps", c.QueryTimeout)
	if err := cliError(res); err != nil {
		return nil, err
	}
	return parsePS(res.Output), nil
}

func (c *CLI) Logs(ctx context.Context, name string, tail int) (string, error) {
	args := []string{"logs", name, "--tail", strconv.Itoa(tail), "--timestamps"}
	res := c.Exec.Run(ctx, "", args, "docker logs", c.LogsTimeout)
	if err := cliError(res); err != nil {
		return "", err
	}
	return res.Output, nil
}

func (c *CLI) Ping(ctx context.Context) error {
	res := c.Exec.Run(ctx, "", []string{"version", "--format", "{{.Server.Version}}"}, "docker version", c.QueryTimeout)
	return cliError(res)
}

func (c *CLI) Close() error { return nil }

// cliError keeps nonzero exits as *model.CommandError and reports launch
// failures and timeouts as an unreachable runtime.
func cliError(res model.LifecycleResult) error {
	if res.Success {
		return nil
	}
	if res.ExitCode != nil {
		return res.Err()
	}
	return fmt.Errorf("%w: %s", model.ErrRuntimeUnavailable, res.Error)
}
