// Package runtime queries the container runtime for the containers of a
// service and their logs. Containers are matched by the
// <vendor>.service=<id> label, never by name.
package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/ThomasCrouzet/homestack/internal/executor"
)

// Runtime lists and reads the containers belonging to services.
type Runtime interface {
	// Containers returns every container labelled for serviceID, in any
	// state, in the order the runtime reports them.
	Containers(ctx context.Context, serviceID string) ([]Container, error)

	// Logs returns up to tail timestamped lines of a container's output.
	Logs(ctx context.Context, name string, tail int) (string, error)

	// Ping checks that the runtime answers.
	Ping(ctx context.Context) error

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend      string // docker, cli
	Vendor       string
	DockerHost   string
	QueryTimeout time.Duration
	LogsTimeout  time.Duration
}

// New returns the backend named by opts.Backend.
func New(opts Options) (Runtime, error) {
	switch opts.Backend {
	case "", "docker":
		return NewDocker(opts.Vendor, opts.DockerHost), nil
	case "cli":
		return NewCLI(opts.Vendor, executor.New("docker"), opts.QueryTimeout, opts.LogsTimeout), nil
	default:
		return nil, fmt.Errorf("unknown runtime backend %q", opts.Backend)
	}
}

// ServiceLabel is the label key that ties a container to its service.
func ServiceLabel(vendor string) string {
	return vendor + ".service"
}

// ServiceFilter is the label filter value selecting serviceID's containers.
func ServiceFilter(vendor, serviceID string) string {
	return ServiceLabel(vendor) + "=" + serviceID
}
