package runtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// dockerAPI is the part of the Engine API client the backend uses.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerLogs(ctx context.Context, container string, options container.LogsOptions) (io.ReadCloser, error)
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

var errClosed = errors.New("runtime client closed")

// Docker talks to the Engine API. The client is created on first use,
// exactly once, and shared by every caller until Close.
type Docker struct {
	Vendor string
	Host   string

	once    sync.Once
	connect func() (dockerAPI, error)
	api     dockerAPI
	initErr error

	mu     sync.Mutex
	closed bool
}

// NewDocker returns a backend for the daemon at host, or the one named by
// the DOCKER_* environment when host is empty.
func NewDocker(vendor, host string) *Docker {
	d := &Docker{Vendor: vendor, Host: host}
	d.connect = d.dial
	return d
}

func (d *Docker) dial() (dockerAPI, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if d.Host != "" {
		opts = append(opts, client.WithHost(d.Host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, err
	}
	return cli, nil
}

func (d *Docker) client() (dockerAPI, error) {
	d.once.Do(func() {
		d.api, d.initErr = d.connect()
		if d.initErr != nil {
			logger.Error("docker client init failed", logger.KeyError, d.initErr)
		}
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("%w: %v", model.ErrRuntimeUnavailable, errClosed)
	}
	if d.initErr != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRuntimeUnavailable, d.initErr)
	}
	return d.api, nil
}

func (d *Docker) Containers(ctx context.Context, serviceID string) ([]Container, error) {
	api, err := d.client()
	if err != nil {
		return nil, err
	}

	flt := filters.NewArgs()
	flt.Add("label", ServiceFilter(d.Vendor, serviceID))

	list, err := api.ContainerList(ctx, container.ListOptions{All: true, Filters: flt})
	if err != nil {
		return nil, apiError(err)
	}

	rows := make([]Container, 0, len(list))
	for _, c := range list {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		rows = append(rows, Container{ID: c.ID, Name: name, Image: c.Image, Status: c.Status})
	}
	return rows, nil
}

func (d *Docker) Logs(ctx context.Context, name string, tail int) (string, error) {
	api, err := d.client()
	if err != nil {
		return "", err
	}

	rc, err := api.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", apiError(err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if err := demux(&buf, rc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (d *Docker) Ping(ctx context.Context) error {
	api, err := d.client()
	if err != nil {
		return err
	}
	if _, err := api.Ping(ctx); err != nil {
		return apiError(err)
	}
	return nil
}

// Close releases the client. Later calls fail with ErrRuntimeUnavailable.
func (d *Docker) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	// Consume the barrier so a client can no longer be created after Close.
	d.once.Do(func() {})
	if d.api != nil {
		return d.api.Close()
	}
	return nil
}

func apiError(err error) error {
	if client.IsErrConnectionFailed(err) {
		return fmt.Errorf("%w: %v", model.ErrRuntimeUnavailable, err)
	}
	return err
}

// demux copies a log stream into w. Containers without a TTY send stdout
// and stderr multiplexed in 8-byte framed chunks; TTY containers send raw
// bytes. Both streams end up interleaved in w.
func demux(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	header, err := br.Peek(8)
	if err != nil && len(header) == 0 {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if multiplexed(header) {
		_, err = stdcopy.StdCopy(w, w, br)
		return err
	}
	_, err = io.Copy(w, br)
	return err
}

func multiplexed(header []byte) bool {
	if len(header) < 8 {
		return false
	}
	switch header[0] {
	case 0, 1, 2:
	default:
		return false
	}
	return header[1] == 0 && header[2] == 0 && header[3] == 0
}
