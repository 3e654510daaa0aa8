// Package homestack wires the manifest store, lifecycle engine and status
// reconciler into the operations a frontend calls.
package homestack

import (
	"context"
	"errors"

	"github.com/ThomasCrouzet/homestack/internal/config"
	"github.com/ThomasCrouzet/homestack/internal/executor"
	"github.com/ThomasCrouzet/homestack/internal/lifecycle"
	"github.com/ThomasCrouzet/homestack/internal/manifest"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/provision"
	"github.com/ThomasCrouzet/homestack/internal/runtime"
	"github.com/ThomasCrouzet/homestack/internal/status"
)

// Service is the logical API over all installable services.
type Service struct {
	Config  *config.Config
	Store   *manifest.Store
	Engine  *lifecycle.Engine
	Status  *status.Reconciler
	Runtime runtime.Runtime
}

// ServiceDetail is a descriptor with its current status attached.
type ServiceDetail struct {
	*model.ServiceDescriptor
	Status model.ServiceStatus `json:"status"`
}

// New builds a Service from cfg with the runtime backend cfg selects.
func New(cfg *config.Config) (*Service, error) {
	rt, err := runtime.New(runtime.Options{
		Backend:      cfg.Runtime.Backend,
		Vendor:       cfg.Vendor,
		DockerHost:   cfg.Runtime.DockerHost,
		QueryTimeout: cfg.Timeouts.Query,
		LogsTimeout:  cfg.Timeouts.Logs,
	})
	if err != nil {
		return nil, err
	}
	return NewWithRuntime(cfg, rt), nil
}

// NewWithRuntime builds a Service over an existing runtime.
func NewWithRuntime(cfg *config.Config, rt runtime.Runtime) *Service {
	store := manifest.NewStore(cfg.ServicesRoot, cfg.ManifestName, cfg.Vendor)
	prov := &provision.Provisioner{
		DataRoot: cfg.DataRoot,
		UID:      cfg.Owner.UID,
		GID:      cfg.Owner.GID,
		Layouts:  cfg.Provision.Layouts,
	}
	exec := executor.New(cfg.ComposeCommand...)

	return &Service{
		Config:  cfg,
		Store:   store,
		Engine:  lifecycle.New(store, prov, exec, cfg.Timeouts.Lifecycle),
		Status:  status.New(rt),
		Runtime: rt,
	}
}

// ListServices returns every parsable service sorted by name.
func (s *Service) ListServices(ctx context.Context) ([]*model.ServiceDescriptor, error) {
	return s.Store.Discover(ctx)
}

// GetService returns one service with its live status.
func (s *Service) GetService(ctx context.Context, id string) (*ServiceDetail, error) {
	desc, err := s.Store.Describe(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ServiceDetail{ServiceDescriptor: desc, Status: s.Status.GetStatus(ctx, id)}, nil
}

func (s *Service) Install(ctx context.Context, id string, env map[string]string) model.LifecycleResult {
	return s.Engine.Install(ctx, id, env)
}

func (s *Service) Start(ctx context.Context, id string) model.LifecycleResult {
	return s.Engine.Start(ctx, id)
}

func (s *Service) Stop(ctx context.Context, id string) model.LifecycleResult {
	return s.Engine.Stop(ctx, id)
}

func (s *Service) Restart(ctx context.Context, id string) model.LifecycleResult {
	return s.Engine.Restart(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id string, removeVolumes bool) model.LifecycleResult {
	return s.Engine.Remove(ctx, id, removeVolumes)
}

func (s *Service) GetStatus(ctx context.Context, id string) model.ServiceStatus {
	return s.Status.GetStatus(ctx, id)
}

func (s *Service) GetLogs(ctx context.Context, id string, tail int, follow bool) (string, error) {
	return s.Status.GetLogs(ctx, id, tail, follow)
}

// Close releases the runtime connection.
func (s *Service) Close() error {
	if s.Runtime == nil {
		return nil
	}
	return s.Runtime.Close()
}

// IsNotFound reports whether err means the service does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidServiceID)
}
