package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/util"
	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/mitchellh/mapstructure"
	yamlv3 "gopkg.in/yaml.v3"
)

// ReadmeName is read next to the manifest and attached verbatim.
const ReadmeName = "README.md"

// ErrNoWorkloads is returned for a manifest that declares no services.
var ErrNoWorkloads = errors.New("no services defined")

// Loader turns a manifest file into a ServiceDescriptor. It holds no state
// between calls; every Load re-reads the file.
type Loader struct {
	Vendor string
}

// Load parses the manifest at path for service id. Metadata comes from the
// first declared workload only; labels on further workloads are ignored.
func (l *Loader) Load(ctx context.Context, id, path string) (*model.ServiceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	root, err := util.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	services := util.Lookup(root, "services")
	names := util.Keys(services)
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoWorkloads)
	}
	if len(names) > 1 {
		logger.Debug("using labels of first workload only",
			logger.KeyServiceID, id, "workload", names[0], "ignored", strings.Join(names[1:], ","))
	}

	desc := model.NewServiceDescriptor(id)
	labels := NormalizeLabels(util.Lookup(services, names[0], "labels"))
	ParseLabels(desc, l.Vendor, labels)

	desc.ManifestPath = path
	desc.ServiceDir = filepath.Dir(path)

	readmePath := filepath.Join(desc.ServiceDir, ReadmeName)
	if b, err := os.ReadFile(readmePath); err == nil {
		readme := string(b)
		desc.Readme = &readme
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not read README", logger.KeyServiceID, id, logger.KeyError, err)
	}

	layout, err := l.layout(ctx, path, root)
	if err != nil {
		return nil, fmt.Errorf("%s: layout: %w", path, err)
	}
	desc.Layout = layout

	return desc, nil
}

// ExtensionKey is the top-level manifest key holding the data layout.
func (l *Loader) ExtensionKey() string {
	return "x-" + l.Vendor
}

type layoutExtension struct {
	Directories []model.LayoutEntry `mapstructure:"directories"`
}

// layout reads the x-<vendor> extension through compose-go, falling back to
// the raw document when compose-go rejects the manifest.
func (l *Loader) layout(ctx context.Context, path string, root *yamlv3.Node) ([]model.LayoutEntry, error) {
	raw, err := l.extensionFromProject(ctx, path)
	if err != nil {
		logger.Debug("compose-go load failed, reading extension from raw yaml",
			logger.KeyPath, path, logger.KeyError, err)
		raw, err = l.extensionFromNode(root)
		if err != nil {
			return nil, err
		}
	}
	if raw == nil {
		return nil, nil
	}

	var ext layoutExtension
	if err := mapstructure.Decode(raw, &ext); err != nil {
		return nil, err
	}
	for _, e := range ext.Directories {
		if err := ValidateLayoutPath(e.Path); err != nil {
			return nil, err
		}
		if e.Template != "" {
			if err := ValidateLayoutPath(e.Template); err != nil {
				return nil, err
			}
		}
	}
	return ext.Directories, nil
}

func (l *Loader) extensionFromProject(ctx context.Context, path string) (any, error) {
	project, err := loadProject(ctx, path)
	if err != nil {
		return nil, err
	}
	return project.Extensions[l.ExtensionKey()], nil
}

func (l *Loader) extensionFromNode(root *yamlv3.Node) (any, error) {
	node := util.Lookup(root, l.ExtensionKey())
	if node == nil {
		return nil, nil
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	return raw, nil
}

// ValidateLayoutPath rejects paths that would leave the directory they are
// joined to.
func ValidateLayoutPath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("path %q must be relative", p)
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes its base directory", p)
	}
	return nil
}

// Validate loads the manifest strictly with compose-go, without the raw
// YAML fallback Load uses.
func Validate(ctx context.Context, path string) error {
	_, err := loadProject(ctx, path)
	return err
}

func loadProject(ctx context.Context, path string) (*composetypes.Project, error) {
	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithWorkingDirectory(filepath.Dir(path)),
		cli.WithDotEnv,
		cli.WithInterpolation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("project options: %w", err)
	}
	return cli.ProjectFromOptions(ctx, opts)
}
