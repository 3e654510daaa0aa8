// Package manifest locates per-service compose manifests under a services
// root and parses their vendor labels into service descriptors.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/util"
)

// Entry is one discovered manifest.
type Entry struct {
	ID           string
	ManifestPath string
}

// Store finds manifests: one subdirectory per service, named by service id,
// holding a manifest file with a fixed name.
type Store struct {
	Root         string
	ManifestName string
	Loader       *Loader
}

// NewStore creates a Store rooted at root.
func NewStore(root, manifestName, vendor string) *Store {
	return &Store{
		Root:         root,
		ManifestName: manifestName,
		Loader:       &Loader{Vendor: vendor},
	}
}

// List returns the manifests found in the immediate subdirectories of the
// root, ordered by id. Subdirectories without a manifest are skipped. A
// missing root is logged and yields an empty list.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("services directory not found", logger.KeyPath, s.Root)
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("reading services directory: %w", err)
	}

	entries := []Entry{}
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		path := filepath.Join(s.Root, de.Name(), s.ManifestName)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			logger.Debug("no manifest in directory", logger.KeyServiceID, de.Name())
			continue
		}
		entries = append(entries, Entry{ID: de.Name(), ManifestPath: path})
	}
	return entries, nil
}

// Get returns the manifest path for id.
func (s *Store) Get(id string) (string, error) {
	if !util.ValidServiceID(id) {
		return "", fmt.Errorf("%q: %w", id, model.ErrInvalidServiceID)
	}
	path := filepath.Join(s.Root, id, s.ManifestName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("service %q: %w", id, model.ErrNotFound)
	}
	return path, nil
}

// ServiceDir returns the directory that holds id's manifest. It does not
// check that the directory exists.
func (s *Store) ServiceDir(id string) (string, error) {
	if !util.ValidServiceID(id) {
		return "", fmt.Errorf("%q: %w", id, model.ErrInvalidServiceID)
	}
	return filepath.Join(s.Root, id), nil
}

// Discover loads every manifest. Manifests that fail to parse are logged
// and skipped. The result is sorted by display name.
func (s *Store) Discover(ctx context.Context) ([]*model.ServiceDescriptor, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}

	services := make([]*model.ServiceDescriptor, 0, len(entries))
	for _, e := range entries {
		desc, err := s.Loader.Load(ctx, e.ID, e.ManifestPath)
		if err != nil {
			logger.Error("skipping service", logger.KeyServiceID, e.ID, logger.KeyError, err)
			continue
		}
		services = append(services, desc)
	}

	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services, nil
}

// Describe loads the descriptor for one service.
func (s *Store) Describe(ctx context.Context, id string) (*model.ServiceDescriptor, error) {
	path, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Loader.Load(ctx, id, path)
}
