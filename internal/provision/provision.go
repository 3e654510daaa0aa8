// Package provision prepares a service's persistent data directory before
// it is brought up, and manages the env file next to its manifest.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/util"
)

// Provisioner creates <DataRoot>/<id> and the layout under it. Provision is
// idempotent and never overwrites an existing file. A failure aborts the
// call and leaves whatever was already created in place.
type Provisioner struct {
	DataRoot string

	// UID and GID own the whole data tree. A negative UID skips chown.
	UID int
	GID int

	// Layouts apply to services whose manifest declares none.
	Layouts map[string][]model.LayoutEntry
}

// DataDir returns the data directory of service id.
func (p *Provisioner) DataDir(id string) (string, error) {
	if !util.ValidServiceID(id) {
		return "", fmt.Errorf("%q: %w", id, model.ErrInvalidServiceID)
	}
	return filepath.Join(p.DataRoot, id), nil
}

// LayoutFor returns the declared layout of desc, or the configured one.
func (p *Provisioner) LayoutFor(desc *model.ServiceDescriptor) []model.LayoutEntry {
	if len(desc.Layout) > 0 {
		return desc.Layout
	}
	return p.Layouts[desc.ID]
}

// Provision ensures the data directory of desc exists, seeds templated files
// that are still missing, creates the layout directories and applies
// ownership.
func (p *Provisioner) Provision(ctx context.Context, desc *model.ServiceDescriptor) error {
	base, err := p.DataDir(desc.ID)
	if err != nil {
		return err
	}
	log := logger.With(logger.KeyServiceID, desc.ID, logger.KeyPath, base)

	if err := os.MkdirAll(base, 0o755); err != nil {
		return &model.ProvisionError{Step: "create", Path: base, Err: err}
	}

	layout := p.LayoutFor(desc)

	for _, e := range layout {
		if e.Template == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(desc.ServiceDir, e.Template)
		dst := filepath.Join(base, e.Path)
		copied, err := seedFile(src, dst)
		if err != nil {
			return err
		}
		if copied {
			log.Info("seeded config from template", "template", e.Template, "dest", e.Path)
		}
	}

	for _, e := range layout {
		if e.Template != "" {
			continue
		}
		dir := filepath.Join(base, e.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &model.ProvisionError{Step: "mkdir", Path: dir, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if p.UID < 0 {
		log.Debug("ownership step disabled")
		return nil
	}
	if err := chownTree(base, p.UID, p.GID); err != nil {
		return err
	}
	log.Debug("data directory provisioned", "entries", len(layout))
	return nil
}

// seedFile copies src to dst unless dst already exists. A missing template
// is logged and skipped.
func seedFile(src, dst string) (bool, error) {
	if _, err := os.Lstat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, &model.ProvisionError{Step: "stat", Path: dst, Err: err}
	}

	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("template not found, skipping", logger.KeyPath, src)
			return false, nil
		}
		return false, &model.ProvisionError{Step: "open", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return false, &model.ProvisionError{Step: "stat", Path: src, Err: err}
	}
	if info.IsDir() {
		return false, &model.ProvisionError{Step: "copy", Path: src, Err: errors.New("template is a directory")}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, &model.ProvisionError{Step: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	// O_EXCL keeps a file created concurrently by someone else intact.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, &model.ProvisionError{Step: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return false, &model.ProvisionError{Step: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return false, &model.ProvisionError{Step: "copy", Path: dst, Err: err}
	}
	return true, nil
}
