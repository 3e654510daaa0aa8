package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ThomasCrouzet/homestack/internal/config"
	"github.com/ThomasCrouzet/homestack/internal/homestack"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/ui"
)

// errFailed is returned after a failure has already been printed.
var errFailed = errors.New("operation failed")

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'homestack init' to create a config file"))
		return nil, err
	}
	return cfg, nil
}

// openService loads the config and wires the service API. Callers must
// Close it.
func openService() (*homestack.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	svc, err := homestack.New(cfg)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Invalid runtime configuration", err.Error(), "set runtime.backend to docker or cli"))
		return nil, err
	}
	return svc, nil
}

// reportResult prints res and turns a failure into a non-nil error so the
// process exits 1.
func reportResult(res model.LifecycleResult) error {
	ui.Result(res, verbose)
	if !res.Success {
		return errFailed
	}
	return nil
}

func notFound(id string, err error) error {
	if homestack.IsNotFound(err) {
		fmt.Fprint(os.Stderr, ui.FormatError(fmt.Sprintf("Service '%s' not found", id), "", "run 'homestack list' to see available services"))
		return errFailed
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
