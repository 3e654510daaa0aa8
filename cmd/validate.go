package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/config"
	"github.com/ThomasCrouzet/homestack/internal/homestack"
	"github.com/ThomasCrouzet/homestack/internal/manifest"
	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate your homestack.yml configuration and environment",
	Long: `Check that the configuration is usable: the services directory exists and
its manifests load, the compose command is installed and the container
runtime answers.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println(ui.Bold("Validating homestack.yml..."))

	passed := 0
	failed := 0
	fail := func(field, message, suggestion string) {
		ui.ValidationErr(field, message, suggestion)
		failed++
	}
	ok := func(field, detail string) {
		ui.ValidationOK(field, detail)
		passed++
	}

	// Config values
	errs := cfg.Validate()
	for _, ve := range errs {
		fail(ve.Field, ve.Message, ve.Suggestion)
	}
	if len(errs) == 0 {
		ok("config", "values valid")
	}

	// Manifests
	ctx := cmd.Context()
	validateManifests(ctx, cfg, ok, fail)

	// Compose command
	if len(cfg.ComposeCommand) > 0 {
		bin := cfg.ComposeCommand[0]
		if path, err := findExecutable(bin); err != nil {
			fail("compose_command", fmt.Sprintf("%s not found in PATH", bin), "install docker with the compose plugin")
		} else {
			versionArgs := append(append([]string{}, cfg.ComposeCommand[1:]...), "version")
			out, err := execCommand(path, versionArgs...).CombinedOutput()
			if err != nil {
				fail("compose_command", fmt.Sprintf("%s failed: %s", strings.Join(cfg.ComposeCommand, " "), strings.TrimSpace(string(out))), "check the compose_command setting")
			} else {
				ok("compose_command", strings.TrimSpace(firstLine(string(out))))
			}
		}
	}

	// Runtime
	svc, err := homestack.New(cfg)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Query)
		err = svc.Runtime.Ping(pingCtx)
		cancel()
		svc.Close()
	}
	if err != nil {
		fail("runtime", err.Error(), "check that the docker daemon is running and reachable")
	} else {
		ok("runtime", cfg.Runtime.Backend+" backend reachable")
	}

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
	} else {
		fmt.Printf("%d checks passed, %d errors\n", passed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d validation errors", failed)
	}
	return nil
}

func validateManifests(ctx context.Context, cfg *config.Config, ok func(string, string), fail func(string, string, string)) {
	store := manifest.NewStore(cfg.ServicesRoot, cfg.ManifestName, cfg.Vendor)
	entries, err := store.List()
	if err != nil {
		fail("services_root", err.Error(), "")
		return
	}
	for _, e := range entries {
		if err := manifest.Validate(ctx, e.ManifestPath); err != nil {
			fail(e.ID, err.Error(), "run 'docker compose config' in the service directory")
			continue
		}
		if _, err := store.Loader.Load(ctx, e.ID, e.ManifestPath); err != nil {
			fail(e.ID, err.Error(), "")
			continue
		}
		ok(e.ID, "manifest valid")
	}
	if len(entries) == 0 {
		ui.Warn(fmt.Sprintf("no services found in %s", cfg.ServicesRoot))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
