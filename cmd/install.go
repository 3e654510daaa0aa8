package cmd

import (
	"fmt"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	installEnv     []string
	installNoInput bool
)

var installCmd = &cobra.Command{
	Use:   "install <service>",
	Short: "Provision a service's data directory and bring it up",
	Long: `Create the service's data directory and layout, write its .env file from
the given values and run 'up -d'. Without --env, the service's install
prompts are asked interactively when a terminal is attached.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringArrayVarP(&installEnv, "env", "e", nil, "install value as KEY=VALUE (repeatable)")
	installCmd.Flags().BoolVar(&installNoInput, "no-input", false, "never prompt for install values")
}

func runInstall(cmd *cobra.Command, args []string) error {
	id := args[0]
	env, err := parseEnvFlags(installEnv)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()

	if len(env) == 0 && !installNoInput && stdinIsTerminal() {
		desc, err := svc.Store.Describe(ctx, id)
		if err != nil {
			return notFound(id, err)
		}
		env, err = wizard.PromptInstall(desc, env)
		if err != nil {
			return fmt.Errorf("install prompts: %w", err)
		}
	}

	return reportResult(svc.Install(ctx, id, env))
}

// parseEnvFlags splits KEY=VALUE pairs on the first "=".
func parseEnvFlags(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --env %q, expected KEY=VALUE", p)
		}
		env[strings.TrimSpace(k)] = v
	}
	return env, nil
}
