package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/homestack/internal/config"
	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/ThomasCrouzet/homestack/internal/wizard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigName = "homestack.yml"

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a homestack config file interactively",
	Long: `Look for docker, docker compose, a services directory and a data directory,
then write a config file from the answers to an interactive wizard.

The file goes to the path given with --config, or homestack.yml in the
current directory.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file without asking")
	rootCmd.AddCommand(initCmd)
}

// initConfigPath is where init writes: the --config path with ~ expanded,
// else homestack.yml in the working directory.
func initConfigPath(flag string) string {
	if flag == "" {
		return defaultConfigName
	}
	return config.ExpandPath(flag)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := initConfigPath(cfgFile)

	_, err := os.Stat(configPath)
	switch {
	case err == nil && !initForce:
		if !stdinIsTerminal() {
			return fmt.Errorf("%s already exists; rerun with --force to replace it", configPath)
		}
		overwrite, err := wizard.ConfirmOverwrite(configPath)
		if err != nil {
			return fmt.Errorf("wizard: %w", err)
		}
		if !overwrite {
			fmt.Println("Aborted.")
			return nil
		}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("checking %s: %w", configPath, err)
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil, viper.GetString("manifest_name"))
	if detection.ServicesRoot == "" {
		ui.Warn("no services directory found; enter one in the wizard")
	}

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Println()
	next := "homestack validate"
	if cfgFile != "" {
		next += " --config " + configPath
	}
	fmt.Printf("Next step: %s\n", ui.Bold(next))
	fmt.Printf("           %s\n", ui.Hint("then 'homestack list' to see the available services"))

	return nil
}
