package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThomasCrouzet/homestack/internal/config"
	"github.com/ThomasCrouzet/homestack/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "homestack",
	Short: "Install and run self-hosted services from labelled compose manifests",
	Long: `homestack manages a catalogue of self-hosted services. Each service is a
directory holding a compose manifest whose labels describe it; homestack
installs, starts, stops and removes them through docker compose and reports
their live status from the container runtime.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: homestack.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and command output")
	rootCmd.PersistentFlags().String("services-root", "", "directory holding one folder per service")
	rootCmd.PersistentFlags().String("data-root", "", "base directory for persistent service data")

	_ = viper.BindPFlag("services_root", rootCmd.PersistentFlags().Lookup("services-root"))
	_ = viper.BindPFlag("data_root", rootCmd.PersistentFlags().Lookup("data-root"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("homestack")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "homestack"))
		}
	}

	config.RegisterDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logger.Config{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
		Output: viper.GetString("log.output"),
	}
	if verbose {
		cfg.Level = "debug"
	}
	return logger.Init(cfg)
}
