package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/provision"
	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/spf13/cobra"
)

var (
	showJSON   bool
	showReadme bool
)

var showCmd = &cobra.Command{
	Use:   "show <service>",
	Short: "Show a service's metadata and current status",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	showCmd.Flags().BoolVar(&showReadme, "readme", false, "print the service README")
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()

	detail, err := svc.GetService(ctx, id)
	if err != nil {
		return notFound(id, err)
	}

	if showJSON {
		return writeJSON(os.Stdout, detail)
	}

	fmt.Println(ui.Bold(detail.DisplayName()))
	if detail.Description != "" {
		fmt.Println(ui.Dim(detail.Description))
	}
	fmt.Println()

	pairs := [][2]string{
		{"ID", detail.ID},
		{"Category", detail.Category},
		{"Icon", detail.Icon},
		{"Status", ui.State(detail.Status.State)},
		{"Manifest", detail.ManifestPath},
	}
	if detail.URL != nil {
		pairs = append(pairs, [2]string{"URL", *detail.URL})
	}
	if n := detail.Status.ContainerCount(); n > 1 {
		pairs = append(pairs, [2]string{"Containers", fmt.Sprint(n)})
	}
	if detail.Status.Error != "" {
		pairs = append(pairs, [2]string{"Status error", detail.Status.Error})
	}
	if env, err := provision.ReadEnvFile(detail.ServiceDir); err == nil && len(env) > 0 {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs = append(pairs, [2]string{"Configured", strings.Join(keys, ", ")})
	}
	ui.KeyValues(os.Stdout, pairs)

	if len(detail.InstallPrompts) > 0 {
		fmt.Println()
		fmt.Println(ui.Bold("Install prompts"))
		rows := make([][]string, 0, len(detail.InstallPrompts))
		for _, p := range detail.InstallPrompts {
			rows = append(rows, []string{p.Key, p.EnvVar, p.Label})
		}
		ui.Table(os.Stdout, []string{"key", "env var", "label"}, rows)
	}

	if showReadme && detail.Readme != nil {
		fmt.Println()
		fmt.Println(*detail.Readme)
	}
	return nil
}
