package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listWithStatus bool
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the services available to install",
	Long: `Scan the services directory and list every service whose manifest parses,
grouped by category. Manifests that fail to parse are skipped and logged.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listWithStatus, "status", "s", false, "query the live status of each service")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()

	services, err := svc.ListServices(ctx)
	if err != nil {
		return err
	}

	if listJSON {
		return writeJSON(os.Stdout, services)
	}

	if len(services) == 0 {
		ui.Warn(fmt.Sprintf("no services found in %s", svc.Config.ServicesRoot))
		return nil
	}

	categories, grouped := model.GroupByCategory(services)
	for i, cat := range categories {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(ui.Bold(model.CategoryLabel(cat)))

		headers := []string{"id", "name", "description"}
		if listWithStatus {
			headers = append(headers, "status")
		}
		rows := make([][]string, 0, len(grouped[cat]))
		for _, d := range grouped[cat] {
			row := []string{d.ID, d.DisplayName(), d.Description}
			if listWithStatus {
				row = append(row, string(svc.GetStatus(ctx, d.ID).State))
			}
			rows = append(rows, row)
		}
		ui.Table(os.Stdout, headers, rows)
	}
	return nil
}
