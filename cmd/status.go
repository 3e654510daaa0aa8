package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <service>",
	Short: "Show the live state of a service's containers",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()

	st := svc.GetStatus(ctx, args[0])
	if statusJSON {
		return writeJSON(os.Stdout, st)
	}

	fmt.Printf("%s %s\n", ui.Bold(args[0]), ui.State(st.State))
	if st.Error != "" {
		fmt.Print(ui.FormatError(st.Error, "", "check that the docker daemon is running"))
		return errFailed
	}
	if len(st.Containers) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(st.Containers))
	for _, c := range st.Containers {
		rows = append(rows, []string{c.Name, string(c.State), c.StatusText, c.Image, c.ID})
	}
	fmt.Println()
	ui.Table(os.Stdout, []string{"container", "state", "status", "image", "id"}, rows)
	return nil
}
