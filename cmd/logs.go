package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/ThomasCrouzet/homestack/internal/status"
	"github.com/ThomasCrouzet/homestack/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logsTail   int
	logsFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs <service>",
	Short: "Print recent log lines of every container of a service",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", status.DefaultTail, "lines per container")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "stream new lines (not supported)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()

	out, err := svc.GetLogs(ctx, args[0], logsTail, logsFollow)
	if errors.Is(err, model.ErrFollowUnsupported) {
		fmt.Fprint(os.Stderr, ui.FormatError("Following logs is not supported", "", "use 'docker compose logs -f' in the service directory"))
		return errFailed
	}
	if err != nil {
		return err
	}
	fmt.Print(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
