package cmd

import (
	"context"

	"github.com/ThomasCrouzet/homestack/internal/homestack"
	"github.com/ThomasCrouzet/homestack/internal/model"
	"github.com/spf13/cobra"
)

var removeVolumes bool

func init() {
	rootCmd.AddCommand(
		lifecycleCmd("start", "Start a stopped service", (*homestack.Service).Start),
		lifecycleCmd("stop", "Stop a running service", (*homestack.Service).Stop),
		lifecycleCmd("restart", "Restart a service", (*homestack.Service).Restart),
	)

	removeCmd := &cobra.Command{
		Use:   "remove <service>",
		Short: "Tear a service down and delete its .env file",
		Long: `Run 'down' for the service and delete its .env file. Persistent data under
the data directory is kept; --volumes also removes named volumes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *homestack.Service) model.LifecycleResult {
				return svc.Remove(ctx, args[0], removeVolumes)
			})
		},
	}
	removeCmd.Flags().BoolVar(&removeVolumes, "volumes", false, "also remove the service's volumes")
	rootCmd.AddCommand(removeCmd)
}

func lifecycleCmd(name, short string, op func(*homestack.Service, context.Context, string) model.LifecycleResult) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <service>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *homestack.Service) model.LifecycleResult {
				return op(svc, ctx, args[0])
			})
		},
	}
}

func withService(cmd *cobra.Command, fn func(context.Context, *homestack.Service) model.LifecycleResult) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	return reportResult(fn(ctx, svc))
}
