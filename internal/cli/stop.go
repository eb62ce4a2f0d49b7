package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// newServicesStopCommand creates the "services stop" subcommand.
func newServicesStopCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the project containers without removing any state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			commands, err := newServiceCommands(opts, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			res := commands.Run(ctx, commands.Stop())
			if err := resultErr(res, "services stop"); err != nil {
				return err
			}

			logger.Info("services stopped")
			return nil
		},
	}
}
