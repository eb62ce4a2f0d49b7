package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/max-moser/invenio-cli/internal/services/health"
)

// newServicesStartCommand creates the "services start" subcommand that brings
// up containers and waits for the backing services to answer healthy.
func newServicesStartCommand(opts *Options) *cobra.Command {
	var (
		retries  int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the project containers and wait for service readiness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			commands, err := newServiceCommands(opts, logger)
			if err != nil {
				return err
			}
			commands.SetWaitOptions(health.WaitOptions{
				MaxRetries: retries,
				Interval:   interval,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			res := commands.Run(ctx, commands.Start())
			if err := resultErr(res, "services start"); err != nil {
				return err
			}

			logger.Info("services started", "output", res.Output)
			return nil
		},
	}

	cmd.Flags().IntVar(&retries, "retries", health.DefaultWaitOptions().MaxRetries, "Health check attempts per service")
	cmd.Flags().DurationVar(&interval, "retry-interval", health.DefaultWaitOptions().Interval, "Delay between health check attempts")

	return cmd
}
