package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/max-moser/invenio-cli/internal/process"
	"github.com/max-moser/invenio-cli/internal/services/health"
)

// newServicesSetupCommand creates the "services setup" subcommand that runs
// one-time service initialization.
func newServicesSetupCommand(opts *Options) *cobra.Command {
	var (
		force        bool
		noDemoData   bool
		stopServices bool
		noServices   bool
		retries      int
		interval     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Set up the project services (database, indices, admin account)",
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

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
			defer cancel()

			steps := commands.Setup(force, !noDemoData, stopServices, !noServices)
			res := commands.Run(ctx, steps)
			if err := resultErr(res, "services setup"); err != nil {
				return err
			}

			logger.Info("services setup completed")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Tear down existing service state before setting up")
	cmd.Flags().BoolVar(&noDemoData, "no-demo-data", false, "Skip loading demo records")
	cmd.Flags().BoolVar(&stopServices, "stop-services", false, "Stop the containers after setup completes")
	cmd.Flags().BoolVar(&noServices, "no-services", false, "Do not start containers before setup")
	cmd.Flags().IntVar(&retries, "retries", health.DefaultWaitOptions().MaxRetries, "Health check attempts per service")
	cmd.Flags().DurationVar(&interval, "retry-interval", health.DefaultWaitOptions().Interval, "Delay between health check attempts")

	return cmd
}

// resultErr converts a failed pipeline outcome into an error for cobra.
func resultErr(res process.Result, op string) error {
	if res.OK() {
		return nil
	}
	return fmt.Errorf("%s failed (status %d): %s", op, res.StatusCode, res.Error)
}
