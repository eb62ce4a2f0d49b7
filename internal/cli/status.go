package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/max-moser/invenio-cli/internal/services/health"
)

// newServicesStatusCommand creates the "services status" subcommand that
// probes each requested service exactly once.
func newServicesStatusCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [service...]",
		Short: "Show the health status of the project services",
		Long: "Show the health status of the project services. Each service is probed once " +
			"and reported as healthy, unhealthy, or without a registered health check. " +
			"Without arguments the cache, database and search services are probed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			commands, err := newServiceCommands(opts, logger)
			if err != nil {
				return err
			}

			services := args
			if len(services) == 0 {
				services = commands.DefaultServices()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			codes := commands.Status(ctx, services, opts.Verbose)

			var unhealthy []string
			for i, service := range services {
				switch codes[i] {
				case health.CodeHealthy:
					logger.Info("service is healthy", "service", service)
				case health.CodeNoCheck:
					logger.Warn("no health check defined for service", "service", service)
				default:
					logger.Error("service is unhealthy", "service", service)
					unhealthy = append(unhealthy, service)
				}
			}

			if len(unhealthy) > 0 {
				return fmt.Errorf("unhealthy services: %s", strings.Join(unhealthy, ", "))
			}
			return nil
		},
	}

	return cmd
}
