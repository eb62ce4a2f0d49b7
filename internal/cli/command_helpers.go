package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/max-moser/invenio-cli/internal/compose"
	"github.com/max-moser/invenio-cli/internal/config"
	"github.com/max-moser/invenio-cli/internal/logging"
	"github.com/max-moser/invenio-cli/internal/process"
	"github.com/max-moser/invenio-cli/internal/services"
	"github.com/max-moser/invenio-cli/internal/services/health"
)

// newGroupCommand builds a cobra.Command that groups subcommands.
func newGroupCommand(use, short string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	if len(subcommands) > 0 {
		cmd.AddCommand(subcommands...)
	}
	return cmd
}

// newServiceCommands loads the project configuration and wires the service
// command façade with its collaborators.
func newServiceCommands(opts *Options, logger *slog.Logger) (*services.Commands, error) {
	project, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	runner := process.NewRunner(opts.Verbose)
	if opts.Verbose {
		runner.Stdout = logging.NewWriter(logger, "stdout")
		runner.Stderr = logging.NewWriter(logger, "stderr")
	}
	containers := compose.NewHelper(runner, project.GetComposeFile(), project.GetProjectShortname())

	return services.NewCommands(project, containers, runner, health.NewRegistry(), logger, opts.Verbose), nil
}
