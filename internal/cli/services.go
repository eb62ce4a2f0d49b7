package cli

import "github.com/spf13/cobra"

// newServicesCommand creates the "services" command group.
func newServicesCommand(opts *Options) *cobra.Command {
	return newGroupCommand(
		"services",
		"Manage the project's containerized services",
		newServicesSetupCommand(opts),
		newServicesStartCommand(opts),
		newServicesStopCommand(opts),
		newServicesDestroyCommand(opts),
		newServicesStatusCommand(opts),
	)
}
