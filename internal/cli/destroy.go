package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newServicesDestroyCommand creates the "services destroy" subcommand that
// removes the containers together with their volumes.
func newServicesDestroyCommand(opts *Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the project containers and all service state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			if !yes {
				confirmed, err := confirm(cmd, "Destroy containers and all service data? [y/N]: ")
				if err != nil {
					return err
				}
				if !confirmed {
					logger.Info("destroy aborted")
					return nil
				}
			}

			commands, err := newServiceCommands(opts, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			res := commands.Run(ctx, commands.Destroy())
			if err := resultErr(res, "services destroy"); err != nil {
				return err
			}

			logger.Info("services destroyed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Do not prompt for confirmation")

	return cmd
}

// confirm prompts on the command's streams and reports whether the operator
// answered yes.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
