// Package compose provides low-level integration with the container runtime
// via docker compose.
package compose

import (
	"context"

	"github.com/max-moser/invenio-cli/internal/process"
)

// CommandRunner executes an argument vector with an environment overlay.
// *process.Runner satisfies it; tests substitute fakes.
type CommandRunner interface {
	Run(ctx context.Context, command []string, overlay map[string]string) process.Result
}

// Helper wraps docker compose execution for one project's container group.
type Helper struct {
	runner CommandRunner
	// File is the container-topology descriptor (docker-services.yml).
	File string
	// Project is the compose project name, derived from the project shortname.
	Project string
}

// NewHelper constructs a compose helper for the given topology file and project name.
func NewHelper(runner CommandRunner, file, project string) *Helper {
	return &Helper{
		runner:  runner,
		File:    file,
		Project: project,
	}
}

// StartContainers brings the container group up in detached mode.
func (h *Helper) StartContainers(ctx context.Context) process.Result {
	return h.runner.Run(ctx, h.args("up", "-d"), nil)
}

// StopContainers stops the container group without removing anything.
func (h *Helper) StopContainers(ctx context.Context) process.Result {
	return h.runner.Run(ctx, h.args("stop"), nil)
}

// DestroyContainers removes the container group including named volumes.
func (h *Helper) DestroyContainers(ctx context.Context) process.Result {
	return h.runner.Run(ctx, h.args("down", "--volumes"), nil)
}

func (h *Helper) args(subcommand string, extra ...string) []string {
	out := baseArgs(h.File, h.Project)
	out = append(out, subcommand)
	return append(out, extra...)
}

// ExecArgs builds the argument vector for running a command inside a service
// container of the given compose project. Used by service health checks.
func ExecArgs(file, project, service string, command ...string) []string {
	out := baseArgs(file, project)
	out = append(out, "exec", "-T", service)
	return append(out, command...)
}

func baseArgs(file, project string) []string {
	out := []string{"docker", "compose"}
	if file != "" {
		out = append(out, "-f", file)
	}
	if project != "" {
		out = append(out, "-p", project)
	}
	return out
}
