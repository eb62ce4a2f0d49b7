// Package step defines the unit of orchestrated work and the fail-fast
// pipeline that executes ordered sequences of such units.
package step

import (
	"context"

	"github.com/max-moser/invenio-cli/internal/process"
)

// Step is one unit of orchestrated work. Implementations are immutable and
// re-runnable; failures are reported through the Result, never by panicking.
type Step interface {
	// Execute performs the unit of work and returns its outcome.
	Execute(ctx context.Context) process.Result
	// Message returns the human-readable progress line emitted before execution.
	Message() string
}

// CommandRunner executes an argument vector with an environment overlay.
// *process.Runner satisfies it; tests substitute fakes.
type CommandRunner interface {
	Run(ctx context.Context, command []string, overlay map[string]string) process.Result
}

// Command is a Step that delegates to an external command.
type Command struct {
	// Runner executes the command.
	Runner CommandRunner
	// Cmd is the argument vector, passed to exec without shell interpretation.
	Cmd []string
	// Env is the environment overlay merged over the inherited environment.
	Env map[string]string
	// Msg is the progress line describing the step.
	Msg string
}

// Execute runs the stored command through the runner.
func (s Command) Execute(ctx context.Context) process.Result {
	return s.Runner.Run(ctx, s.Cmd, s.Env)
}

// Message returns the progress line describing the step.
func (s Command) Message() string {
	return s.Msg
}

// Func is a Step that invokes an in-process function. The function must
// follow the result contract and report failures through the Result.
type Func struct {
	// Fn is the function invoked by Execute.
	Fn func(ctx context.Context) process.Result
	// Msg is the progress line describing the step.
	Msg string
}

// Execute invokes the stored function.
func (s Func) Execute(ctx context.Context) process.Result {
	return s.Fn(ctx)
}

// Message returns the progress line describing the step.
func (s Func) Message() string {
	return s.Msg
}
