// Package process executes external commands and reports their outcome as data.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result is the uniform outcome of one orchestrated operation.
// StatusCode 0 means success; Error carries diagnostic text for failures.
// A Result is a value and is never mutated after construction.
type Result struct {
	// Output is the captured standard output of the operation.
	Output string
	// Error is the captured error text, set for failed operations.
	Error string
	// StatusCode is the exit status of the operation; zero means success.
	StatusCode int
}

// OK reports whether the result represents a successful operation.
func (r Result) OK() bool {
	return r.StatusCode == 0
}

// Success builds a successful Result with the given output text.
func Success(output string) Result {
	return Result{Output: output}
}

// Failure builds a failed Result with the given status code and error text.
func Failure(statusCode int, error string) Result {
	if statusCode == 0 {
		statusCode = 1
	}
	return Result{Error: error, StatusCode: statusCode}
}

// Failuref builds a failed Result with status code 1 and a formatted error text.
func Failuref(format string, args ...any) Result {
	return Failure(1, fmt.Sprintf(format, args...))
}

// Runner spawns external commands with an environment overlay and captures their outcome.
// Non-zero exits and unrunnable binaries are reported through the Result, never as errors.
type Runner struct {
	// Verbose streams command output to the terminal in addition to capturing it.
	Verbose bool
	// Stdout receives streamed standard output when Verbose is set.
	Stdout io.Writer
	// Stderr receives streamed standard error when Verbose is set.
	Stderr io.Writer
}

// NewRunner constructs a Runner. When verbose is true, command output is
// mirrored to the controlling terminal while still being captured.
func NewRunner(verbose bool) *Runner {
	return &Runner{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run executes the given argument vector as a child process. The overlay is
// merged over the inherited environment, overlay keys winning on conflict.
// The command is never passed through a shell.
func (r *Runner) Run(ctx context.Context, command []string, overlay map[string]string) Result {
	if len(command) == 0 {
		return Failure(1, "empty command")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = mergeEnviron(os.Environ(), overlay)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Verbose {
		if r.Stdout != nil {
			cmd.Stdout = io.MultiWriter(r.Stdout, &stdout)
		}
		if r.Stderr != nil {
			cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
		}
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return Result{
				Output:     stdout.String(),
				Error:      msg,
				StatusCode: exitErr.ExitCode(),
			}
		}
		// The command never ran (binary missing, context cancelled, ...).
		return Failure(1, fmt.Sprintf("run %s: %v", command[0], err))
	}

	return Result{Output: stdout.String()}
}

// mergeEnviron merges overlay key/value pairs over an inherited environment.
func mergeEnviron(inherited []string, overlay map[string]string) []string {
	if len(overlay) == 0 {
		return inherited
	}

	merged := make([]string, 0, len(inherited)+len(overlay))
	for _, kv := range inherited {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, shadowed := overlay[key]; shadowed {
			continue
		}
		merged = append(merged, kv)
	}
	for key, value := range overlay {
		merged = append(merged, key+"="+value)
	}
	return merged
}
