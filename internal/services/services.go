// Package services composes the lifecycle operations for a project's
// containerized services into ordered step lists.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/max-moser/invenio-cli/internal/env"
	"github.com/max-moser/invenio-cli/internal/process"
	"github.com/max-moser/invenio-cli/internal/services/health"
	"github.com/max-moser/invenio-cli/internal/step"
)

// adminEmail is the account created during one-time service setup.
const adminEmail = "admin@inveniosoftware.org"

// ConfigPort is the project configuration surface the façade depends on.
// *config.Project satisfies it; tests substitute fakes.
type ConfigPort interface {
	GetProjectShortname() string
	GetDBType() string
	GetInstancePath() string
	GetComposeFile() string
	GetEnvFiles() []string
	ProjectDir() string
	GetServicesSetup() (bool, error)
	UpdateServicesSetup(isSetup bool) error
}

// ContainerRuntime is the container lifecycle surface the façade depends on.
// *compose.Helper satisfies it.
type ContainerRuntime interface {
	StartContainers(ctx context.Context) process.Result
	StopContainers(ctx context.Context) process.Result
	DestroyContainers(ctx context.Context) process.Result
}

// Commands builds and runs the step lists for service lifecycle operations.
// Each builder is a pure function of configuration state; execution happens
// separately through Run.
type Commands struct {
	cfg        ConfigPort
	containers ContainerRuntime
	runner     step.CommandRunner
	registry   health.Registry
	logger     *slog.Logger
	waitOpts   health.WaitOptions
	verbose    bool
}

// NewCommands constructs the service command façade.
func NewCommands(cfg ConfigPort, containers ContainerRuntime, runner step.CommandRunner, registry health.Registry, logger *slog.Logger, verbose bool) *Commands {
	return &Commands{
		cfg:        cfg,
		containers: containers,
		runner:     runner,
		registry:   registry,
		logger:     logger,
		waitOpts:   health.DefaultWaitOptions(),
		verbose:    verbose,
	}
}

// SetWaitOptions overrides the readiness polling budget.
func (c *Commands) SetWaitOptions(opts health.WaitOptions) {
	c.waitOpts = opts
}

// Run executes a step list through a fail-fast pipeline.
func (c *Commands) Run(ctx context.Context, steps []step.Step) process.Result {
	return step.NewPipeline(c.logger).Run(ctx, steps)
}

// EnsureContainersRunning starts the container group and blocks until the
// cache, database and search services report healthy.
func (c *Commands) EnsureContainersRunning(ctx context.Context) process.Result {
	if res := c.containers.StartContainers(ctx); !res.OK() {
		return res
	}

	res := c.registry.WaitForServices(
		ctx,
		c.logger,
		c.DefaultServices(),
		c.healthParams(),
		c.waitOpts,
	)
	if !res.OK() {
		return res
	}
	return process.Success("Containers started and healthy.")
}

// DefaultServices returns the fixed service set used for readiness waits and
// as the default for status queries: cache, database and search.
func (c *Commands) DefaultServices() []string {
	return []string{"redis", c.cfg.GetDBType(), "es"}
}

// ExpectedStatus checks that the persisted setup flag matches the expected
// value. It is used as a precondition guard before mutating step sequences.
func (c *Commands) ExpectedStatus(expected bool) process.Result {
	actual, err := c.cfg.GetServicesSetup()
	if err != nil {
		return process.Failuref("read services setup status: %v", err)
	}
	if actual != expected {
		return process.Failuref("services setup status inconsistent: expected %t, got %t", expected, actual)
	}
	return process.Success("Services setup status consistent.")
}

// cleanupSteps tears down service state. The setup guard runs first and the
// flag update runs last, so the fail-fast pipeline marks the teardown
// complete only when every destructive step succeeded.
func (c *Commands) cleanupSteps() []step.Step {
	overlay := c.commandEnv()

	return []step.Step{
		c.guardStep(true, "Checking services are setup..."),
		step.Command{
			Runner: c.runner,
			Cmd: []string{
				"pipenv", "run", "invenio", "shell", "--no-term-title", "-c",
				"import redis; redis.StrictRedis.from_url(app.config['CACHE_REDIS_URL']).flushall(); print('Cache cleared')",
			},
			Env: overlay,
			Msg: "Flushing cache...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "db", "destroy", "--yes-i-know"},
			Env:    overlay,
			Msg:    "Destroying database...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "index", "destroy", "--force", "--yes-i-know"},
			Env:    overlay,
			Msg:    "Destroying indices...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "index", "queue", "init", "purge"},
			Env:    overlay,
			Msg:    "Purging queues...",
		},
		c.updateSetupStep(false),
	}
}

// setupSteps performs one-time service initialization. The guard runs first;
// the flag update runs last.
func (c *Commands) setupSteps() []step.Step {
	overlay := c.commandEnv()
	password := uuid.NewString()

	return []step.Step{
		c.guardStep(false, "Checking services are not yet setup..."),
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "db", "init", "create"},
			Env:    overlay,
			Msg:    "Creating database...",
		},
		step.Command{
			Runner: c.runner,
			Cmd: []string{
				"pipenv", "run", "invenio", "files", "location", "create",
				"--default", "default-location",
				filepath.Join(c.cfg.GetInstancePath(), "data"),
			},
			Env: overlay,
			Msg: "Creating files location...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "roles", "create", "admin"},
			Env:    overlay,
			Msg:    "Creating admin role...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "access", "allow", "superuser-access", "role", "admin"},
			Env:    overlay,
			Msg:    "Allowing superuser access to admin role...",
		},
		step.Command{
			Runner: c.runner,
			Cmd: []string{
				"pipenv", "run", "invenio", "users", "create", adminEmail,
				"--password", password, "--active",
			},
			Env: overlay,
			Msg: "Creating admin user...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "roles", "add", adminEmail, "admin"},
			Env:    overlay,
			Msg:    "Assigning admin role to admin user...",
		},
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "index", "init"},
			Env:    overlay,
			Msg:    "Creating indices...",
		},
		c.updateSetupStep(true),
	}
}

// vocabulariesSteps loads the fixture vocabularies into the instance.
func (c *Commands) vocabulariesSteps() []step.Step {
	return []step.Step{
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "rdm-records", "fixtures"},
			Env:    c.commandEnv(),
			Msg:    "Creating vocabularies...",
		},
	}
}

// demoSteps loads demo records into the instance.
func (c *Commands) demoSteps() []step.Step {
	return []step.Step{
		step.Command{
			Runner: c.runner,
			Cmd:    []string{"pipenv", "run", "invenio", "rdm-records", "demo"},
			Env:    c.commandEnv(),
			Msg:    "Creating demo records...",
		},
	}
}

// Setup builds the full service setup sequence. The composition order is
// fixed: optional container bring-up, optional cleanup, setup, vocabularies,
// optional demo data, optional final stop.
func (c *Commands) Setup(force, demoData, stop, services bool) []step.Step {
	var steps []step.Step

	if services {
		steps = append(steps, step.Func{
			Fn:  c.EnsureContainersRunning,
			Msg: "Making sure containers are up...",
		})
	}
	if force {
		steps = append(steps, c.cleanupSteps()...)
	}

	steps = append(steps, c.setupSteps()...)
	steps = append(steps, c.vocabulariesSteps()...)

	if demoData {
		steps = append(steps, c.demoSteps()...)
	}
	if stop {
		steps = append(steps, step.Func{
			Fn:  c.containers.StopContainers,
			Msg: "Stopping containers...",
		})
	}
	return steps
}

// Start builds the container bring-up sequence.
func (c *Commands) Start() []step.Step {
	return []step.Step{
		step.Func{
			Fn:  c.EnsureContainersRunning,
			Msg: "Making sure containers are up...",
		},
	}
}

// Stop builds the container stop sequence.
func (c *Commands) Stop() []step.Step {
	return []step.Step{
		step.Func{
			Fn:  c.containers.StopContainers,
			Msg: "Stopping containers...",
		},
	}
}

// Destroy builds the container teardown sequence, resetting the setup flag
// since all service state is removed with the volumes.
func (c *Commands) Destroy() []step.Step {
	return []step.Step{
		step.Func{
			Fn:  c.containers.DestroyContainers,
			Msg: "Destroying containers...",
		},
		c.updateSetupStep(false),
	}
}

// Status probes each named service exactly once and returns one status code
// per service, in input order: 0 healthy, 1 unhealthy, 2 no health check.
func (c *Commands) Status(ctx context.Context, services []string, verbose bool) []int {
	params := c.healthParams()
	params.Verbose = verbose
	return c.registry.Statuses(ctx, services, params)
}

// guardStep wraps ExpectedStatus as a pipeline step.
func (c *Commands) guardStep(expected bool, msg string) step.Step {
	return step.Func{
		Fn: func(context.Context) process.Result {
			return c.ExpectedStatus(expected)
		},
		Msg: msg,
	}
}

// updateSetupStep persists a new value for the one-time setup flag.
func (c *Commands) updateSetupStep(isSetup bool) step.Step {
	return step.Func{
		Fn: func(context.Context) process.Result {
			if err := c.cfg.UpdateServicesSetup(isSetup); err != nil {
				return process.Failuref("update services setup status: %v", err)
			}
			return process.Success(fmt.Sprintf("Services setup status set to %t.", isSetup))
		},
		Msg: fmt.Sprintf("Updating services setup status (%t)...", isSetup),
	}
}

// commandEnv builds the environment overlay for service commands from the
// configured .env files. Pipenv chatter is silenced for non-interactive runs.
func (c *Commands) commandEnv() map[string]string {
	overlay := env.Vars{"PIPENV_VERBOSITY": "-1"}

	fromFiles, err := env.LoadEnvFiles(c.cfg.ProjectDir(), c.cfg.GetEnvFiles())
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("skipping project env files", "error", err)
		}
		return overlay
	}
	return env.Merge(fromFiles, overlay)
}

// healthParams builds the shared inputs for service health checks.
func (c *Commands) healthParams() health.Params {
	return health.Params{
		Filepath:         c.cfg.GetComposeFile(),
		Verbose:          c.verbose,
		ProjectShortname: c.cfg.GetProjectShortname(),
	}
}
