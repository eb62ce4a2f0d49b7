package cli

import (
	envparse "github.com/caarlos0/env/v11"

	"github.com/max-moser/invenio-cli/internal/logging"
)

// baseEnv defines root CLI defaults sourced from INVENIO_CLI_* env vars.
type baseEnv struct {
	// ConfigPath is the project configuration path from INVENIO_CLI_CONFIG.
	ConfigPath string `env:"INVENIO_CLI_CONFIG"`
	// LogLevel is the logging level from INVENIO_CLI_LOG_LEVEL.
	LogLevel string `env:"INVENIO_CLI_LOG_LEVEL"`
	// Verbose toggles command output streaming from INVENIO_CLI_VERBOSE.
	Verbose bool `env:"INVENIO_CLI_VERBOSE"`
}

// applyEnvDefaults overrides option defaults from INVENIO_CLI_* env vars.
// Explicit flags still win because they are parsed after defaults are set.
func applyEnvDefaults(opts *Options) {
	var base baseEnv
	if err := envparse.Parse(&base); err != nil {
		return
	}

	if base.ConfigPath != "" {
		opts.ConfigPath = base.ConfigPath
	}
	if base.LogLevel != "" {
		opts.LogLevel = logging.ParseLevel(base.LogLevel)
	}
	if base.Verbose {
		opts.Verbose = true
	}
}
