// Package config contains the loader and strongly typed model for the
// persisted invenio-cli project configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project configuration file looked up in the project root.
const DefaultFileName = ".invenio.yml"

// Model mirrors the structure of the project configuration file.
type Model struct {
	// ProjectShortname is the short project name used for container and
	// resource naming.
	ProjectShortname string `yaml:"project_shortname" validate:"required"`
	// InstancePath is the path of the running instance directory, used for
	// file storage locations.
	InstancePath string `yaml:"instance_path,omitempty"`
	// DBType selects the database flavour backing the instance.
	DBType string `yaml:"database,omitempty" validate:"omitempty,oneof=postgresql mysql"`
	// ComposeFile is the container-topology descriptor handed to the
	// container runtime and to service health checks.
	ComposeFile string `yaml:"compose_file,omitempty"`
	// EnvFiles lists .env files merged into the environment of service
	// commands, in order.
	EnvFiles []string `yaml:"env_files,omitempty"`
	// ServicesSetup records whether one-time service setup has completed.
	ServicesSetup bool `yaml:"services_setup"`
}

// Project is the handle to a loaded project configuration. The setup flag is
// re-read from and written through to disk on every access, so concurrent
// edits of the file by the operator are picked up.
type Project struct {
	path  string
	model Model
}

var validate = validator.New()

// Load reads, validates and defaults the project configuration at path.
func Load(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config %q: %w", path, err)
	}

	model, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("parse project config %q: %w", path, err)
	}

	return &Project{path: path, model: model}, nil
}

// decode parses and validates a configuration document, applying defaults.
func decode(raw []byte) (Model, error) {
	var model Model

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&model); err != nil {
		return Model{}, err
	}

	if model.DBType == "" {
		model.DBType = "postgresql"
	}
	if model.ComposeFile == "" {
		model.ComposeFile = "docker-services.yml"
	}
	if model.InstancePath == "" {
		model.InstancePath = "var/instance"
	}

	if err := validate.Struct(model); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			return Model{}, fmt.Errorf("invalid field %s (%s)", field.Field(), field.Tag())
		}
		return Model{}, err
	}

	return model, nil
}

// Path returns the location of the backing configuration file.
func (p *Project) Path() string {
	return p.path
}

// GetProjectShortname returns the short project name.
func (p *Project) GetProjectShortname() string {
	return p.model.ProjectShortname
}

// GetDBType returns the configured database flavour.
func (p *Project) GetDBType() string {
	return p.model.DBType
}

// GetInstancePath returns the instance directory path.
func (p *Project) GetInstancePath() string {
	return p.model.InstancePath
}

// GetComposeFile returns the container-topology descriptor path.
func (p *Project) GetComposeFile() string {
	return p.model.ComposeFile
}

// GetEnvFiles returns the configured .env file names.
func (p *Project) GetEnvFiles() []string {
	return p.model.EnvFiles
}

// ProjectDir returns the directory containing the configuration file.
func (p *Project) ProjectDir() string {
	return filepath.Dir(p.path)
}

// GetServicesSetup re-reads the configuration file and reports whether
// one-time service setup has completed. The flag is never served from a
// cached copy.
func (p *Project) GetServicesSetup() (bool, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return false, fmt.Errorf("read project config %q: %w", p.path, err)
	}
	model, err := decode(raw)
	if err != nil {
		return false, fmt.Errorf("parse project config %q: %w", p.path, err)
	}
	p.model = model
	return model.ServicesSetup, nil
}

// UpdateServicesSetup persists a new value for the setup flag. The file is
// re-read first so unrelated operator edits survive the write.
func (p *Project) UpdateServicesSetup(isSetup bool) error {
	if _, err := p.GetServicesSetup(); err != nil {
		return err
	}

	p.model.ServicesSetup = isSetup

	out, err := yaml.Marshal(p.model)
	if err != nil {
		return fmt.Errorf("encode project config: %w", err)
	}
	if err := os.WriteFile(p.path, out, 0o644); err != nil {
		return fmt.Errorf("write project config %q: %w", p.path, err)
	}
	return nil
}
