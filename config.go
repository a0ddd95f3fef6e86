package quill

// OVERVIEW
//
// Project configuration. A project directory may carry a quill.yaml
// (or quill.yml) describing the entry script and where package
// dependencies live. Everything is optional: a bare script runs with
// the defaults, and the QUILL_DEPS environment variable overrides the
// deps directory regardless of configuration.

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the project config file.
const ConfigFileName = "quill.yaml"

// ConfigFileNameAlt is the alternate name of the project config file.
const ConfigFileNameAlt = "quill.yml"

// DepsEnvVar overrides the configured deps directory when set.
const DepsEnvVar = "QUILL_DEPS"

// ProjectConfig describes one project directory.
type ProjectConfig struct {
	Name  string `koanf:"name"`
	Entry string `koanf:"entry"`
	Deps  string `koanf:"deps"`
}

// ApplyDefaults fills in unset fields.
func (c *ProjectConfig) ApplyDefaults() {
	if c.Entry == "" {
		c.Entry = "main" + SourceExt
	}
	if c.Deps == "" {
		c.Deps = "deps"
	}
}

// LoadConfigFromDir loads the project config from the given directory.
// A missing config file is not an error: the defaults are returned.
func LoadConfigFromDir(dir string) (*ProjectConfig, error) {
	var cfg ProjectConfig

	configPath := findConfigFile(dir)
	if configPath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// DepsRoot resolves the deps directory for a project rooted at dir:
// the QUILL_DEPS environment variable wins, then the configured path
// (relative to dir unless absolute).
func (c *ProjectConfig) DepsRoot(dir string) string {
	if env := os.Getenv(DepsEnvVar); env != "" {
		return env
	}
	if filepath.IsAbs(c.Deps) {
		return c.Deps
	}
	return filepath.Join(dir, c.Deps)
}

func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}
	return ""
}

// FindProjectRoot walks up from startDir to the nearest directory
// containing a project config file. Returns "" when none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if findConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
