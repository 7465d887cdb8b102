package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/reqscan/internal/core"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FileName is the dedicated configuration file looked up in the project root.
	FileName = ".reqscan.yaml"

	// PyProjectFile hosts the [tool.reqscan] table.
	PyProjectFile = "pyproject.toml"

	// PythonEnvVar overrides the interpreter used for classification and pip.
	PythonEnvVar = "REQSCAN_PYTHON"
)

// Config is the main configuration structure for reqscan.
type Config struct {
	// Output is the manifest path, relative to the scanned root unless absolute.
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`

	// Python is the interpreter used for module probing and pip freeze.
	Python string `yaml:"python,omitempty" toml:"python,omitempty"`

	// Extensions lists the source file extensions to scan.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Exclude lists glob patterns matched against entry names and paths.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`

	// ThirdPartyMarkers are path fragments that mark an installed distribution.
	ThirdPartyMarkers []string `yaml:"third-party-markers,omitempty" toml:"third-party-markers,omitempty"`

	// Hints toggles fuzzy suggestions for unresolved packages.
	Hints *bool `yaml:"hints,omitempty" toml:"hints,omitempty"`

	// Theme selects the prompt theme.
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty"`

	// Source records where the configuration was loaded from ("" for defaults).
	Source string `yaml:"-" toml:"-"`
}

// pyProject is the subset of pyproject.toml reqscan reads.
type pyProject struct {
	Tool struct {
		Reqscan *Config `toml:"reqscan"`
	} `toml:"tool"`
}

// lookPathFn is swapped in tests to control interpreter discovery.
var lookPathFn = exec.LookPath

// LoadConfigFn is the loader used by the CLI. Tests replace it to inject configs.
var LoadConfigFn = Load

// Load reads configuration for the project rooted at dir.
//
// Priority: an explicit file (when explicitPath is set), then .reqscan.yaml,
// then [tool.reqscan] in pyproject.toml, then built-in defaults. The
// REQSCAN_PYTHON environment variable overrides the interpreter in every case.
func Load(dir, explicitPath string) (*Config, error) {
	cfg, err := loadFile(dir, explicitPath)
	if err != nil {
		return nil, err
	}

	if envPython := strings.TrimSpace(os.Getenv(PythonEnvVar)); envPython != "" {
		cfg.Python = envPython
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func loadFile(dir, explicitPath string) (*Config, error) {
	if explicitPath != "" {
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", explicitPath, err)
		}
		return decodeYAML(data, explicitPath)
	}

	yamlPath := filepath.Join(dir, FileName)
	data, err := os.ReadFile(yamlPath)
	if err == nil {
		return decodeYAML(data, yamlPath)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %q: %w", yamlPath, err)
	}

	tomlPath := filepath.Join(dir, PyProjectFile)
	data, err = os.ReadFile(tomlPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %q: %w", tomlPath, err)
	}

	var project pyProject
	if err := toml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse TOML in %q: %w", tomlPath, err)
	}
	if project.Tool.Reqscan == nil {
		return &Config{}, nil
	}
	cfg := project.Tool.Reqscan
	cfg.Source = tomlPath
	return cfg, nil
}

func decodeYAML(data []byte, path string) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			cfg.Source = path
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}
	cfg.Source = path
	return &cfg, nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = core.DefaultManifestName
	}
	if c.Python == "" {
		c.Python = DefaultPython()
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{core.DefaultSourceExtension}
	}
	if len(c.ThirdPartyMarkers) == 0 {
		c.ThirdPartyMarkers = []string{core.DefaultThirdPartyMarker}
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// HintsEnabled reports whether unresolved-package suggestions are printed.
func (c *Config) HintsEnabled() bool {
	return c.Hints == nil || *c.Hints
}

// OutputPath resolves the manifest path against root.
func (c *Config) OutputPath(root string) string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(root, c.Output)
}

// DefaultPython returns python3 when it is on PATH and python otherwise.
func DefaultPython() string {
	if _, err := lookPathFn("python3"); err == nil {
		return "python3"
	}
	return "python"
}
