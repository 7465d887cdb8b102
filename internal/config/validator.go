package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/indaco/reqscan/internal/core"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Config File", "Extensions").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates a loaded configuration against the project it applies to.
type Validator struct {
	fs          core.FileSystem
	cfg         *Config
	rootDir     string
	validations []ValidationResult
}

// NewValidator creates a new configuration validator for the project at rootDir.
func NewValidator(fs core.FileSystem, cfg *Config, rootDir string) *Validator {
	return &Validator{
		fs:          fs,
		cfg:         cfg,
		rootDir:     rootDir,
		validations: make([]ValidationResult, 0),
	}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)

	if v.cfg == nil {
		return nil, errors.New("no configuration to validate")
	}

	v.validateSource(ctx)
	v.validateExtensions()
	v.validateExcludes()
	v.validateMarkers()
	v.validateOutput(ctx)
	v.validatePython()

	return v.validations, nil
}

func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

func (v *Validator) validateSource(ctx context.Context) {
	if v.cfg.Source == "" {
		v.addValidation("Config File", true, "No configuration file found, using defaults", false)
		return
	}
	if _, err := v.fs.Stat(ctx, v.cfg.Source); err != nil {
		v.addValidation("Config File", false, fmt.Sprintf("Failed to access config file: %v", err), false)
		return
	}
	v.addValidation("Config File", true, fmt.Sprintf("Loaded from %s", v.cfg.Source), false)
}

func (v *Validator) validateExtensions() {
	for _, ext := range v.cfg.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			v.addValidation("Extensions", false, fmt.Sprintf("Invalid extension %q: must start with '.'", ext), false)
			return
		}
	}
	v.addValidation("Extensions", true, fmt.Sprintf("Scanning %s", strings.Join(v.cfg.Extensions, ", ")), false)
}

func (v *Validator) validateExcludes() {
	if len(v.cfg.Exclude) == 0 {
		v.addValidation("Exclude Patterns", true, "No exclude patterns, every file is scanned", false)
		return
	}
	for _, pattern := range v.cfg.Exclude {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			v.addValidation("Exclude Patterns", false, fmt.Sprintf("Invalid pattern %q: %v", pattern, err), false)
			return
		}
	}
	v.addValidation("Exclude Patterns", true, fmt.Sprintf("%d pattern(s) configured", len(v.cfg.Exclude)), false)
}

func (v *Validator) validateMarkers() {
	for _, marker := range v.cfg.ThirdPartyMarkers {
		if strings.TrimSpace(marker) == "" {
			v.addValidation("Third-party Markers", false, "Empty marker is ignored", true)
			return
		}
	}
	v.addValidation("Third-party Markers", true, strings.Join(v.cfg.ThirdPartyMarkers, ", "), false)
}

func (v *Validator) validateOutput(ctx context.Context) {
	path := v.cfg.OutputPath(v.rootDir)
	info, err := v.fs.Stat(ctx, path)
	switch {
	case err == nil && info.IsDir():
		v.addValidation("Output", false, fmt.Sprintf("%s is a directory", path), false)
	case err == nil:
		v.addValidation("Output", true, fmt.Sprintf("%s exists and will be overwritten", path), false)
	case errors.Is(err, os.ErrNotExist):
		v.addValidation("Output", true, fmt.Sprintf("%s will be created", path), false)
	default:
		v.addValidation("Output", false, fmt.Sprintf("Cannot access %s: %v", path, err), false)
	}
}

func (v *Validator) validatePython() {
	resolved, err := lookPathFn(v.cfg.Python)
	if err != nil {
		v.addValidation("Python Interpreter", false, fmt.Sprintf("%q not found on PATH", v.cfg.Python), false)
		return
	}
	v.addValidation("Python Interpreter", true, resolved, false)
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}
