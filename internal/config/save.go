package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/indaco/reqscan/internal/core"
)

// FilePerm is the mode of a written .reqscan.yaml.
const FilePerm = core.PermFile

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// Saver writes configuration files with injected dependencies.
type Saver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewSaver creates a Saver. Nil dependencies fall back to the production defaults.
func NewSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *Saver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &Saver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// SaveTo writes cfg as YAML to path, truncating any existing file.
func (s *Saver) SaveTo(cfg *Config, path string) error {
	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", path, err)
	}

	file, err := s.fileOpener.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", path, err)
	}
	defer file.Close()

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", path, err)
	}
	return nil
}
