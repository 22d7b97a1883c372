package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
	"gopkg.in/yaml.v3"
)

// Default configuration file names
const (
	GlobalConfigName = "whitesource.yml"
	JobConfigName    = "whitesource-job.yml"
)

// GlobalConfigStore handles global (organization-wide) config I/O operations
type GlobalConfigStore interface {
	Load() (types.GlobalConfig, error)
	Save(cfg types.GlobalConfig) error
	Path() string
}

// JobConfigStore handles per-job config I/O operations
type JobConfigStore interface {
	Load() (types.JobConfig, error)
	Save(cfg types.JobConfig) error
	Path() string
}

// FileGlobalConfigStore implements GlobalConfigStore using the filesystem
type FileGlobalConfigStore struct {
	path string
}

// NewFileGlobalConfigStore creates a new FileGlobalConfigStore.
// An empty path defaults to whitesource.yml in the working directory.
func NewFileGlobalConfigStore(path string) *FileGlobalConfigStore {
	if path == "" {
		path = GlobalConfigName
	}
	return &FileGlobalConfigStore{path: path}
}

// Path returns the global config file path
func (s *FileGlobalConfigStore) Path() string {
	return s.path
}

// Load reads and parses the global config file
func (s *FileGlobalConfigStore) Load() (types.GlobalConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.GlobalConfig{}, nil // OK: not configured yet
		}
		return types.GlobalConfig{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var cfg types.GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.GlobalConfig{}, fmt.Errorf("invalid %s: %w", s.path, err)
	}

	return cfg, nil
}

// Save writes the global config file
func (s *FileGlobalConfigStore) Save(cfg types.GlobalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal global config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	return nil
}

// FileJobConfigStore implements JobConfigStore using the filesystem
type FileJobConfigStore struct {
	path string
}

// NewFileJobConfigStore creates a new FileJobConfigStore.
// An empty path defaults to whitesource-job.yml in the working directory.
func NewFileJobConfigStore(path string) *FileJobConfigStore {
	if path == "" {
		path = JobConfigName
	}
	return &FileJobConfigStore{path: path}
}

// Path returns the job config file path
func (s *FileJobConfigStore) Path() string {
	return s.path
}

// Load reads and parses the job config file
func (s *FileJobConfigStore) Load() (types.JobConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.JobConfig{}, nil // OK: job carries no overrides
		}
		return types.JobConfig{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var cfg types.JobConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.JobConfig{}, fmt.Errorf("invalid %s: %w", s.path, err)
	}

	return cfg, nil
}

// Save writes the job config file
func (s *FileJobConfigStore) Save(cfg types.JobConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal job config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	return nil
}
