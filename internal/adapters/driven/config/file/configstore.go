package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/tetrivo/tetra/internal/adapters/driven/config"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// configFile is the name of the TOML file inside the config directory.
const configFile = "config.toml"

// ConfigStore keeps configuration in a TOML file. Values from TETRA_*
// environment variables take precedence over the file but are never
// written back to it.
type ConfigStore struct {
	mu        sync.RWMutex
	path      string
	file      config.Values
	overrides config.Values
}

// NewConfigStore opens configDir/config.toml, creating the directory when
// needed. An empty configDir means DefaultDir.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	overrides, err := loadEnvOverrides()
	if err != nil {
		return nil, fmt.Errorf("read TETRA_ environment: %w", err)
	}

	s := &ConfigStore{
		path:      filepath.Join(configDir, configFile),
		overrides: overrides,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir returns ~/.tetra.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tetra"), nil
}

// effective returns the file values with the environment laid over them.
// Callers must hold the read lock.
func (s *ConfigStore) effective() config.Values {
	if len(s.overrides) == 0 {
		return s.file
	}
	merged := s.file.Clone()
	for k, v := range s.overrides {
		merged[k] = v
	}
	return merged
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective().String(key)
}

func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective().Int(key)
}

func (s *ConfigStore) GetFloat(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective().Float(key)
}

func (s *ConfigStore) GetStringSlice(key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effective().StringSlice(key)
}

// Set stores a value in the file and writes it immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file[key] = value
	return s.write()
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

func (s *ConfigStore) Path() string {
	return s.path
}

// write marshals the file values as TOML tables. Callers must hold the lock.
func (s *ConfigStore) write() error {
	data, err := toml.Marshal(s.file.Tables())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// The file may hold an embedding API key.
	return os.WriteFile(s.path, data, 0o600)
}

// load reads the TOML file. A missing file leaves the store empty.
func (s *ConfigStore) load() error {
	s.file = make(config.Values)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.file = config.Flatten(tables)
	return nil
}
