package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

// Store loads and saves the YAML configuration at a fixed path
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the configuration file at path
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{path: path, logger: logger}
}

// Path returns the configuration file location
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a configuration file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the configuration. A missing file yields the defaults without
// writing anything. A file that is empty or does not parse is replaced by
// the defaults, which are persisted.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "load config", "read "+s.path, err)
	}

	cfg, parseErr := decode(data)
	if parseErr == nil {
		return cfg, nil
	}

	s.logger.Warn("configuration unreadable, migrating to defaults",
		slog.String("path", s.path),
		slog.String("error", parseErr.Error()),
	)
	def := DefaultConfig()
	if err := s.Save(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Save validates cfg and writes it, creating the parent directory
func (s *Store) Save(cfg *Config) error {
	if cfg == nil {
		return apperr.Wrap(apperr.ErrConfiguration, "save config", "configuration is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return apperr.Wrap(apperr.ErrConfiguration, "save config", "invalid configuration", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrIO, "save config", "create config directory", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return apperr.Wrap(apperr.ErrParse, "save config", "serialize config", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrIO, "save config", "write "+s.path, err)
	}
	s.logger.Debug("configuration saved", slog.String("path", s.path))
	return nil
}

// Marshal renders cfg as YAML with two-space indentation
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("configuration file is empty")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
