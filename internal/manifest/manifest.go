package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
)

// Manifest records what an install created and changed
type Manifest struct {
	InstalledAt string  `json:"installed_at"`
	BackupPath  string  `json:"backup_path"`
	AppVersion  string  `json:"app_version"`
	Changes     Changes `json:"changes"`
}

// Changes lists the files and hook types touched by an install
type Changes struct {
	FilesCreated           []string `json:"files_created"`
	HooksAdded             []string `json:"hooks_added"`
	ExistingHooksPreserved []string `json:"existing_hooks_preserved"`
}

// Store persists the manifest at a fixed path
type Store struct {
	path string
}

// NewStore creates a store for the manifest file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest location
func (s *Store) Path() string {
	return s.path
}

// Write replaces any existing manifest
func (s *Store) Write(m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return apperr.Wrap(apperr.ErrParse, "write manifest", "serialize manifest", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrIO, "write manifest", "create manifest directory", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.ErrIO, "write manifest", "write "+s.path, err)
	}
	return nil
}

// Read loads the manifest. No manifest means no recorded install.
func (s *Store) Read() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "read manifest",
				"installation manifest not found, application may not be installed", nil)
		}
		return nil, apperr.Wrap(apperr.ErrIO, "read manifest", "read "+s.path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperr.Wrap(apperr.ErrParse, "read manifest", "invalid manifest", err)
	}
	return &m, nil
}

// ReadRaw returns the manifest re-rendered as indented JSON
func (s *Store) ReadRaw() (string, error) {
	m, err := s.Read()
	if err != nil {
		return "", err
	}
	data, err := Marshal(m)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrParse, "export manifest", "serialize manifest", err)
	}
	return string(data), nil
}

// Delete removes the manifest; a missing file is not an error
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Wrap(apperr.ErrIO, "delete manifest", "remove "+s.path, err)
	}
	return nil
}

// Marshal renders the manifest with two-space indentation. Nil lists are
// written as empty arrays.
func Marshal(m *Manifest) ([]byte, error) {
	out := *m
	out.Changes.FilesCreated = nonNil(out.Changes.FilesCreated)
	out.Changes.HooksAdded = nonNil(out.Changes.HooksAdded)
	out.Changes.ExistingHooksPreserved = nonNil(out.Changes.ExistingHooksPreserved)
	return json.MarshalIndent(&out, "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
