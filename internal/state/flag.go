package state

import (
	"os"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
)

// Flag is a boolean stored as the existence of an empty file
type Flag struct {
	path string
}

// NewFlag creates a flag backed by the file at path
func NewFlag(path string) Flag {
	return Flag{path: path}
}

// Path returns the sentinel file location
func (f Flag) Path() string {
	return f.path
}

// Enabled reports whether the sentinel file exists
func (f Flag) Enabled() bool {
	return fileutil.Exists(f.path)
}

// Set creates or removes the sentinel file
func (f Flag) Set(enabled bool) error {
	if !enabled {
		if err := fileutil.RemoveIfExists(f.path); err != nil {
			return apperr.Wrap(apperr.ErrIO, "clear flag", f.path, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrIO, "set flag", "create "+filepath.Dir(f.path), err)
	}
	if err := fileutil.Touch(f.path); err != nil {
		return apperr.Wrap(apperr.ErrIO, "set flag", f.path, err)
	}
	return nil
}
