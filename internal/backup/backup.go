package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
)

// FilePrefix starts every backup file name
const FilePrefix = "settings-pre-audio-notifier-"

// maxSuffix bounds the numbered names tried for backups taken in the same second
const maxSuffix = 100

// Manager snapshots the settings document before it is mutated
type Manager struct {
	dir string
	now func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces the clock used to name backups
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager that writes backups into dir
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies settingsPath byte for byte into the backup directory and
// returns the backup's path. When settingsPath does not exist there is
// nothing to protect: it returns "" and writes nothing. Existing backups are
// never overwritten; a second backup in the same second gets a numbered name.
func (m *Manager) Create(settingsPath string) (string, error) {
	if _, err := os.Stat(settingsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", apperr.Wrap(apperr.ErrIO, "create backup", "stat "+settingsPath, err)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.ErrIO, "create backup", "create backup directory", err)
	}

	stamp := m.now().Unix()
	for n := 0; n < maxSuffix; n++ {
		dst := filepath.Join(m.dir, backupName(stamp, n))
		err := fileutil.CopyFileExclusive(settingsPath, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", apperr.Wrap(apperr.ErrIO, "create backup", "copy settings to "+dst, err)
		}
	}
	return "", apperr.Wrap(apperr.ErrIO, "create backup",
		fmt.Sprintf("too many backups for timestamp %d", stamp), nil)
}

func backupName(stamp int64, n int) string {
	if n == 0 {
		return fmt.Sprintf("%s%d.json", FilePrefix, stamp)
	}
	return fmt.Sprintf("%s%d-%d.json", FilePrefix, stamp, n)
}
