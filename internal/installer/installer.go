package installer

import (
	"log/slog"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/backup"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
	"github.com/cwveysey/coding-agent-notifications/internal/manifest"
)

// DefaultVersion is recorded in the manifest when no build version is set
const DefaultVersion = "1.0.0"

// KnownScripts are the bundled script names removed on uninstall even when
// the manifest does not list them
var KnownScripts = []string{"smart-notify.sh", "select-sound.sh", "read-config.sh"}

// State is the lifecycle position of the installation
type State string

const (
	StateNotInstalled State = "not_installed"
	StateInstalling   State = "installing"
	StateReinstalling State = "reinstalling"
	StateInstalled    State = "installed"
	StateUninstalled  State = "uninstalled"
)

// Installer installs and removes the hook integration
type Installer struct {
	paths     *config.Paths
	backups   *backup.Manager
	manifests *manifest.Store
	configs   *config.Store
	logger    *slog.Logger
	now       func() time.Time
	version   string
}

// Option configures an Installer
type Option func(*Installer)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithClock replaces the clock used for timestamps and backup names
func WithClock(now func() time.Time) Option {
	return func(i *Installer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithVersion sets the application version recorded in the manifest
func WithVersion(version string) Option {
	return func(i *Installer) {
		if version != "" {
			i.version = version
		}
	}
}

// New creates an installer working under paths
func New(paths *config.Paths, opts ...Option) *Installer {
	i := &Installer{
		paths:   paths,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.backups = backup.NewManager(paths.BackupsDir(), backup.WithClock(i.now))
	i.manifests = manifest.NewStore(paths.ManifestFile())
	i.configs = config.NewStore(paths.ConfigFile(), i.logger)
	return i
}

// State reports the current lifecycle state from what is on disk
func (i *Installer) State() State {
	switch {
	case fileutil.Exists(i.paths.ManifestFile()):
		return StateInstalled
	case fileutil.Exists(i.paths.UninstalledFile()):
		return StateUninstalled
	default:
		return StateNotInstalled
	}
}

// Manifests returns the manifest store the installer writes
func (i *Installer) Manifests() *manifest.Store {
	return i.manifests
}
