package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/cwveysey/coding-agent-notifications/internal/activity"
	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/hooks"
	"github.com/cwveysey/coding-agent-notifications/internal/installer"
	"github.com/cwveysey/coding-agent-notifications/internal/manifest"
	"github.com/cwveysey/coding-agent-notifications/internal/voice"
)

// LoadConfig returns the configuration, or the defaults when none exists
func (s *Service) LoadConfig() (*config.Config, error) {
	return s.configs.Load()
}

// SaveConfig validates and writes cfg
func (s *Service) SaveConfig(cfg *config.Config) error {
	if err := s.configs.Save(cfg); err != nil {
		return err
	}
	s.state.ConfigChanged(s.configs.Path())
	return nil
}

// SoundsEnabled reports whether the sounds-enabled sentinel exists
func (s *Service) SoundsEnabled() bool {
	return s.state.SoundsEnabled().Enabled()
}

// SetSoundsEnabled creates or removes the sounds-enabled sentinel
func (s *Service) SetSoundsEnabled(enabled bool) error {
	flag := s.state.SoundsEnabled()
	if err := flag.Set(enabled); err != nil {
		return apperr.Wrap(apperr.ErrIO, "set sounds enabled", flag.Path(), err)
	}
	s.state.Refresh(flag.Path())
	return nil
}

// Uninstalled reports whether the last lifecycle action was an uninstall
func (s *Service) Uninstalled() bool {
	return s.state.Uninstalled().Enabled()
}

// PreviewSound starts playing path and returns once playback launched
func (s *Service) PreviewSound(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.Wrap(apperr.ErrNotFound, "preview sound", "sound file not found: "+path, err)
		}
		return apperr.Wrap(apperr.ErrIO, "preview sound", "stat "+path, err)
	}
	return s.player.Play(path)
}

// PreviewVoice plays the spoken form of text and returns the audio file used
func (s *Service) PreviewVoice(ctx context.Context, text, apiKey string) (string, error) {
	return s.voices.PreviewVoice(ctx, text, apiKey)
}

// Install runs the installer and announces the result
func (s *Service) Install() (*installer.InstallResult, error) {
	result, err := s.installer.Install()
	s.state.Refresh(s.paths.ManifestFile())
	if err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyInstalled(); err != nil {
		s.logger.Warn("install notification failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// Uninstall runs the uninstaller and announces the result
func (s *Service) Uninstall() (*installer.UninstallResult, error) {
	result, err := s.installer.Uninstall()
	s.state.Refresh(s.paths.ManifestFile())
	if err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyUninstalled(); err != nil {
		s.logger.Warn("uninstall notification failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// DevReset puts the machine back to a first-run state
func (s *Service) DevReset() error {
	err := s.installer.DevReset()
	s.state.Refresh(s.paths.ManifestFile())
	return err
}

// CheckHooks reports which managed hooks are in place
func (s *Service) CheckHooks() (*hooks.CheckResult, error) {
	return hooks.Inspect(s.paths)
}

// UploadSound copies a sound file into the custom sound library
func (s *Service) UploadSound(path string) (string, error) {
	return s.sounds.Upload(path)
}

// ListSounds returns the custom sound files
func (s *Service) ListSounds() ([]string, error) {
	return s.sounds.List()
}

// RecentProjects lists recently used working directories
func (s *Service) RecentProjects() ([]string, error) {
	return activity.RecentProjects(s.paths.StopInputLog(), s.paths.OutputLog())
}

// PregenerateVoices caches the default event voices with Fish Audio
func (s *Service) PregenerateVoices(ctx context.Context, apiKey string) (*voice.PregenerateResult, error) {
	return s.voices.PregenerateBasic(ctx, apiKey)
}

// GenerateVoices renders the voice files for the saved configuration
func (s *Service) GenerateVoices(ctx context.Context, apiKey string) (int, error) {
	cfg, err := s.configs.Load()
	if err != nil {
		return 0, err
	}
	return s.voices.GenerateNotifications(ctx, cfg, apiKey)
}

// InstallationInfo returns the manifest of the current install
func (s *Service) InstallationInfo() (*manifest.Manifest, error) {
	return s.installer.Manifests().Read()
}

// InstallationLog returns the manifest as indented JSON
func (s *Service) InstallationLog() (string, error) {
	return s.installer.Manifests().ReadRaw()
}

// BackupPath returns the settings backup taken by the current install
func (s *Service) BackupPath() (string, error) {
	m, err := s.installer.Manifests().Read()
	if err != nil {
		return "", err
	}
	return m.BackupPath, nil
}

// ActivityLog returns recent hook activity, most recent first
func (s *Service) ActivityLog() ([]activity.Event, error) {
	return activity.ReadLog(s.paths.ActivityLog())
}

// Diagnostics returns the diagnostics report as indented JSON
func (s *Service) Diagnostics(ctx context.Context) (string, error) {
	return s.diagnostics.Collect(ctx).JSON()
}

// OpenLog opens the hook script's debug log
func (s *Service) OpenLog() error {
	return s.system.Open(s.paths.DebugLog())
}

// OpenFocusSettings opens the Focus preferences
func (s *Service) OpenFocusSettings() error {
	return s.system.OpenFocusSettings()
}

// TestNotification shows a desktop notification
func (s *Service) TestNotification(message string) error {
	if err := s.notifier.NotifyTest(message); err != nil {
		return apperr.Wrap(apperr.ErrExternalTool, "test notification", "failed to show notification", err)
	}
	return nil
}
