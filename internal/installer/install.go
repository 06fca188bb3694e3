package installer

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
	"github.com/cwveysey/coding-agent-notifications/internal/hooks"
	"github.com/cwveysey/coding-agent-notifications/internal/manifest"
)

// InstallResult summarizes a completed install
type InstallResult struct {
	Message        string   `json:"message"`
	BackupPath     string   `json:"backup_path"`
	PreservedHooks []string `json:"preserved_hooks"`
	FilesCreated   []string `json:"files_created"`
	Reinstall      bool     `json:"reinstall"`
}

// Install copies the bundled resources, registers our hooks in the settings
// document and records the result in a new manifest. Every step is
// repeatable: running Install again over an existing installation yields
// the same settings document. A failing step leaves the earlier steps'
// effects in place.
func (i *Installer) Install() (*InstallResult, error) {
	state := StateInstalling
	if i.State() == StateInstalled {
		state = StateReinstalling
	}
	i.logger.Info("install started", slog.String("state", string(state)))

	if err := fileutil.RemoveIfExists(i.paths.UninstalledFile()); err != nil {
		i.logger.Warn("could not clear uninstalled marker", slog.String("error", err.Error()))
	}

	if err := i.createDirectories(); err != nil {
		return nil, err
	}

	var created []string

	scripts, err := i.copyScripts()
	if err != nil {
		return nil, err
	}
	created = append(created, scripts...)

	voices, err := i.copyVoices()
	if err != nil {
		return nil, err
	}
	created = append(created, voices...)

	helper, err := i.copyHelperApp()
	if err != nil {
		return nil, err
	}
	if helper != "" {
		created = append(created, helper)
	}

	settingsPath := i.paths.SettingsFile()
	doc, _, err := hooks.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	existing, err := hooks.ExistingHooks(doc)
	if err != nil {
		return nil, err
	}
	merged := hooks.Merge(existing, hooks.Canonical(i.paths))
	preserved := foreignHookTypes(merged.Keys())

	backupPath, err := i.backups.Create(settingsPath)
	if err != nil {
		return nil, err
	}

	doc.Set(hooks.HooksKey, merged)
	if err := hooks.SaveSettings(settingsPath, doc); err != nil {
		return nil, err
	}

	if err := fileutil.Touch(i.paths.SoundsEnabledFile()); err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "install", "enable sounds", err)
	}
	created = append(created, i.paths.SoundsEnabledFile())

	if !i.configs.Exists() {
		if err := i.configs.Save(config.DefaultConfig()); err != nil {
			return nil, err
		}
		created = append(created, i.paths.ConfigFile())
	}

	m := &manifest.Manifest{
		InstalledAt: i.now().UTC().Format(time.RFC3339),
		BackupPath:  backupPath,
		AppVersion:  i.version,
		Changes: manifest.Changes{
			FilesCreated:           created,
			HooksAdded:             config.HookTypes(),
			ExistingHooksPreserved: preserved,
		},
	}
	if err := i.manifests.Write(m); err != nil {
		return nil, err
	}

	i.logger.Info("install complete",
		slog.String("state", string(StateInstalled)),
		slog.String("backup", backupPath),
		slog.Int("files", len(created)),
		slog.Any("preserved_hooks", preserved),
	)

	return &InstallResult{
		Message:        installMessage(preserved),
		BackupPath:     backupPath,
		PreservedHooks: preserved,
		FilesCreated:   created,
		Reinstall:      state == StateReinstalling,
	}, nil
}

func (i *Installer) createDirectories() error {
	dirs := []string{
		i.paths.ClaudeDir(),
		i.paths.ScriptsDir(),
		i.paths.GlobalVoicesDir(),
		i.paths.BackupsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Wrap(apperr.ErrIO, "install", "create "+dir, err)
		}
	}
	return nil
}

// copyScripts installs every bundled script with the executable bit set.
// Files in the scripts directory that we do not ship are left alone.
func (i *Installer) copyScripts() ([]string, error) {
	src := i.paths.BundledScriptsDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "install", "bundled scripts not found at "+src, nil)
		}
		return nil, apperr.Wrap(apperr.ErrIO, "install", "read bundled scripts", err)
	}

	var copied []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		dst := filepath.Join(i.paths.ScriptsDir(), entry.Name())
		if err := fileutil.CopyFileMode(filepath.Join(src, entry.Name()), dst, 0o755); err != nil {
			return nil, apperr.Wrap(apperr.ErrIO, "install", "copy script "+entry.Name(), err)
		}
		copied = append(copied, dst)
	}
	i.logger.Debug("scripts installed", slog.Int("count", len(copied)))
	return copied, nil
}

// copyVoices installs the bundled voice files as the global voices
func (i *Installer) copyVoices() ([]string, error) {
	src := i.paths.BundledVoicesDir()
	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			i.logger.Debug("no bundled voices", slog.String("path", src))
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.ErrIO, "install", "read bundled voices", err)
	}

	var copied []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		dst := filepath.Join(i.paths.GlobalVoicesDir(), entry.Name())
		if err := fileutil.CopyFile(filepath.Join(src, entry.Name()), dst); err != nil {
			return nil, apperr.Wrap(apperr.ErrIO, "install", "copy voice "+entry.Name(), err)
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

// copyHelperApp replaces the installed helper bundle with the bundled one.
// It returns "" when the application ships without it.
func (i *Installer) copyHelperApp() (string, error) {
	src := i.paths.BundledHelperApp()
	if !fileutil.Exists(src) {
		i.logger.Debug("no bundled helper app", slog.String("path", src))
		return "", nil
	}
	dst := i.paths.HelperAppDir()
	if err := fileutil.CopyDir(src, dst); err != nil {
		return "", apperr.Wrap(apperr.ErrIO, "install", "copy helper app", err)
	}
	return dst, nil
}

func foreignHookTypes(types []string) []string {
	out := []string{}
	for _, t := range types {
		if !config.IsManagedHookType(t) {
			out = append(out, t)
		}
	}
	return out
}

func installMessage(preserved []string) string {
	msg := "Installation complete! Audio notifications are now active."
	if len(preserved) > 0 {
		msg += "\n\nExisting hooks preserved: " + strings.Join(preserved, ", ")
	}
	return msg
}
