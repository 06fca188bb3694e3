package installer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
	"github.com/cwveysey/coding-agent-notifications/internal/hooks"
)

// UninstallResult summarizes a completed uninstall
type UninstallResult struct {
	Message        string   `json:"message"`
	BackupPath     string   `json:"backup_path"`
	PreservedHooks []string `json:"preserved_hooks"`
	FilesRemoved   []string `json:"files_removed"`
}

// Uninstall removes our hook groups and installed artifacts. It needs the
// manifest of a prior install. The configuration file and custom sounds
// are kept.
func (i *Installer) Uninstall() (*UninstallResult, error) {
	m, err := i.manifests.Read()
	if err != nil {
		return nil, err
	}
	i.logger.Info("uninstall started", slog.String("installed_at", m.InstalledAt))

	settingsPath := i.paths.SettingsFile()
	backupPath, err := i.backups.Create(settingsPath)
	if err != nil {
		return nil, err
	}

	if !fileutil.Exists(settingsPath) {
		return nil, apperr.Wrap(apperr.ErrNotFound, "uninstall", "settings.json not found at "+settingsPath, nil)
	}
	if err := i.stripSettings(); err != nil {
		return nil, err
	}

	removed, err := i.removeScripts(m.Changes.FilesCreated)
	if err != nil {
		return nil, err
	}

	if err := fileutil.RemoveIfExists(i.paths.SoundsEnabledFile()); err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "uninstall", "remove sounds-enabled marker", err)
	}

	for _, dir := range []string{i.paths.GlobalVoicesDir(), i.paths.HelperAppDir()} {
		if !fileutil.Exists(dir) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return nil, apperr.Wrap(apperr.ErrIO, "uninstall", "remove "+dir, err)
		}
		removed = append(removed, dir)
	}

	if err := fileutil.Touch(i.paths.UninstalledFile()); err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "uninstall", "write uninstalled marker", err)
	}

	if err := i.manifests.Delete(); err != nil {
		return nil, err
	}

	preserved := m.Changes.ExistingHooksPreserved
	if preserved == nil {
		preserved = []string{}
	}

	i.logger.Info("uninstall complete",
		slog.String("state", string(StateUninstalled)),
		slog.String("backup", backupPath),
		slog.Int("removed", len(removed)),
	)

	return &UninstallResult{
		Message:        uninstallMessage(backupPath, preserved),
		BackupPath:     backupPath,
		PreservedHooks: preserved,
		FilesRemoved:   removed,
	}, nil
}

func (i *Installer) stripSettings() error {
	settingsPath := i.paths.SettingsFile()
	doc, _, err := hooks.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	return hooks.SaveSettings(settingsPath, hooks.StripOwn(doc))
}

// removeScripts deletes the manifest's files inside the scripts directory
// plus the scripts we always ship. Missing files are skipped.
func (i *Installer) removeScripts(recorded []string) ([]string, error) {
	scriptsDir := i.paths.ScriptsDir()
	seen := make(map[string]bool)
	var targets []string

	for _, path := range recorded {
		if filepath.Dir(filepath.Clean(path)) != scriptsDir || seen[path] {
			continue
		}
		seen[path] = true
		targets = append(targets, path)
	}
	for _, name := range KnownScripts {
		path := filepath.Join(scriptsDir, name)
		if !seen[path] {
			seen[path] = true
			targets = append(targets, path)
		}
	}

	var removed []string
	for _, path := range targets {
		if !fileutil.Exists(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, apperr.Wrap(apperr.ErrIO, "uninstall", "remove "+filepath.Base(path), err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func uninstallMessage(backupPath string, preserved []string) string {
	msg := fmt.Sprintf(
		"Uninstallation complete!\n\nBackup created at: %s\nConfig preserved at: ~/.claude/audio-notifier.yaml",
		backupPath,
	)
	if len(preserved) > 0 {
		msg += "\n\nYour existing hooks were preserved: " + strings.Join(preserved, ", ")
	}
	return msg
}
