package installer

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
)

// DevReset removes installed artifacts and the configuration so the
// first-run flow can be exercised again. Our hooks are stripped from the
// settings document after a backup; foreign hooks stay. Custom sounds and
// backups are kept.
func (i *Installer) DevReset() error {
	files := []string{
		i.paths.SoundsEnabledFile(),
		i.paths.ConfigFile(),
	}
	for _, name := range KnownScripts {
		files = append(files, filepath.Join(i.paths.ScriptsDir(), name))
	}
	for _, path := range files {
		if err := fileutil.RemoveIfExists(path); err != nil {
			return apperr.Wrap(apperr.ErrIO, "dev reset", "remove "+path, err)
		}
	}

	for _, dir := range []string{i.paths.GlobalVoicesDir(), i.paths.HelperAppDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return apperr.Wrap(apperr.ErrIO, "dev reset", "remove "+dir, err)
		}
	}

	if fileutil.Exists(i.paths.SettingsFile()) {
		backupPath, err := i.backups.Create(i.paths.SettingsFile())
		if err != nil {
			return err
		}
		if err := i.stripSettings(); err != nil {
			return err
		}
		i.logger.Debug("settings stripped", slog.String("backup", backupPath))
	}

	if err := i.manifests.Delete(); err != nil {
		return err
	}

	i.logger.Info("developer reset complete")
	return nil
}
