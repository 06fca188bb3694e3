package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/hooks"
	"github.com/cwveysey/coding-agent-notifications/internal/jsontree"
)

const preCommitSettings = `{"hooks": {"PreCommit": [{"matcher":"","hooks":[{"type":"command","command":"lint.sh"}]}]}}`

type fixture struct {
	paths     *config.Paths
	installer *Installer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	paths := config.NewPaths(filepath.Join(root, "home"), filepath.Join(root, "resources"))

	writeFile(t, filepath.Join(paths.BundledScriptsDir(), "smart-notify.sh"), "#!/bin/bash\necho notify\n", 0o644)
	writeFile(t, filepath.Join(paths.BundledScriptsDir(), "select-sound.sh"), "#!/bin/bash\necho select\n", 0o644)
	writeFile(t, filepath.Join(paths.BundledVoicesDir(), "notification.mp3"), "ID3voice", 0o644)
	writeFile(t, filepath.Join(paths.BundledHelperApp(), "Contents", "MacOS", "terminal-notifier"), "bin", 0o755)
	writeFile(t, filepath.Join(paths.BundledHelperApp(), "Contents", "Info.plist"), "<plist/>", 0o644)

	tick := time.Unix(1700000000, 0)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	return &fixture{
		paths:     paths,
		installer: New(paths, WithClock(clock), WithVersion("1.2.3")),
	}
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func (f *fixture) settings(t *testing.T) *jsontree.Object {
	t.Helper()
	doc, exists, err := hooks.LoadSettings(f.paths.SettingsFile())
	require.NoError(t, err)
	require.True(t, exists)
	return doc
}

func (f *fixture) hooksOf(t *testing.T) *jsontree.Object {
	t.Helper()
	h, ok := f.settings(t).Object(hooks.HooksKey)
	require.True(t, ok)
	return h
}

func TestInstallIntoEmptySettings(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{}`, 0o644)

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.False(t, result.Reinstall)
	assert.Equal(t, "Installation complete! Audio notifications are now active.", result.Message)
	assert.NotEmpty(t, result.BackupPath)
	assert.FileExists(t, result.BackupPath)

	h := f.hooksOf(t)
	assert.Equal(t, config.HookTypes(), h.Keys())
	for _, hookType := range h.Keys() {
		groups, ok := h.Array(hookType)
		require.True(t, ok)
		require.Len(t, groups, 1, hookType)
		assert.True(t, hooks.IsOwnGroup(groups[0]))
	}

	m, err := f.installer.Manifests().Read()
	require.NoError(t, err)
	assert.Empty(t, m.Changes.ExistingHooksPreserved)
	assert.Equal(t, config.HookTypes(), m.Changes.HooksAdded)
	assert.Equal(t, "1.2.3", m.AppVersion)
	assert.Equal(t, result.BackupPath, m.BackupPath)
	_, err = time.Parse(time.RFC3339, m.InstalledAt)
	assert.NoError(t, err)

	assert.Contains(t, m.Changes.FilesCreated, f.paths.MarkerScriptFile())
	assert.Contains(t, m.Changes.FilesCreated, filepath.Join(f.paths.GlobalVoicesDir(), "notification.mp3"))
	assert.Contains(t, m.Changes.FilesCreated, f.paths.HelperAppDir())
	assert.Contains(t, m.Changes.FilesCreated, f.paths.SoundsEnabledFile())
	assert.Contains(t, m.Changes.FilesCreated, f.paths.ConfigFile())

	info, err := os.Stat(f.paths.MarkerScriptFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(f.paths.HelperBinary())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.FileExists(t, f.paths.SoundsEnabledFile())
	assert.FileExists(t, f.paths.ConfigFile())
	assert.Equal(t, StateInstalled, f.installer.State())
}

func TestInstallWithoutSettingsFile(t *testing.T) {
	f := newFixture(t)

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.Equal(t, "", result.BackupPath)
	assert.Equal(t, config.HookTypes(), f.hooksOf(t).Keys())

	entries, err := os.ReadDir(f.paths.BackupsDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstallPreservesForeignHookType(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), preCommitSettings, 0o644)

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.Equal(t, []string{"PreCommit"}, result.PreservedHooks)
	assert.True(t, strings.HasSuffix(result.Message, "Existing hooks preserved: PreCommit"))

	h := f.hooksOf(t)
	assert.Equal(t, append(config.HookTypes(), "PreCommit"), h.Keys())

	original, err := jsontree.ParseObject([]byte(preCommitSettings))
	require.NoError(t, err)
	originalHooks, _ := original.Object(hooks.HooksKey)
	want, _ := originalHooks.Get("PreCommit")
	got, _ := h.Get("PreCommit")
	assert.True(t, jsontree.Equal(want, got))

	m, err := f.installer.Manifests().Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"PreCommit"}, m.Changes.ExistingHooksPreserved)
}

func TestReinstallIsIdempotent(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), preCommitSettings, 0o644)

	_, err := f.installer.Install()
	require.NoError(t, err)
	first, err := os.ReadFile(f.paths.SettingsFile())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.MinInterval = 9
	require.NoError(t, config.NewStore(f.paths.ConfigFile(), nil).Save(cfg))

	writeFile(t, filepath.Join(f.paths.ScriptsDir(), "user-script.sh"), "mine", 0o600)

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.True(t, result.Reinstall)

	second, err := os.ReadFile(f.paths.SettingsFile())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	loaded, err := config.NewStore(f.paths.ConfigFile(), nil).Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(9), loaded.MinInterval)
	assert.NotContains(t, result.FilesCreated, f.paths.ConfigFile())

	assert.FileExists(t, filepath.Join(f.paths.ScriptsDir(), "user-script.sh"))

	entries, err := os.ReadDir(f.paths.BackupsDir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestInstallClearsUninstalledMarker(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.UninstalledFile(), "", 0o644)
	assert.Equal(t, StateUninstalled, f.installer.State())

	_, err := f.installer.Install()
	require.NoError(t, err)
	assert.NoFileExists(t, f.paths.UninstalledFile())
}

func TestInstallMissingBundledScripts(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.paths.BundledScriptsDir()))

	_, err := f.installer.Install()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoFileExists(t, f.paths.ManifestFile())
}

func TestInstallSkipsMissingOptionalResources(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.paths.BundledVoicesDir()))
	require.NoError(t, os.RemoveAll(filepath.Dir(f.paths.BundledHelperApp())))

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.NotContains(t, result.FilesCreated, f.paths.HelperAppDir())
	assert.NoDirExists(t, f.paths.HelperAppDir())
}

func TestInstallRefusesNonObjectHooks(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{"hooks": ["Stop"]}`, 0o644)

	_, err := f.installer.Install()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrParse)

	data, err := os.ReadFile(f.paths.SettingsFile())
	require.NoError(t, err)
	assert.Equal(t, `{"hooks": ["Stop"]}`, string(data))
}

func TestInstallMalformedSettings(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{"hooks": `, 0o644)

	_, err := f.installer.Install()
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestUninstallAfterInstall(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{"model": "opus", "hooks": {"PreCommit": [{"matcher":"","hooks":[{"type":"command","command":"lint.sh"}]}]}}`, 0o644)
	writeFile(t, filepath.Join(f.paths.SoundsDir(), "mine.wav"), "RIFF", 0o644)

	_, err := f.installer.Install()
	require.NoError(t, err)

	result, err := f.installer.Uninstall()
	require.NoError(t, err)
	assert.Equal(t, []string{"PreCommit"}, result.PreservedHooks)
	assert.Contains(t, result.Message, "Backup created at: "+result.BackupPath)
	assert.Contains(t, result.Message, "Your existing hooks were preserved: PreCommit")
	assert.FileExists(t, result.BackupPath)

	doc := f.settings(t)
	model, _ := doc.String("model")
	assert.Equal(t, "opus", model)
	h, ok := doc.Object(hooks.HooksKey)
	require.True(t, ok)
	assert.Equal(t, []string{"PreCommit"}, h.Keys())

	assert.NoFileExists(t, f.paths.MarkerScriptFile())
	assert.NoFileExists(t, filepath.Join(f.paths.ScriptsDir(), "select-sound.sh"))
	assert.NoFileExists(t, f.paths.SoundsEnabledFile())
	assert.NoDirExists(t, f.paths.GlobalVoicesDir())
	assert.NoDirExists(t, f.paths.HelperAppDir())
	assert.NoFileExists(t, f.paths.ManifestFile())
	assert.FileExists(t, f.paths.UninstalledFile())
	assert.FileExists(t, f.paths.ConfigFile())
	assert.FileExists(t, filepath.Join(f.paths.SoundsDir(), "mine.wav"))
	assert.Equal(t, StateUninstalled, f.installer.State())
}

func TestUninstallRemovesEmptiedHooksKey(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{}`, 0o644)

	_, err := f.installer.Install()
	require.NoError(t, err)
	result, err := f.installer.Uninstall()
	require.NoError(t, err)
	assert.Empty(t, result.PreservedHooks)
	assert.NotContains(t, result.Message, "preserved:")

	assert.False(t, f.settings(t).Has(hooks.HooksKey))
}

func TestUninstallWithoutManifest(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), `{}`, 0o644)

	_, err := f.installer.Uninstall()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries, _ := os.ReadDir(f.paths.BackupsDir())
	assert.Empty(t, entries)
}

func TestUninstallWithoutSettings(t *testing.T) {
	f := newFixture(t)
	_, err := f.installer.Install()
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.paths.SettingsFile()))

	_, err = f.installer.Uninstall()
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDevReset(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.paths.SettingsFile(), preCommitSettings, 0o644)

	_, err := f.installer.Install()
	require.NoError(t, err)

	require.NoError(t, f.installer.DevReset())

	assert.NoFileExists(t, f.paths.SoundsEnabledFile())
	assert.NoFileExists(t, f.paths.ConfigFile())
	assert.NoFileExists(t, f.paths.MarkerScriptFile())
	assert.NoDirExists(t, f.paths.GlobalVoicesDir())
	assert.NoDirExists(t, f.paths.HelperAppDir())
	assert.NoFileExists(t, f.paths.ManifestFile())
	assert.Equal(t, StateNotInstalled, f.installer.State())

	h := f.hooksOf(t)
	assert.Equal(t, []string{"PreCommit"}, h.Keys())

	require.NoError(t, f.installer.DevReset())
}

func TestInstallDoesNotReportRemovedOwnOnlyHookType(t *testing.T) {
	f := newFixture(t)
	script := f.paths.MarkerScriptFile()
	writeFile(t, f.paths.SettingsFile(), `{"hooks": {
		"SessionStart": [{"matcher":"","hooks":[{"type":"command","command":"`+script+` SessionStart"}]}],
		"PreCommit": [{"matcher":"","hooks":[{"type":"command","command":"lint.sh"}]}]
	}}`, 0o644)

	result, err := f.installer.Install()
	require.NoError(t, err)
	assert.Equal(t, []string{"PreCommit"}, result.PreservedHooks)
	assert.NotContains(t, result.Message, "SessionStart")

	h := f.hooksOf(t)
	assert.False(t, h.Has("SessionStart"))

	m, err := f.installer.Manifests().Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"PreCommit"}, m.Changes.ExistingHooksPreserved)
}
